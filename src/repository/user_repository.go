package repository

import (
	"database/sql"
	"fmt"
	"time"

	"thoughtstream/src/models"
)

// UserRepository ユーザーデータアクセス層のインターフェース
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByGoogleID(googleID string) (*models.User, error)
	UpdateLastLogin(userID int) error
	IsEmailExists(email string) (bool, error)
}

// userRepository ユーザーリポジトリの実装
type userRepository struct {
	db *sql.DB
}

// NewUserRepository ユーザーリポジトリを作成
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

// Create ユーザーを作成
func (r *userRepository) Create(user *models.User) error {
	query := `
		INSERT INTO users (email, password_hash, google_id, display_name, avatar_url, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(
		query,
		user.Email,
		user.PasswordHash,
		user.GoogleID,
		user.DisplayName,
		user.AvatarURL,
		user.IsActive,
		time.Now(),
		time.Now(),
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID IDでユーザーを取得
func (r *userRepository) GetByID(id int) (*models.User, error) {
	return r.getOne(`
		SELECT id, email, password_hash, google_id, display_name, avatar_url,
		       is_active, last_login_at, created_at, updated_at
		FROM users WHERE id = $1`, id)
}

// GetByEmail メールアドレスでユーザーを取得
func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	return r.getOne(`
		SELECT id, email, password_hash, google_id, display_name, avatar_url,
		       is_active, last_login_at, created_at, updated_at
		FROM users WHERE email = $1`, email)
}

// GetByGoogleID Google IDでユーザーを取得
func (r *userRepository) GetByGoogleID(googleID string) (*models.User, error) {
	return r.getOne(`
		SELECT id, email, password_hash, google_id, display_name, avatar_url,
		       is_active, last_login_at, created_at, updated_at
		FROM users WHERE google_id = $1`, googleID)
}

func (r *userRepository) getOne(query string, arg interface{}) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRow(query, arg).Scan(
		&user.ID, &user.Email, &user.PasswordHash,
		&user.GoogleID, &user.DisplayName, &user.AvatarURL,
		&user.IsActive, &user.LastLoginAt, &user.CreatedAt, &user.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// UpdateLastLogin 最終ログイン時刻を更新
func (r *userRepository) UpdateLastLogin(userID int) error {
	query := `UPDATE users SET last_login_at = $1, updated_at = $1 WHERE id = $2`

	if _, err := r.db.Exec(query, time.Now(), userID); err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// IsEmailExists メールアドレスの存在チェック
func (r *userRepository) IsEmailExists(email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	if err := r.db.QueryRow(query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}
