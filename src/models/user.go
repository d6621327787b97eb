package models

import (
	"time"
)

// User ユーザーモデル
type User struct {
	ID           int        `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash *string    `json:"-" db:"password_hash"` // ローカル認証用（JSON出力しない）
	GoogleID     *string    `json:"google_id" db:"google_id"`
	DisplayName  *string    `json:"display_name" db:"display_name"`
	AvatarURL    *string    `json:"avatar_url" db:"avatar_url"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at" db:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// PublicUser 公開用ユーザー情報（センシティブな情報を除外）
type PublicUser struct {
	ID          int       `json:"id"`
	Email       string    `json:"email"`
	DisplayName *string   `json:"display_name,omitempty"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToPublic センシティブな情報を除外したPublicUserを返す
func (u *User) ToPublic() *PublicUser {
	return &PublicUser{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
	}
}

// AuthProvider 認証プロバイダーの種類
type AuthProvider string

const (
	AuthProviderLocal  AuthProvider = "local"
	AuthProviderGoogle AuthProvider = "google"
)

// GetAuthProvider ユーザーの認証プロバイダーを取得
func (u *User) GetAuthProvider() AuthProvider {
	if u.GoogleID != nil {
		return AuthProviderGoogle
	}
	return AuthProviderLocal
}

// LoginRequest ログインリクエスト
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" validate:"required,email"`
	Password string `json:"password" binding:"required,min=8" validate:"required,min=8"`
}

// RegisterRequest 新規登録リクエスト（ローカル認証）
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email" validate:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=128" validate:"required,min=8,max=128"`
}

// AuthResponse 認証レスポンス
type AuthResponse struct {
	User         *PublicUser `json:"user"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    int64       `json:"expires_in"` // 秒単位
}

// RefreshTokenRequest リフレッシュトークンリクエスト
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required" validate:"required"`
}

// GoogleUser Google APIから取得するユーザー情報
type GoogleUser struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}
