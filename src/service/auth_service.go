package service

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"thoughtstream/src/config"
	"thoughtstream/src/models"
	"thoughtstream/src/repository"
)

// AuthService 認証サービスのインターフェース
type AuthService interface {
	// ローカル認証
	Register(req *models.RegisterRequest) (*models.AuthResponse, error)
	Login(req *models.LoginRequest) (*models.AuthResponse, error)

	// Google認証（外部IDプロバイダーへの委譲）
	GetGoogleAuthURL(state string) string
	HandleGoogleCallback(code, state string) (*models.AuthResponse, error)

	// トークン管理
	RefreshToken(refreshToken string) (*models.AuthResponse, error)
	SignOut(userID int) error
}

// authService 認証サービスの実装
type authService struct {
	userRepo   repository.UserRepository
	jwtService JWTService
	config     *config.Config
}

// NewAuthService 認証サービスを作成
func NewAuthService(userRepo repository.UserRepository, jwtService JWTService, cfg *config.Config) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		config:     cfg,
	}
}

// Register 新規ユーザー登録（ローカル認証）
func (s *authService) Register(req *models.RegisterRequest) (*models.AuthResponse, error) {
	// メールアドレスの重複チェック
	exists, err := s.userRepo.IsEmailExists(req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("email already exists")
	}

	// パスワードハッシュ化
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// ユーザー作成
	user := &models.User{
		Email:        req.Email,
		PasswordHash: stringPtr(string(hashedPassword)),
		IsActive:     true,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// トークン生成
	return s.generateAuthResponse(user)
}

// Login ユーザーログイン（ローカル認証）
func (s *authService) Login(req *models.LoginRequest) (*models.AuthResponse, error) {
	// ユーザー取得
	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	// アカウント有効性チェック
	if !user.IsActive {
		return nil, fmt.Errorf("account is deactivated")
	}

	// パスワード認証（ローカル認証の場合のみ）
	if user.PasswordHash == nil {
		return nil, fmt.Errorf("this account uses external authentication")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	// 最終ログイン時刻更新
	if err := s.userRepo.UpdateLastLogin(user.ID); err != nil {
		// ログに記録するが、エラーで失敗させない
		fmt.Printf("Warning: failed to update last login: %v\n", err)
	}

	// トークン生成
	return s.generateAuthResponse(user)
}

// GetGoogleAuthURL Google認証URLを取得
func (s *authService) GetGoogleAuthURL(state string) string {
	baseURL := "https://accounts.google.com/o/oauth2/v2/auth"
	params := url.Values{}
	params.Set("client_id", s.config.Auth.GoogleClientID)
	params.Set("redirect_uri", s.config.Auth.GoogleRedirectURL)
	params.Set("response_type", "code")
	params.Set("scope", "openid email profile")
	params.Set("state", state)

	return fmt.Sprintf("%s?%s", baseURL, params.Encode())
}

// HandleGoogleCallback Googleコールバックを処理
func (s *authService) HandleGoogleCallback(code, state string) (*models.AuthResponse, error) {
	// Googleからアクセストークンを取得
	accessToken, err := s.exchangeCodeForToken(code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code for token: %w", err)
	}

	// Googleユーザー情報を取得
	googleUser, err := s.getGoogleUser(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to get Google user: %w", err)
	}

	// 既存ユーザーをチェック
	existingUser, err := s.userRepo.GetByGoogleID(googleUser.ID)
	if err == nil {
		// 既存ユーザーの場合
		if !existingUser.IsActive {
			return nil, fmt.Errorf("account is deactivated")
		}

		// 最終ログイン時刻更新
		if err := s.userRepo.UpdateLastLogin(existingUser.ID); err != nil {
			fmt.Printf("Warning: failed to update last login: %v\n", err)
		}

		return s.generateAuthResponse(existingUser)
	}

	// メールアドレスの重複チェック（Googleのメールアドレスで）
	if googleUser.Email != "" {
		exists, err := s.userRepo.IsEmailExists(googleUser.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email existence: %w", err)
		}
		if exists {
			return nil, fmt.Errorf("email already exists with different authentication method")
		}
	}

	// 新規ユーザー作成
	user := &models.User{
		Email:       googleUser.Email,
		GoogleID:    &googleUser.ID,
		DisplayName: stringPtr(googleUser.Name),
		AvatarURL:   stringPtr(googleUser.Picture),
		IsActive:    true,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.generateAuthResponse(user)
}

// RefreshToken リフレッシュトークンで新しいトークンを生成
func (s *authService) RefreshToken(refreshToken string) (*models.AuthResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	if !user.IsActive {
		return nil, fmt.Errorf("account is deactivated")
	}

	return s.generateAuthResponse(user)
}

// SignOut サインアウト処理
// トークンはステートレスなので、最終ログイン記録の更新のみ行う
func (s *authService) SignOut(userID int) error {
	return s.userRepo.UpdateLastLogin(userID)
}

// generateAuthResponse 認証レスポンスを生成
func (s *authService) generateAuthResponse(user *models.User) (*models.AuthResponse, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtService.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &models.AuthResponse{
		User:         user.ToPublic(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.config.Auth.JWTExpiresIn.Seconds()),
	}, nil
}

// getGoogleUser Googleユーザー情報を取得
func (s *authService) getGoogleUser(accessToken string) (*models.GoogleUser, error) {
	req, err := http.NewRequest("GET", "https://www.googleapis.com/oauth2/v2/userinfo", nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Google API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var googleUser models.GoogleUser
	if err := json.Unmarshal(body, &googleUser); err != nil {
		return nil, err
	}

	return &googleUser, nil
}

// exchangeCodeForToken Googleのコードをアクセストークンに交換
func (s *authService) exchangeCodeForToken(code string) (string, error) {
	tokenURL := "https://oauth2.googleapis.com/token"

	data := url.Values{}
	data.Set("client_id", s.config.Auth.GoogleClientID)
	data.Set("client_secret", s.config.Auth.GoogleClientSecret)
	data.Set("redirect_uri", s.config.Auth.GoogleRedirectURL)
	data.Set("grant_type", "authorization_code")
	data.Set("code", code)

	req, err := http.NewRequest("POST", tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return "", err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var tokenResponse struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		Scope       string `json:"scope"`
		Error       string `json:"error"`
	}

	if err := json.Unmarshal(body, &tokenResponse); err != nil {
		return "", err
	}

	if tokenResponse.Error != "" {
		return "", fmt.Errorf("Google token exchange error: %s", tokenResponse.Error)
	}

	return tokenResponse.AccessToken, nil
}

// GenerateRandomState CSRF防止用のランダムなstate文字列を生成
func GenerateRandomState() string {
	b := make([]byte, 32)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}

// stringPtr 文字列のポインタを生成
func stringPtr(s string) *string {
	return &s
}
