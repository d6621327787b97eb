package handlers

import (
	"net/http"
	"strings"

	"thoughtstream/src/logger"
	"thoughtstream/src/models"
	"thoughtstream/src/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AuthHandler 認証ハンドラー
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler 認証ハンドラーのコンストラクタ
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register 新規登録（ローカル認証）
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	authResponse, err := h.authService.Register(&req)
	if err != nil {
		if strings.Contains(err.Error(), "email already exists") {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already exists"})
			return
		}
		logger.WithField("error", err.Error()).Error("新規登録に失敗")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"data":    authResponse,
	})
}

// Login ログイン（ローカル認証）
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	authResponse, err := h.authService.Login(&req)
	if err != nil {
		if strings.Contains(err.Error(), "invalid credentials") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		if strings.Contains(err.Error(), "account is deactivated") {
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is deactivated"})
			return
		}
		if strings.Contains(err.Error(), "external authentication") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "This account uses external authentication"})
			return
		}
		logger.WithField("error", err.Error()).Error("ログインに失敗")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"data":    authResponse,
	})
}

// GetGoogleAuthURL Google認証URLを取得
func (h *AuthHandler) GetGoogleAuthURL(c *gin.Context) {
	// CSRF防止のためのstateを生成
	state := service.GenerateRandomState()

	// セッションにstateを保存（本実装では簡略化）
	c.SetCookie("google_oauth_state", state, 600, "/", "", false, true)

	authURL := h.authService.GetGoogleAuthURL(state)

	c.JSON(http.StatusOK, gin.H{
		"auth_url": authURL,
		"state":    state,
	})
}

// GoogleCallback Google OAuth コールバック
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")

	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Authorization code is required"})
		return
	}

	// stateの検証（本実装では簡略化）
	storedState, err := c.Cookie("google_oauth_state")
	if err != nil || storedState != state {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid state parameter"})
		return
	}

	// stateクッキーを削除
	c.SetCookie("google_oauth_state", "", -1, "/", "", false, true)

	authResponse, err := h.authService.HandleGoogleCallback(code, state)
	if err != nil {
		if strings.Contains(err.Error(), "email already exists") {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already exists with different authentication method"})
			return
		}
		if strings.Contains(err.Error(), "account is deactivated") {
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is deactivated"})
			return
		}
		logger.WithField("error", err.Error()).Error("Google認証に失敗")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Google authentication failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Google authentication successful",
		"data":    authResponse,
	})
}

// RefreshToken トークンリフレッシュ
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req models.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	authResponse, err := h.authService.RefreshToken(req.RefreshToken)
	if err != nil {
		if strings.Contains(err.Error(), "invalid refresh token") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
			return
		}
		logger.WithField("error", err.Error()).Error("トークンリフレッシュに失敗")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token refresh failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Token refreshed successfully",
		"data":    authResponse,
	})
}

// GetProfile 現在のユーザープロフィールを取得
func (h *AuthHandler) GetProfile(c *gin.Context) {
	// ミドルウェアから認証されたユーザーを取得
	userInterface, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	user, ok := userInterface.(*models.User)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": user.ToPublic(),
	})
}

// SignOut サインアウト
func (h *AuthHandler) SignOut(c *gin.Context) {
	userID := c.GetInt("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.authService.SignOut(userID); err != nil {
		logger.WithFields(logrus.Fields{
			"user_id": userID,
			"error":   err.Error(),
		}).Error("サインアウト処理に失敗")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign out"})
		return
	}

	logger.WithField("user_id", userID).Info("ユーザーがサインアウトしました")
	c.JSON(http.StatusOK, gin.H{
		"message": "Successfully signed out",
	})
}
