package routes

import (
	"thoughtstream/src/handlers"
	"thoughtstream/src/interface/handler"
	"thoughtstream/src/middleware"
	"thoughtstream/src/repository"
	"thoughtstream/src/service"

	"github.com/gin-gonic/gin"
)

// Handlers routesに登録するハンドラー一式
type Handlers struct {
	Auth     *handlers.AuthHandler
	Note     *handler.NoteHandler
	Tag      *handler.TagHandler
	Timeline *handler.TimelineHandler
}

// SetupRoutes sets up all API routes
func SetupRoutes(r *gin.Engine, h *Handlers, jwtService service.JWTService, userRepo repository.UserRepository, storePublicKey string) {
	// パブリックルートのグループ化
	api := r.Group("/api")
	api.Use(middleware.LoggerMiddleware())
	api.Use(middleware.CORSMiddleware())
	api.Use(middleware.RateLimitMiddleware())
	api.Use(middleware.APIKeyMiddleware(storePublicKey))

	// 認証ルート（トークン不要）
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)              // POST /api/auth/register
		auth.POST("/login", h.Auth.Login)                    // POST /api/auth/login
		auth.GET("/google", h.Auth.GetGoogleAuthURL)         // GET  /api/auth/google
		auth.GET("/google/callback", h.Auth.GoogleCallback)  // GET  /api/auth/google/callback
		auth.POST("/refresh", h.Auth.RefreshToken)           // POST /api/auth/refresh
	}

	// 認証が必要な認証管理ルート
	authPrivate := api.Group("/auth")
	authPrivate.Use(middleware.AuthMiddleware(jwtService, userRepo))
	{
		authPrivate.GET("/profile", h.Auth.GetProfile) // GET  /api/auth/profile
		authPrivate.POST("/signout", h.Auth.SignOut)   // POST /api/auth/signout
	}

	// 認証が必要なノートAPIルート
	notes := api.Group("/notes")
	notes.Use(middleware.AuthMiddleware(jwtService, userRepo))
	{
		// ノートの基本CRUD操作
		notes.POST("", h.Note.CreateNote)       // POST   /api/notes
		notes.GET("", h.Note.ListNotes)         // GET    /api/notes
		notes.GET("/:id", h.Note.GetNote)       // GET    /api/notes/:id
		notes.PUT("/:id", h.Note.UpdateNote)    // PUT    /api/notes/:id
		notes.DELETE("/:id", h.Note.DeleteNote) // DELETE /api/notes/:id

		// ステータス操作
		notes.PATCH("/:id/status", h.Note.UpdateNoteStatus) // PATCH /api/notes/:id/status
		notes.PATCH("/:id/cycle", h.Note.CycleNoteStatus)   // PATCH /api/notes/:id/cycle
	}

	// 認証が必要なタグAPIルート
	tags := api.Group("/tags")
	tags.Use(middleware.AuthMiddleware(jwtService, userRepo))
	{
		tags.GET("", h.Tag.ListTags)               // GET    /api/tags
		tags.POST("", h.Tag.CreateTag)             // POST   /api/tags
		tags.PATCH("/:id", h.Tag.UpdateTagColor)   // PATCH  /api/tags/:id
		tags.DELETE("/:id", h.Tag.DeleteTag)       // DELETE /api/tags/:id
	}

	// 日付グループ化されたタイムラインビュー
	timeline := api.Group("/timeline")
	timeline.Use(middleware.AuthMiddleware(jwtService, userRepo))
	{
		timeline.GET("", h.Timeline.GetTimeline) // GET /api/timeline
	}
}
