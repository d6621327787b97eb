package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"thoughtstream/src/config"
	"thoughtstream/src/database"
	"thoughtstream/src/handlers"
	"thoughtstream/src/infrastructure/repository"
	"thoughtstream/src/interface/handler"
	"thoughtstream/src/logger"
	"thoughtstream/src/middleware"
	"thoughtstream/src/routes"
	userrepo "thoughtstream/src/repository"
	"thoughtstream/src/service"
	"thoughtstream/src/storage"
	"thoughtstream/src/usecase"
	"thoughtstream/src/validator"

	"github.com/sirupsen/logrus"

	"github.com/gin-gonic/gin"
)

func main() {
	// 設定を読み込み（ストアの環境変数が無い場合は起動しない）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "設定の読み込みに失敗: %v\n", err)
		os.Exit(1)
	}

	// ロガーを初期化
	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.Directory); err != nil {
		panic(fmt.Sprintf("ロガーの初期化に失敗: %v", err))
	}
	defer logger.CloseLogger()

	logger.Log.Info("アプリケーションを開始しています")

	// ストアに接続
	db, err := database.NewDB(cfg.Store.Endpoint, logger.Log)
	if err != nil {
		logger.Log.WithError(err).Fatal("ストアへの接続に失敗")
	}
	defer db.Close()

	// S3アップローダーを初期化（設定が有効な場合）
	var uploader *storage.LogUploader
	if cfg.Log.UploadEnabled {
		s3Config := &storage.S3Config{
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			Region:          cfg.S3.Region,
			Bucket:          cfg.S3.Bucket,
			UseSSL:          cfg.S3.UseSSL,
		}

		uploader, err = storage.NewLogUploader(s3Config, logger.Log)
		if err != nil {
			logger.Log.WithError(err).Error("S3アップローダーの初期化に失敗")
		} else {
			// 定期的なログアップロードを開始
			uploader.StartPeriodicUpload(cfg.Log.Directory, cfg.Log.UploadInterval, cfg.Log.UploadMaxAge)
		}
	}

	// 依存関係を構築
	noteRepo := repository.NewNoteRepository(db, logger.Log)
	tagRepo := repository.NewTagRepository(db, logger.Log)
	userRepo := userrepo.NewUserRepository(db.DB)

	jwtService := service.NewJWTService(cfg)
	authService := service.NewAuthService(userRepo, jwtService, cfg)

	noteUsecase := usecase.NewNoteUsecase(noteRepo, tagRepo, logger.Log)
	tagUsecase := usecase.NewTagUsecase(tagRepo, logger.Log)

	cv := validator.NewCustomValidator()

	h := &routes.Handlers{
		Auth:     handlers.NewAuthHandler(authService),
		Note:     handler.NewNoteHandler(noteUsecase, cv, logger.Log),
		Tag:      handler.NewTagHandler(tagUsecase, cv, logger.Log),
		Timeline: handler.NewTimelineHandler(noteUsecase, cv, logger.Log),
	}

	// Ginルーターを初期化
	r := gin.Default()

	// NoRouteハンドラー（404）
	r.NoRoute(func(c *gin.Context) {
		logger.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"uri":       c.Request.RequestURI,
			"client_ip": c.ClientIP(),
		}).Warn("404: ルートが見つかりません")
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})

	// NoMethodハンドラー（405）
	r.NoMethod(func(c *gin.Context) {
		logger.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"uri":       c.Request.RequestURI,
			"client_ip": c.ClientIP(),
		}).Warn("405: サポートされていないメソッド")
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})

	// グローバルmiddlewareを適用
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.CORSMiddleware())

	// 認証が不要なパブリックルート
	public := r.Group("/")
	{
		public.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"message": "ThoughtStream",
				"version": "1.0",
				"service": "thoughtstream-api-server",
			})
		})

		// ヘルスチェック用のエンドポイント
		public.GET("/health", func(c *gin.Context) {
			logger.WithField("endpoint", "/health").Debug("ヘルスチェックエンドポイントにアクセス")

			if err := db.Health(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":    "NG",
					"timestamp": time.Now().Format(time.RFC3339),
					"store":     err.Error(),
				})
				return
			}

			c.JSON(http.StatusOK, gin.H{
				"status":    "OK",
				"timestamp": time.Now().Format(time.RFC3339),
				"uptime":    "running",
			})
		})
	}

	// APIルートを登録
	routes.SetupRoutes(r, h, jwtService, userRepo, cfg.Store.PublicKey)

	// グレースフルシャットダウンの設定
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		logger.Log.Info("シャットダウンシグナルを受信しました")

		// 最後のログアップロードを実行
		if uploader != nil {
			logger.Log.Info("最後のログアップロードを実行中...")
			if err := uploader.UploadOldLogs(cfg.Log.Directory, 0); err != nil {
				logger.Log.WithError(err).Error("最後のログアップロードに失敗")
			}
		}

		db.Close()
		logger.CloseLogger()
		os.Exit(0)
	}()

	// サーバーを起動
	serverAddr := ":" + cfg.Server.Port
	logger.Log.WithField("port", cfg.Server.Port).Info("サーバーを開始します")

	if err := r.Run(serverAddr); err != nil {
		logger.Log.WithError(err).Fatal("サーバーの起動に失敗")
	}
}
