package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"usinahub/usinahub-backend/internal/auth"
	"usinahub/usinahub-backend/internal/clients"
	"usinahub/usinahub-backend/internal/config"
	"usinahub/usinahub-backend/internal/machines"
	"usinahub/usinahub-backend/internal/mailer"
	"usinahub/usinahub-backend/internal/materials"
	"usinahub/usinahub-backend/internal/notifications"
	"usinahub/usinahub-backend/internal/notifications/websocket"
	"usinahub/usinahub-backend/internal/procurement"
	"usinahub/usinahub-backend/internal/projects"
	"usinahub/usinahub-backend/internal/quotes"
	"usinahub/usinahub-backend/internal/settings"
	"usinahub/usinahub-backend/internal/team"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(os.Getenv("CONFIG_PATH"))
	if err != nil {
		panic(err)
	}

	logger := newLogger(cfg.Logging)
	defer logger.Sync()

	db, err := gorm.Open(postgres.Open(cfg.Database.GetDSN()), &gorm.Config{})
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("getting database handle", zap.Error(err))
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxConnections)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	if err := db.AutoMigrate(
		&auth.User{},
		&auth.PasswordResetToken{},
		&team.Member{},
		&clients.Client{},
		&machines.Machine{},
		&materials.Material{},
		&settings.WorkshopSettings{},
		&quotes.Quote{},
		&quotes.QuoteItem{},
		&projects.Project{},
		&projects.PhaseActivity{},
		&projects.PhaseSubtask{},
		&projects.TaskComment{},
		&procurement.ProjectMaterial{},
		&procurement.MaterialApproval{},
		&procurement.MaterialQuotation{},
		&notifications.Notification{},
	); err != nil {
		logger.Fatal("migrating schema", zap.Error(err))
	}

	var mail mailer.Mailer
	if cfg.Mail.Sender != "" {
		mail, err = mailer.NewSESMailer(context.Background(), cfg.Mail.AWSRegion, cfg.Mail.Sender, logger)
		if err != nil {
			logger.Fatal("initializing mailer", zap.Error(err))
		}
	} else {
		mail = mailer.NewConsoleMailer(logger)
	}

	// Services
	teamService := team.NewService(team.NewRepository(db))
	authService := auth.NewService(auth.NewRepository(db), mail, cfg.Security, cfg.Frontend, logger)
	clientService := clients.NewService(db)
	machineService := machines.NewService(db)
	materialService := materials.NewService(db)
	settingsService := settings.NewService(settings.NewRepository(db))
	quoteService := quotes.NewService(db, machineService, materialService, settingsService, logger)
	projectService := projects.NewService(projects.NewRepository(db), logger)

	wsManager := websocket.NewManager(logger)
	defer wsManager.Close()
	notificationService := notifications.NewService(db, wsManager, mail, teamService, logger)
	procurementService := procurement.NewService(procurement.NewRepository(db), notificationService, logger)

	// Handlers
	authHandler := auth.NewHandler(authService, cfg.Security)
	teamHandler := team.NewHandler(teamService)
	clientHandler := clients.NewHandler(clientService)
	machineHandler := machines.NewHandler(machineService)
	materialHandler := materials.NewHandler(materialService)
	settingsHandler := settings.NewHandler(settingsService)
	quoteHandler := quotes.NewHandler(quoteService)
	projectHandler := projects.NewHandler(projectService)
	procurementHandler := procurement.NewHandler(procurementService)
	notificationHandler := notifications.NewHandler(notificationService, wsManager)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Frontend.BaseURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	authHandler.RegisterPublicRoutes(api.Group("/auth"))

	protected := api.Group("")
	protected.Use(auth.RequireAuth(authService, teamService, cfg.Security.CookieName))
	authHandler.RegisterProtectedRoutes(protected.Group("/auth"))
	teamHandler.RegisterRoutes(protected.Group("/team"))
	clientHandler.RegisterRoutes(protected.Group("/clients"))
	machineHandler.RegisterRoutes(protected.Group("/machines"))
	materialHandler.RegisterRoutes(protected.Group("/materials"))
	settingsHandler.RegisterRoutes(protected.Group("/settings"))
	quoteHandler.RegisterRoutes(protected.Group("/quotes"))
	projectHandler.RegisterRoutes(protected)
	procurementHandler.RegisterRoutes(protected)
	notificationHandler.RegisterRoutes(protected.Group("/notifications"))

	// Background jobs
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@hourly", func() {
		if err := authService.PurgeExpiredResetTokens(context.Background()); err != nil {
			logger.Error("purging reset tokens", zap.Error(err))
		}
	}); err != nil {
		logger.Fatal("registering cron job", zap.Error(err))
	}
	if _, err := scheduler.AddFunc("@daily", func() {
		if err := projectService.ReconcileSchedules(context.Background()); err != nil {
			logger.Error("reconciling schedules", zap.Error(err))
		}
	}); err != nil {
		logger.Fatal("registering cron job", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:         cfg.Server.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newLogger(cfg config.LoggingConfig) *zap.Logger {
	var zapCfg zap.Config
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	if cfg.Level != "" {
		if level, err := zap.ParseAtomicLevel(cfg.Level); err == nil {
			zapCfg.Level = level
		}
	}
	logger, err := zapCfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}
