package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Snomn123/Whatsapp-layout/internal/auth"
	"github.com/Snomn123/Whatsapp-layout/internal/config"
	"github.com/Snomn123/Whatsapp-layout/internal/domain"
	"github.com/Snomn123/Whatsapp-layout/internal/handler"
	"github.com/Snomn123/Whatsapp-layout/internal/presence"
	"github.com/Snomn123/Whatsapp-layout/internal/registry"
	"github.com/Snomn123/Whatsapp-layout/internal/repository"
	"github.com/Snomn123/Whatsapp-layout/internal/service"
	"github.com/Snomn123/Whatsapp-layout/pkg/database"
	"github.com/Snomn123/Whatsapp-layout/pkg/log"
	"github.com/Snomn123/Whatsapp-layout/pkg/response"
	"github.com/Snomn123/Whatsapp-layout/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log.Init(cfg.Log)
	logger := log.L()
	logger.Info().Str("host", cfg.Server.Host).Int("port", cfg.Server.Port).Msg("starting chat server")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.AutoMigrate(db,
		&domain.UserModel{},
		&domain.MessageModel{},
		&domain.ContactModel{},
		&domain.ReactionModel{},
	); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	store, err := newStorage(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}

	tokens := auth.NewManager(cfg.JWT.Secret, cfg.JWT.Duration, cfg.JWT.Issuer)

	reactionRepo := repository.NewGormReactionRepository(db)
	userRepo := repository.NewGormUserRepository(db)
	messageRepo := repository.NewGormMessageRepository(db, reactionRepo)
	contactRepo := repository.NewGormContactRepository(db)

	reg := registry.NewMemoryRegistry(cfg.Presence.IdleThreshold)

	chatSvc := service.NewChatService(reg, userRepo, messageRepo, reactionRepo)
	userSvc := service.NewUserService(userRepo, tokens)
	contactSvc := service.NewContactService(contactRepo, userRepo, reg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	monitor := presence.NewMonitor(reg, cfg.Presence.SweepInterval)
	monitor.Start(ctx)
	defer monitor.Stop()

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(log.GinMiddleware(logger))

	httpHandler := handler.NewHandler(userSvc, contactSvc, chatSvc, store, tokens)
	httpHandler.RegisterRoutes(engine)

	wsHandler := handler.NewWSHandler(chatSvc, tokens, cfg.WebSocket)
	wsHandler.RegisterRoutes(engine)

	// Serve uploads directly when the local driver is active; the S3
	// driver hands out URLs pointing at the object store instead.
	if local, ok := store.(*storage.LocalStorage); ok {
		engine.Static("/uploads", local.BasePath())
	}

	engine.GET("/health", func(c *gin.Context) {
		response.Success(c, gin.H{"sessions": reg.Count()})
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
	}

	logger.Info().Msg("stopped")
}

func newStorage(cfg *config.Config) (storage.Storage, error) {
	switch cfg.Storage.Driver {
	case "local":
		return storage.NewLocalStorage(cfg.Storage.Local)
	case "s3":
		return storage.NewS3Storage(context.Background(), cfg.Storage.S3)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Storage.Driver)
	}
}
