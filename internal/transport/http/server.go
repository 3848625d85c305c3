package http

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"vidstream/internal/config"
	"vidstream/internal/database"
	"vidstream/internal/handler"
	"vidstream/internal/logger"
	"vidstream/internal/repository"
	"vidstream/internal/service"
)

// Run wires the whole application together and serves until interrupted.
func Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() {
		_ = log.Sync()
	}()

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("connected to database")

	if err := database.Migrate(context.Background(), db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	userRepo := repository.NewUserRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	videoRepo := repository.NewVideoRepository(db)

	mediaService, err := service.NewMediaService(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to create media service: %w", err)
	}

	userService := service.NewUserService(userRepo)
	tokenService := service.NewTokenService(userRepo, cfg)
	channelService := service.NewChannelService(userRepo, subRepo)
	videoService := service.NewVideoService(videoRepo)

	router := NewRouter(RouterConfig{
		AuthHandler:    handler.NewAuthHandler(userService, tokenService, mediaService, cfg, log),
		UserHandler:    handler.NewUserHandler(userService, mediaService, log),
		ChannelHandler: handler.NewChannelHandler(channelService, videoService, log),
		VideoHandler:   handler.NewVideoHandler(videoService, mediaService, log),
		Authenticator:  tokenService,
		CORSOrigin:     cfg.CORSOrigin,
		Logger:         log,
	})

	server := &stdhttp.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	return nil
}
