package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"CustomerChurnPrediction/docs"
	"CustomerChurnPrediction/internal/config"
	"CustomerChurnPrediction/internal/handler"
	"CustomerChurnPrediction/internal/inference"
	"CustomerChurnPrediction/internal/metrics"
	"CustomerChurnPrediction/internal/middleware"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server (default)",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, err := inference.Load(ctx, inferenceOptions(), logger)
	if err != nil {
		var artifactErr *inference.ArtifactLoadError
		if errors.As(err, &artifactErr) {
			logger.Error("cannot start without a usable artifact",
				zap.String("artifact", artifactErr.Artifact),
				zap.String("path", artifactErr.Path),
				zap.Error(artifactErr.Err),
			)
		}
		return err
	}

	router := newRouter(cfg, svc)
	srv := &http.Server{
		Addr:         cfg.HTTPAddress(),
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting",
			zap.String("address", cfg.HTTPAddress()),
			zap.String("environment", cfg.Environment),
			zap.Bool("aligned", svc.Aligned()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
		return err
	}
	logger.Info("server stopped")
	return nil
}

func newRouter(cfg *config.Config, svc *inference.Service) *gin.Engine {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(logger),
		cors.New(corsConfig(cfg.AllowedOrigins)),
	)

	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	handler.New(svc, metrics.New(), logger).
		Register(router, middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	return router
}

func corsConfig(origins []string) cors.Config {
	config := cors.DefaultConfig()
	if len(origins) == 0 || slices.Contains(origins, "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}
	config.AllowHeaders = append(config.AllowHeaders, middleware.RequestIDHeader)
	config.ExposeHeaders = append(config.ExposeHeaders, middleware.RequestIDHeader)
	return config
}
