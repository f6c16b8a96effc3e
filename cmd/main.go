package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/oksasatya/go-storefront/config"
	"github.com/oksasatya/go-storefront/internal/container"
	"github.com/oksasatya/go-storefront/internal/interface/middleware"
	"github.com/oksasatya/go-storefront/internal/router"
	"github.com/oksasatya/go-storefront/pkg/helpers"
	"github.com/oksasatya/go-storefront/pkg/validation"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env, cfg.LogLevel)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := container.New(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialise dependencies")
	}
	defer c.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine(cfg, c),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	if cfg.ReindexOnStartup && c.ES != nil {
		g.Go(func() error {
			rctx, cancel := context.WithTimeout(gctx, 2*time.Minute)
			defer cancel()
			n, err := c.Catalog.ReindexAll(rctx)
			if err != nil {
				logger.WithError(err).Warn("startup reindex failed")
				return nil
			}
			logger.WithField("products", n).Info("search index rebuilt")
			return nil
		})
	}
	g.Go(func() error {
		logger.WithField("addr", srv.Addr).Info("storefront listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	if err := g.Wait(); err != nil {
		logger.WithError(err).Error("server stopped with error")
		return
	}
	logger.Info("server stopped")
}

// engine builds the gin engine: global middleware, health check and the /api
// modules.
func engine(cfg *config.Config, c *container.Container) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestIDMiddleware(), middleware.RealIP())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		r.Use(middleware.AccessLog(c.Logger))
	}

	// 204 while Redis answers
	r.GET("/healthz", func(ctx *gin.Context) {
		if err := c.Redis.Ping(ctx.Request.Context()).Err(); err != nil {
			ctx.String(http.StatusServiceUnavailable, "redis: %v", err)
			return
		}
		ctx.Status(http.StatusNoContent)
	})

	reg := router.NewRegistry(r, "/api")
	router.InitModules(reg, c)
	reg.RegisterAll()
	c.Logger.WithField("routes", len(reg.Routes())).Debug("api routes registered")
	return r
}
