package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/wandero/wanderobackend/config"
	"github.com/wandero/wanderobackend/controllers"
	"github.com/wandero/wanderobackend/database"
	"github.com/wandero/wanderobackend/mailer"
	"github.com/wandero/wanderobackend/middleware"
	"github.com/wandero/wanderobackend/routes"
	"github.com/wandero/wanderobackend/store/mongodb"
	"github.com/wandero/wanderobackend/token"
	"github.com/wandero/wanderobackend/utils"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server exited", "error", err.Error())
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bootCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := database.Connect(bootCtx, cfg.MongoURI)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error("disconnecting mongodb", "error", err.Error())
		}
	}()
	logger.Info("connected to mongodb", "database", cfg.DatabaseName)

	cols := database.NewCollections(client, cfg.DatabaseName)
	if err := database.EnsureIndexes(bootCtx, cols); err != nil {
		return err
	}

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		seeded, err := utils.SeedAdminUser(bootCtx, cols.Users, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			return err
		}
		if seeded {
			logger.Info("admin user seeded", "email", cfg.AdminEmail)
		}
	}

	mail, err := mailer.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.EmailFrom)
	if err != nil {
		return err
	}

	app := &controllers.App{
		Config:   cfg,
		Logger:   logger,
		Users:    mongodb.NewUserStore(cols.Users),
		Tours:    mongodb.NewTourStore(cols.Tours),
		Bookings: mongodb.NewBookingStore(cols.Bookings),
		Tokens:   token.NewService(cfg.JWTSecret, cfg.JWTExpires),
		Mail:     mail,
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)
	go limiter.Janitor(ctx)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(logger))
	r.Use(gin.CustomRecovery(middleware.Recovered(logger)))
	r.Use(middleware.ErrorRenderer(logger))
	r.Use(middleware.SecurityHeaders())

	if len(cfg.AllowedOrigins) > 0 {
		allowedOrigins := map[string]bool{}
		for _, origin := range cfg.AllowedOrigins {
			allowedOrigins[origin] = true
		}
		r.Use(cors.New(cors.Config{
			AllowOriginFunc: func(origin string) bool {
				return allowedOrigins[origin]
			},
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	routes.Register(r, app, limiter)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	return srv.Shutdown(shutdownCtx)
}
