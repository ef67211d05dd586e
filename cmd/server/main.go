package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	httpapi "github.com/campus-echo/campus-echo/internal/api/http"
	"github.com/campus-echo/campus-echo/internal/application/auth"
	"github.com/campus-echo/campus-echo/internal/application/reply"
	"github.com/campus-echo/campus-echo/internal/application/review"
	"github.com/campus-echo/campus-echo/internal/application/user"
	"github.com/campus-echo/campus-echo/internal/application/vote"
	"github.com/campus-echo/campus-echo/internal/config"
	"github.com/campus-echo/campus-echo/internal/infrastructure/postgres"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db error: %v", err)
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool, "internal/migrations"); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	// repositories
	userRepo := postgres.NewUserRepository(pool)
	sessionRepo := postgres.NewSessionRepository(pool)
	reviewRepo := postgres.NewReviewRepository(pool)
	replyRepo := postgres.NewReplyRepository(pool)
	voteRepo := postgres.NewVoteRepository(pool)

	// services
	authSvc := auth.NewService(userRepo, sessionRepo, cfg.SessionTTL, logger)
	userSvc := user.NewService(userRepo, logger)
	reviewSvc := review.NewService(reviewRepo, logger)
	replySvc := reply.NewService(replyRepo, reviewRepo, logger)
	voteSvc := vote.NewService(voteRepo, reviewRepo, replyRepo, userRepo, logger)

	// API server
	apiServer := httpapi.NewServer(authSvc, userSvc, reviewSvc, replySvc, voteSvc,
		cfg.SessionCookieName, cfg.SessionCookieSecure)

	httpServer := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      apiServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// background loops
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if n, err := sessionRepo.DeleteExpired(context.Background()); err == nil && n > 0 {
				logger.Info().Int("count", n).Msg("expired sessions removed")
			}
		}
	}()

	// start server
	go func() {
		logger.Info().Str("addr", cfg.ServerAddr).Msg("http server started")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctxShutdown)
}
