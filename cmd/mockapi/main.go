package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/tjper/vitalis/cmd/mockapi/config"
	"github.com/tjper/vitalis/internal/apimock"
	"github.com/tjper/vitalis/internal/healthz"
	ihttp "github.com/tjper/vitalis/internal/http"
	"golang.org/x/sys/unix"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	logger := newLogger()
	defer func() { _ = logger.Sync() }()

	options := []apimock.Option{
		apimock.WithCookieOptions(ihttp.CookieOptions{
			Domain:   config.CookieDomain(),
			Secure:   config.CookieSecure(),
			SameSite: config.CookieSameSite(),
		}),
		apimock.WithMinDuration(config.MinDuration()),
	}
	if config.OmitAccessToken() {
		options = append(options, apimock.WithoutAccessToken())
	}
	if config.OmitCookies() {
		options = append(options, apimock.WithoutCookies())
	}

	api := apimock.New(logger, options...)
	seed(logger, api)

	check := healthz.New()
	api.Mux.Handle("/healthz", check)

	srv := http.Server{
		Handler:      api,
		Addr:         fmt.Sprintf(":%d", config.Port()),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	// Waitgroup to ensure all supporting goroutines close properly on
	// application close.
	var wg sync.WaitGroup

	// Root context is cancelled if SIGTERM or SIGINT is received.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalc := make(chan os.Signal, 1)
	signal.Notify(signalc, unix.SIGTERM, unix.SIGINT)

	wg.Add(1)
	go func() {
		defer wg.Done()

		select {
		case <-ctx.Done():
			return
		case <-signalc:
			cancel()
		}
	}()

	// When the root context closes, report sick and gracefully shutdown the
	// HTTP server.
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		check.Sick()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("[Shutdown] Failed to correctly shutdown mock API.", zap.Error(err))
		}
	}()

	check.Healthy()
	logger.Sugar().Infof("[Startup] mock API listening at :%d", config.Port())
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		cancel()
		wg.Wait()
		return
	}
	if err != nil {
		logger.Panic("[Startup] Failed to listen and serve mock API.", zap.Error(err))
	}
}

func newLogger() *zap.Logger {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(config.LogLevel())); err != nil {
		log.Fatal(err)
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := cfg.Build()
	if err != nil {
		log.Fatal(err)
	}
	return logger
}

// seed adds one premium user and one moderator for manual testing.
func seed(logger *zap.Logger, api *apimock.Server) {
	users := []apimock.User{
		{
			Name:            "Premium Member",
			Email:           "premium@vitalis.io",
			Status:          "premium",
			Bio:             "Morning mobility, evening sauna.",
			Stats:           map[string]int{"sessions": 42, "streak": 7},
			IsEmailVerified: true,
		},
		{
			Name:            "Moderator",
			Email:           "moderator@vitalis.io",
			Role:            "moderator",
			IsEmailVerified: true,
		},
		{
			Name:  "Free Member",
			Email: "user@vitalis.io",
		},
	}

	for _, user := range users {
		created, err := api.Seed(user, config.SeedPassword())
		if err != nil {
			logger.Panic("[Startup] Failed to seed user.", zap.String("email", user.Email), zap.Error(err))
		}
		logger.Info(
			"[Startup] Seeded user.",
			zap.String("email", created.Email),
			zap.String("status", created.Status),
			zap.String("role", created.Role),
		)
	}
}
