package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/tjper/vitalis/cmd/vitalis/cli"
	"github.com/tjper/vitalis/cmd/vitalis/config"
	"github.com/tjper/vitalis/internal/client"
	"github.com/tjper/vitalis/internal/featureflag"
	iredis "github.com/tjper/vitalis/internal/redis"
	"github.com/tjper/vitalis/internal/session"
	"github.com/tjper/vitalis/internal/token"
	"golang.org/x/sys/unix"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), unix.SIGTERM, unix.SIGINT)
	defer stop()

	if err := cli.New(build).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// build wires the components commands run against from config.
func build(ctx context.Context) (*cli.App, error) {
	logger := newLogger()

	store, closeStore, err := newTokenStore(ctx)
	if err != nil {
		return nil, err
	}
	slot := token.NewSlot(logger, store)

	c, err := client.New(logger, config.APIBaseURL(), slot)
	if err != nil {
		closeStore()
		return nil, err
	}

	manager := session.NewManager(
		logger,
		c,
		session.WithTimeout(config.IdentityTimeout()),
	)

	return &cli.App{
		Logger:  logger,
		Client:  c,
		Manager: manager,
		Flags: []cli.Flag{
			{
				Name:    "supplement-reviews",
				Value:   config.SupplementReviews(),
				Enabled: featureflag.Enabled(config.SupplementReviews()),
			},
		},
		Close: func() {
			closeStore()
			_ = logger.Sync()
		},
	}, nil
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

// newTokenStore creates the configured token Store and a func releasing it.
func newTokenStore(ctx context.Context) (token.Store, func(), error) {
	switch config.TokenStore() {
	case config.TokenStoreFile:
		return token.NewFile(afero.NewOsFs(), config.TokenDir()), func() {}, nil
	case config.TokenStoreMemory:
		return token.NewMemory(), func() {}, nil
	case config.TokenStoreRedis:
		rdb, err := iredis.Open(ctx, config.RedisAddr(), config.RedisPassword())
		if err != nil {
			return nil, nil, err
		}
		return token.NewRedis(rdb, config.TokenNamespace()), func() { _ = rdb.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unrecognized token store; store: %s", config.TokenStore())
	}
}
