package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/radu-bors/Clique-backend/config"
	"github.com/radu-bors/Clique-backend/pkg/retry"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrUnavailable marks a store that did not answer a ping.
var ErrUnavailable = errors.New("database unavailable")

const pingTimeout = 3 * time.Second

// NewPostgresDB opens a connection pool and waits until the server answers.
func NewPostgresDB(ctx context.Context, cfg *config.DatabaseConfig, log zerolog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.GetDSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := WaitReady(ctx, db, cfg.WaitAttempts, log.With().Str("database", cfg.DBName).Logger()); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return db, nil
}

// WaitReady pings db until it answers or attempts are used up.
func WaitReady(ctx context.Context, db *gorm.DB, attempts int, log zerolog.Logger) error {
	policy := retry.Policy{Retries: attempts - 1, Backoff: 500 * time.Millisecond}
	if policy.Retries < 0 {
		policy.Retries = 0
	}

	return retry.Do(ctx, policy, []error{ErrUnavailable}, func(ctx context.Context) error {
		if err := Ping(ctx, db); err != nil {
			log.Warn().Err(err).Msg("database not ready")
			return err
		}
		return nil
	})
}

// Ping checks that the server answers within a short timeout.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
