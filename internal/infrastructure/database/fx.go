package database

import (
	"context"

	"github.com/radu-bors/Clique-backend/config"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// Module provides the application store and the auth store. The auth store is
// only checked for availability; its schema belongs to the auth service.
var Module = fx.Module(
	"database",
	fx.Provide(NewDB, NewAuthDB),
)

func NewDB(lc fx.Lifecycle, cfg *config.DatabaseConfig, log zerolog.Logger) (*gorm.DB, error) {
	return open(lc, cfg, log)
}

type AuthParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.DatabaseConfig `name:"auth"`
	Logger    zerolog.Logger
}

type AuthResult struct {
	fx.Out

	DB *gorm.DB `name:"auth"`
}

func NewAuthDB(p AuthParams) (AuthResult, error) {
	db, err := open(p.Lifecycle, p.Config, p.Logger)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{DB: db}, nil
}

func open(lc fx.Lifecycle, cfg *config.DatabaseConfig, log zerolog.Logger) (*gorm.DB, error) {
	db, err := NewPostgresDB(context.Background(), cfg, log)
	if err != nil {
		return nil, err
	}

	if cfg.Migrate {
		if err := RunMigrations(db, cfg); err != nil {
			return nil, err
		}
		log.Info().Str("database", cfg.DBName).Msg("database migrations completed")
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info().Str("database", cfg.DBName).Msg("closing database connection...")
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	log.Info().
		Str("host", cfg.Host).
		Str("port", cfg.Port).
		Str("database", cfg.DBName).
		Msg("database connected")

	return db, nil
}
