// Command importer bulk-loads CSV exports into the application store. Each
// file is loaded in one transaction; the first bad row aborts that file.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/radu-bors/Clique-backend/config"
	"github.com/radu-bors/Clique-backend/internal/domain/importer/entities"
	"github.com/radu-bors/Clique-backend/internal/domain/importer/repository/postgres"
	"github.com/radu-bors/Clique-backend/internal/domain/importer/usecase/business"
	"github.com/radu-bors/Clique-backend/internal/infrastructure/database"
	"github.com/radu-bors/Clique-backend/internal/infrastructure/logger"
)

var errUsage = errors.New("usage")

type options struct {
	table    string
	file     string
	dir      string
	logLevel string
	migrate  bool
}

// step is one file to load
type step struct {
	table entities.Table
	path  string
}

func main() {
	opts, err := parseOptions(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		os.Exit(1)
	}
}

func parseOptions(args []string) (options, error) {
	var opts options

	fs := pflag.NewFlagSet("importer", pflag.ContinueOnError)
	fs.StringVarP(&opts.table, "table", "t", "", "table to load: users, activities, events, matches or chats")
	fs.StringVarP(&opts.file, "file", "f", "", "CSV file for --table")
	fs.StringVarP(&opts.dir, "dir", "d", "", "directory holding <table>.csv files, loaded in dependency order")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level, overrides LOG_LEVEL")
	fs.BoolVar(&opts.migrate, "migrate", true, "apply schema migrations before loading")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	switch {
	case opts.dir != "" && (opts.table != "" || opts.file != ""):
		return options{}, fmt.Errorf("%w: --dir excludes --table and --file", errUsage)
	case opts.dir == "" && (opts.table == "" || opts.file == ""):
		return options{}, fmt.Errorf("%w: either --dir or both --table and --file are required", errUsage)
	}

	return opts, nil
}

// plan lists the files to load in order. Tables without a file in dir are skipped.
func plan(opts options) ([]step, error) {
	if opts.dir == "" {
		table, ok := entities.ParseTable(opts.table)
		if !ok {
			return nil, fmt.Errorf("%w: unknown table %q", errUsage, opts.table)
		}
		return []step{{table: table, path: opts.file}}, nil
	}

	var steps []step
	for _, table := range entities.Tables {
		path := filepath.Join(opts.dir, string(table)+".csv")
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, err
		}
		steps = append(steps, step{table: table, path: path})
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("%w: no table files in %s", errUsage, opts.dir)
	}
	return steps, nil
}

func run(ctx context.Context, opts options) error {
	cfg := config.Read()
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	log := logger.New(cfg.Logging.Level).With().Str("service", "importer").Logger()

	if err := cfg.ValidateDatabase(); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		return err
	}

	steps, err := plan(opts)
	if err != nil {
		log.Error().Err(err).Msg("nothing to import")
		return err
	}

	db, err := database.NewPostgresDB(ctx, &cfg.Database, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to connect to database")
		return err
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	if opts.migrate {
		if err := database.RunMigrations(db, &cfg.Database); err != nil {
			log.Error().Err(err).Msg("failed to run migrations")
			return err
		}
	}

	uc := business.NewUseCase(postgres.NewLoader(db), log)
	return importAll(ctx, uc, steps, log)
}

func importAll(ctx context.Context, uc *business.UseCase, steps []step, log zerolog.Logger) error {
	total := 0
	for _, s := range steps {
		f, err := os.Open(s.path)
		if err != nil {
			log.Error().Err(err).Str("file", s.path).Msg("failed to open file")
			return err
		}

		res, err := uc.ImportFile(ctx, s.table, f)
		f.Close()
		if err != nil {
			log.Error().Str("file", s.path).Msg("import aborted")
			return err
		}
		total += res.Rows
	}

	log.Info().
		Int("files", len(steps)).
		Int("rows", total).
		Msg("import completed")
	return nil
}
