package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"

	"github.com/fireplay/fireplay-backend/pkg/config"
	"github.com/fireplay/fireplay-backend/pkg/db"
	"github.com/fireplay/fireplay-backend/pkg/logger"
	"github.com/fireplay/fireplay-backend/pkg/migrate"
)

type options struct {
	command string
	dir     string
	name    string
	version string
}

func main() {
	_ = godotenv.Load()

	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}
	if err := run(context.Background(), opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "migrate %s: %v\n", opts.command, err)
		os.Exit(1)
	}
}

func parseFlags(args []string, errOut io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.StringVar(&opts.command, "cmd", "up", "up|down|status|version|create|validate")
	fs.StringVar(&opts.dir, "dir", migrate.DefaultDir, "migrations directory used by create and validate")
	fs.StringVar(&opts.name, "name", "", "migration name for -cmd=create")
	fs.StringVar(&opts.version, "version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

// run executes one migration command. create and validate only touch the filesystem; the
// rest open the relational cart store.
func run(ctx context.Context, opts options, out io.Writer) error {
	switch opts.command {
	case "create":
		if opts.name == "" {
			return errors.New("-name is required")
		}
		path, err := migrate.CreateSQLMigration(opts.dir, opts.name)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "created migration:", path)
		return nil
	case "validate":
		if err := migrate.ValidateDir(opts.dir); err != nil {
			return err
		}
		fmt.Fprintln(out, "migration validation passed")
		return nil
	case "up", "down", "status":
	case "version":
		if opts.version == "" {
			return errors.New("-version is required")
		}
	default:
		return fmt.Errorf("unknown command %q", opts.command)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logg := logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "cmd": opts.command})
	if !cfg.Cart.UsesSQLCart() {
		logg.Warn(ctx, "account carts are not stored in SQL; migrations only affect the relational store")
	}

	client, err := db.New(ctx, cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			logg.Error(ctx, "closing database", err)
		}
	}()
	sqlDB, err := client.DB().DB()
	if err != nil {
		return err
	}

	logg.Info(ctx, "running migrations")
	return apply(ctx, sqlDB, client.Dialect(), opts)
}

func apply(ctx context.Context, sqlDB *sql.DB, dialect string, opts options) error {
	if opts.command == "version" {
		return migrate.MigrateToVersion(ctx, sqlDB, dialect, opts.version)
	}
	return migrate.Run(ctx, sqlDB, dialect, opts.command)
}
