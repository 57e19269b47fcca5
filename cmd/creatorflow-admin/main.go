package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/DKiloDesigns/CreatorFlow-sub004/config"
	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/bootstrap"
	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/data"
	domainauth "github.com/DKiloDesigns/CreatorFlow-sub004/internal/domain/auth"
	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/domain/model"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
}

const defaultMigrationTimeout = 5 * time.Minute

func main() {
	logger := bootstrap.InitLogger()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmdName)
		printUsage()
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Config: cfg,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"migrate": {
			name:        "migrate",
			description: "Run database migrations",
			run:         runMigrationsCmd,
		},
		"create-admin": {
			name:        "create-admin",
			description: "Create an admin account with a password login",
			run:         runCreateAdmin,
		},
		"promote": {
			name:        "promote",
			description: "Promote an existing account to admin by email",
			run:         runPromote,
		},
	}
}

func printUsage() {
	fmt.Fprintf(os.Stdout, "Usage: creatorflow-admin <command> [flags]\n\n")
	fmt.Fprintf(os.Stdout, "Available commands:\n")
	for _, c := range commands() {
		fmt.Fprintf(os.Stdout, "  %-16s %s\n", c.name, c.description)
	}
}

type migrateOptions struct {
	Timeout time.Duration
}

type createAdminOptions struct {
	Email    string
	Name     string
	Password string
}

func runMigrationsCmd(cmdCtx *commandContext, args []string) error {
	opts, err := parseMigrateFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		cmdCtx.Logger.Info("running database migrations")

		if migrateErr := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); migrateErr != nil {
			return fmt.Errorf("run migrations: %w", migrateErr)
		}

		cmdCtx.Logger.Info("migrations completed successfully")
		return nil
	})
}

func runCreateAdmin(cmdCtx *commandContext, args []string) error {
	opts, err := parseCreateAdminFlags(args)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(opts.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	hashStr := string(hash)

	return withDatabase(cmdCtx, time.Minute, func(ctx context.Context, db *sql.DB) error {
		repo := data.NewUserRepo(db)
		user, createErr := repo.Create(ctx, &model.CreateUserRequest{
			Email:        opts.Email,
			Name:         opts.Name,
			PasswordHash: &hashStr,
			Role:         domainauth.RoleAdmin,
		})
		if createErr != nil {
			if errors.Is(createErr, data.ErrEmailTaken) {
				return fmt.Errorf("account %q already exists; use the promote command instead", opts.Email)
			}
			return fmt.Errorf("create admin: %w", createErr)
		}

		cmdCtx.Logger.Info("admin account created", "id", user.ID, "email", user.Email)
		return nil
	})
}

func runPromote(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("promote", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var email string
	fs.StringVar(&email, "email", "", "Email of the account to promote (required)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("--email is required")
	}

	return withDatabase(cmdCtx, time.Minute, func(ctx context.Context, db *sql.DB) error {
		repo := data.NewUserRepo(db)
		user, err := repo.GetByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("look up account: %w", err)
		}

		promoted, err := repo.UpdateRole(ctx, user.ID, domainauth.RoleAdmin)
		if err != nil {
			return fmt.Errorf("promote account: %w", err)
		}

		cmdCtx.Logger.Info("account promoted", "id", promoted.ID, "email", promoted.Email)
		return nil
	})
}

func parseMigrateFlags(args []string) (migrateOptions, error) {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := migrateOptions{
		Timeout: defaultMigrationTimeout,
	}

	fs.DurationVar(
		&opts.Timeout,
		"timeout",
		defaultMigrationTimeout,
		"Maximum duration to wait for migrations to complete",
	)

	if err := fs.Parse(args); err != nil {
		return migrateOptions{}, err
	}

	if opts.Timeout <= 0 {
		return migrateOptions{}, errors.New("--timeout must be greater than zero")
	}

	return opts, nil
}

func parseCreateAdminFlags(args []string) (createAdminOptions, error) {
	fs := flag.NewFlagSet("create-admin", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts createAdminOptions
	fs.StringVar(&opts.Email, "email", "", "Email for the admin account (required)")
	fs.StringVar(&opts.Name, "name", "", "Display name for the admin account (required)")
	fs.StringVar(&opts.Password, "password", "", "Password for the admin account (required, min 8 characters)")

	if err := fs.Parse(args); err != nil {
		return createAdminOptions{}, err
	}

	opts.Email = strings.TrimSpace(opts.Email)
	opts.Name = strings.TrimSpace(opts.Name)
	if opts.Email == "" {
		return createAdminOptions{}, errors.New("--email is required")
	}
	if opts.Name == "" {
		return createAdminOptions{}, errors.New("--name is required")
	}
	if len(opts.Password) < 8 {
		return createAdminOptions{}, errors.New("--password is required and must be at least 8 characters")
	}

	return opts, nil
}

func withDatabase(
	cmdCtx *commandContext,
	timeout time.Duration,
	f func(context.Context, *sql.DB) error,
) error {
	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	db, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{
		DBConfig: cmdCtx.Config.Postgres,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			cmdCtx.Logger.Warn("db close failed", "error", cerr)
		}
	}()

	return f(ctx, db)
}
