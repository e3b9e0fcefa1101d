// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/proxyadmin/cmd/app/commands"
	"github.com/allisson/proxyadmin/internal/app"
	"github.com/allisson/proxyadmin/internal/config"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "proxyadmin",
		Usage:   "Proxy management backend",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
				},
			},
			{
				Name:  "generate-keys",
				Usage: "Generate the RSA key pair used to sign tokens",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Value: false,
						Usage: "Overwrite existing key files",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					return commands.RunGenerateKeys(
						container.Logger(),
						cfg.TokenPrivateKeyPath,
						cfg.TokenPublicKeyPath,
						cmd.Bool("force"),
						commands.DefaultIO(),
					)
				},
			},
			{
				Name:  "create-user",
				Usage: "Create a new user (use this to bootstrap the first administrator)",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Required: true,
						Usage:    "Full name of the user",
					},
					&cli.StringFlag{
						Name:  "nickname",
						Usage: "Short display name (optional)",
					},
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Required: true,
						Usage:    "Email address; doubles as the login identity",
					},
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Initial password (omit to be prompted)",
					},
					&cli.StringFlag{
						Name:    "roles",
						Aliases: []string{"r"},
						Value:   "admin",
						Usage:   "Comma-separated roles",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					logger := container.Logger()
					defer shutdownContainer(container, logger)

					userUseCase, err := container.UserUseCase()
					if err != nil {
						return fmt.Errorf("failed to initialize user use case: %w", err)
					}

					engine, err := container.Engine()
					if err != nil {
						return fmt.Errorf("failed to initialize engine: %w", err)
					}

					return commands.RunCreateUser(
						ctx,
						userUseCase,
						engine,
						logger,
						cmd.String("name"),
						cmd.String("nickname"),
						cmd.String("email"),
						cmd.String("password"),
						cmd.String("roles"),
						cmd.String("format"),
						commands.DefaultIO(),
					)
				},
			},
			{
				Name:  "set-user-permissions",
				Usage: "Replace a user's capability profile",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "user-id",
						Aliases:  []string{"u"},
						Required: true,
						Usage:    "ID of the user to update",
					},
					&cli.StringFlag{
						Name:     "visibility",
						Aliases:  []string{"v"},
						Required: true,
						Usage:    "Object visibility: 'all' or 'own'",
					},
					&cli.StringFlag{
						Name:    "capabilities",
						Aliases: []string{"c"},
						Usage:   `JSON object of resource levels, e.g. '{"proxy_hosts":"manage"}'`,
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					logger := container.Logger()
					defer shutdownContainer(container, logger)

					userUseCase, err := container.UserUseCase()
					if err != nil {
						return fmt.Errorf("failed to initialize user use case: %w", err)
					}

					engine, err := container.Engine()
					if err != nil {
						return fmt.Errorf("failed to initialize engine: %w", err)
					}

					return commands.RunSetUserPermissions(
						ctx,
						userUseCase,
						engine,
						logger,
						int64(cmd.Int("user-id")),
						cmd.String("visibility"),
						cmd.String("capabilities"),
						commands.DefaultIO(),
					)
				},
			},
			{
				Name:  "clean-audit-logs",
				Usage: "Delete audit logs older than specified days",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "days",
						Aliases:  []string{"d"},
						Required: true,
						Usage:    "Delete audit logs older than this many days",
					},
					&cli.BoolFlag{
						Name:    "dry-run",
						Aliases: []string{"n"},
						Value:   false,
						Usage:   "Show how many logs would be deleted without deleting",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					logger := container.Logger()
					defer shutdownContainer(container, logger)

					auditLogUseCase, err := container.AuditLogUseCase()
					if err != nil {
						return fmt.Errorf("failed to initialize audit log use case: %w", err)
					}

					return commands.RunCleanAuditLogs(
						ctx,
						auditLogUseCase,
						logger,
						os.Stdout,
						int(cmd.Int("days")),
						cmd.Bool("dry-run"),
						cmd.String("format"),
					)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}

func shutdownContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}
