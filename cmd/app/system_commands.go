package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/ghostpass/cmd/app/commands"
	"github.com/allisson/ghostpass/internal/app"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the API server and, when enabled, the metrics server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Apply pending database migrations",
			Action: withContainer(func(ctx context.Context, cmd *cli.Command, container *app.Container) error {
				cfg := container.Config()
				return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
			}),
		},
		{
			Name:  "clean-audit-logs",
			Usage: "Delete audit logs older than specified days",
			Flags: []cli.Flag{
				daysFlag("Delete audit logs older than this many days"),
				dryRunFlag("Show how many logs would be deleted without deleting"),
				formatFlag(),
			},
			Action: withContainer(func(ctx context.Context, cmd *cli.Command, container *app.Container) error {
				auditLogUseCase, err := container.AuditLogUseCase()
				if err != nil {
					return err
				}

				return commands.RunCleanAuditLogs(
					ctx,
					auditLogUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					int(cmd.Int("days")),
					cmd.Bool("dry-run"),
					cmd.String("format"),
				)
			}),
		},
		{
			Name:  "verify-audit-logs",
			Usage: "Verify the signatures of revocation audit logs in a time range",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "start-date",
					Aliases:  []string{"s"},
					Required: true,
					Usage:    "Start date in YYYY-MM-DD or YYYY-MM-DD HH:MM:SS format",
				},
				&cli.StringFlag{
					Name:     "end-date",
					Aliases:  []string{"e"},
					Required: true,
					Usage:    "End date in YYYY-MM-DD or YYYY-MM-DD HH:MM:SS format",
				},
				formatFlag(),
			},
			Action: withContainer(func(ctx context.Context, cmd *cli.Command, container *app.Container) error {
				auditLogUseCase, err := container.AuditLogUseCase()
				if err != nil {
					return err
				}

				return commands.RunVerifyAuditLogs(
					ctx,
					auditLogUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("start-date"),
					cmd.String("end-date"),
					cmd.String("format"),
				)
			}),
		},
	}
}
