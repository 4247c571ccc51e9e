package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/ghostpass/internal/app"
	"github.com/allisson/ghostpass/internal/config"
)

func getCommands(version string) []*cli.Command {
	cmds := []*cli.Command{}
	cmds = append(cmds, getSystemCommands(version)...)
	cmds = append(cmds, getAccessCommands()...)
	return cmds
}

// withContainer loads configuration, builds the DI container for the duration
// of the action and shuts it down afterwards.
func withContainer(
	action func(ctx context.Context, cmd *cli.Command, container *app.Container) error,
) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		container := app.NewContainer(config.Load())
		defer func() { _ = container.Shutdown(ctx) }()

		return action(ctx, cmd, container)
	}
}

func daysFlag(usage string) cli.Flag {
	return &cli.IntFlag{
		Name:     "days",
		Aliases:  []string{"d"},
		Required: true,
		Usage:    usage,
	}
}

func dryRunFlag(usage string) cli.Flag {
	return &cli.BoolFlag{
		Name:    "dry-run",
		Aliases: []string{"n"},
		Value:   false,
		Usage:   usage,
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}
