package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/ghostpass/cmd/app/commands"
	"github.com/allisson/ghostpass/internal/app"
)

func getAccessCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "clean-expired-tokens",
			Usage: "Delete access tokens expired more than the specified days ago",
			Flags: []cli.Flag{
				daysFlag("Delete tokens expired more than this many days ago"),
				dryRunFlag("Show how many tokens would be deleted without deleting"),
				formatFlag(),
			},
			Action: withContainer(func(ctx context.Context, cmd *cli.Command, container *app.Container) error {
				tokenUseCase, err := container.TokenUseCase()
				if err != nil {
					return err
				}

				return commands.RunCleanExpiredTokens(
					ctx,
					tokenUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					int(cmd.Int("days")),
					cmd.Bool("dry-run"),
					cmd.String("format"),
				)
			}),
		},
		{
			Name:  "set-role",
			Usage: "Grant a role to an identity",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "id",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Identity ID (the JWT sub claim)",
				},
				&cli.StringFlag{
					Name:    "email",
					Aliases: []string{"e"},
					Usage:   "Identity email, stored for reference",
				},
				&cli.StringFlag{
					Name:    "role",
					Aliases: []string{"r"},
					Value:   "admin",
					Usage:   "Role to grant: 'member' or 'admin'",
				},
				formatFlag(),
			},
			Action: withContainer(func(ctx context.Context, cmd *cli.Command, container *app.Container) error {
				identityUseCase, err := container.IdentityUseCase()
				if err != nil {
					return err
				}

				return commands.RunSetRole(
					ctx,
					identityUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("id"),
					cmd.String("email"),
					cmd.String("role"),
					cmd.String("format"),
				)
			}),
		},
	}
}
