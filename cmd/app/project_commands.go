package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/julianstoll1/access-dashboard/cmd/app/commands"
	"github.com/julianstoll1/access-dashboard/internal/app"
	"github.com/julianstoll1/access-dashboard/internal/config"
)

func getProjectCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-project",
			Usage: "Create a new project",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Human-readable project name",
				},
				&cli.StringFlag{
					Name:    "description",
					Aliases: []string{"d"},
					Value:   "",
					Usage:   "Optional project description",
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
				defer func() { _ = container.Shutdown(ctx) }()

				projectUseCase, err := container.ProjectUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateProject(
					ctx,
					projectUseCase,
					container.Logger(),
					cmd.String("name"),
					cmd.String("description"),
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
	}
}
