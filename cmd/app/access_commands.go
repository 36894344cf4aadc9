package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/julianstoll1/access-dashboard/cmd/app/commands"
	"github.com/julianstoll1/access-dashboard/internal/app"
	"github.com/julianstoll1/access-dashboard/internal/config"
)

func getAccessCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "seed-access-graph",
			Usage: "Install the baseline permissions and administrators role into a project",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "project-id",
					Aliases:  []string{"p"},
					Required: true,
					Usage:    "Project to seed",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				projectID, err := uuid.Parse(cmd.String("project-id"))
				if err != nil {
					return fmt.Errorf("invalid project id: %w", err)
				}

				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				txManager, err := container.TxManager()
				if err != nil {
					return err
				}

				permissionRepo, err := container.PermissionRepository()
				if err != nil {
					return err
				}

				roleRepo, err := container.RoleRepository()
				if err != nil {
					return err
				}

				return commands.RunSeedAccessGraph(
					ctx,
					txManager,
					permissionRepo,
					roleRepo,
					container.Logger(),
					projectID,
				)
			},
		},
	}
}
