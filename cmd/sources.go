package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mtomcal/videotitan-server/internal/models"
	"github.com/mtomcal/videotitan-server/internal/shared"
	"github.com/urfave/cli/v3"
)

func sourcesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sources",
		Usage: "Manage a user's import sources",
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Print a user's source configuration as JSON",
				ArgsUsage: "<username>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "username"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					username := cmd.StringArg("username")
					if username == "" {
						return fmt.Errorf("%w: username", shared.ErrMissingArgument)
					}

					if err := r.setup(); err != nil {
						return err
					}
					defer r.Close()

					cfg, err := r.sources.Get(ctx, username)
					if err != nil {
						return err
					}

					enc := json.NewEncoder(os.Stdout)
					enc.SetIndent("", "  ")
					return enc.Encode(cfg)
				},
			},
			{
				Name:      "set",
				Usage:     "Replace a user's source configuration",
				ArgsUsage: "<username>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "username"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "data",
						Aliases: []string{"d"},
						Usage:   `Source config JSON, e.g. '{"byUsername":["somechannel"]}'`,
					},
					&cli.StringFlag{
						Name:    "file",
						Aliases: []string{"f"},
						Usage:   "Read source config JSON from a file instead of --data",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					username := cmd.StringArg("username")
					if username == "" {
						return fmt.Errorf("%w: username", shared.ErrMissingArgument)
					}

					data := []byte(cmd.String("data"))
					if path := cmd.String("file"); path != "" {
						fileData, err := os.ReadFile(path)
						if err != nil {
							return fmt.Errorf("failed to read %s: %w", path, err)
						}
						data = fileData
					}
					if len(data) == 0 {
						return fmt.Errorf("%w: --data or --file is required", shared.ErrMissingArgument)
					}

					var cfg models.SourceConfig
					if err := json.Unmarshal(data, &cfg); err != nil {
						return fmt.Errorf("%w: source config is not valid JSON: %v", shared.ErrInvalidInput, err)
					}

					if err := r.setup(); err != nil {
						return err
					}
					defer r.Close()

					if err := r.sources.Set(ctx, username, cfg); err != nil {
						return err
					}

					r.logger.Info("sources updated",
						"user", username,
						"playlists", len(cfg.ByPlaylist),
						"usernames", len(cfg.ByUsername),
					)
					return nil
				},
			},
		},
	}
}
