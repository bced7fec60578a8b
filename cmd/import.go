package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mtomcal/videotitan-server/internal/importer"
	"github.com/mtomcal/videotitan-server/internal/models"
	"github.com/mtomcal/videotitan-server/internal/shared"
	"github.com/mtomcal/videotitan-server/internal/ui"
	"github.com/urfave/cli/v3"
)

func importCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Run a full playlist import for a user",
		ArgsUsage: "<username>",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "username"},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Show live progress in an interactive view",
			},
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
			if cfg.Empty() {
				return fmt.Errorf("%w: no sources configured for %s", shared.ErrInvalidInput, username)
			}

			if cmd.Bool("watch") {
				return r.importWatch(ctx, username, cfg.Sources())
			}
			return r.importPlain(ctx, username, cfg.Sources())
		},
	}
}

// importPlain runs the import logging progress lines and printing the result as JSON.
func (r *Runner) importPlain(ctx context.Context, username string, sources []models.Source) error {
	progress := make(chan importer.ProgressUpdate, 64)
	go func() {
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase.String())
		}
	}()

	result, err := r.engine.Run(ctx, username, sources, progress)
	close(progress)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// importWatch runs the import behind the interactive progress view.
func (r *Runner) importWatch(ctx context.Context, username string, sources []models.Source) error {
	// Logs would fight the UI for the terminal.
	fileLogger, err := shared.NewFileLogger("./tmp/videotitan.log")
	if err != nil {
		return err
	}
	r.SetLogger(fileLogger)

	progress := make(chan importer.ProgressUpdate, 64)
	outcome := make(chan ui.RunOutcome, 1)

	go func() {
		result, err := r.engine.Run(ctx, username, sources, progress)
		close(progress)
		outcome <- ui.RunOutcome{Result: result, Err: err}
	}()

	model := ui.NewModel(username, progress, outcome)
	p := tea.NewProgram(model)
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("error running progress view: %w", err)
	}

	if m, ok := final.(ui.Model); ok {
		if _, runErr := m.Outcome(); runErr != nil {
			return runErr
		}
	}
	return nil
}
