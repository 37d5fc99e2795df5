package main

import (
	"errors"
	"os"

	"github.com/edgecst/edgecst/internal/check"
	"github.com/edgecst/edgecst/internal/watch"
	"github.com/spf13/cobra"
)

func (a *app) newWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [DIR]",
		Short: "Check templates again each time they change",
		Long: `Checks the templates of DIR (the working directory by default) once, then checks
the templates that are created or modified until interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			ctx := cmd.Context()
			runner := check.NewRunner(os.DirFS(dir), check.RunnerOptions{
				Config: a.config,
				Logger: a.logger,
			})

			report, err := runner.Run(ctx, nil)
			switch {
			case errors.Is(err, check.ErrNoMatchingFiles):
				a.logger.Info().Msg("no template yet")
			case err != nil:
				return err
			default:
				if err := report.Write(a.outW, a.profile); err != nil {
					return err
				}
			}

			watcher := watch.New(dir, runner, watch.Options{
				Debounce: a.config.WatchDebounce.Duration(),
				Logger:   a.logger,
				OnReport: func(report *check.Report) {
					if err := report.Write(a.outW, a.profile); err != nil {
						a.logger.Error().Err(err).Msg("failed to write report")
					}
				},
			})
			return watcher.Run(ctx)
		},
	}
}
