package main

import (
	"os"

	"github.com/edgecst/edgecst/internal/check"
	"github.com/spf13/cobra"
)

func (a *app) newCheckCommand() *cobra.Command {
	var root string
	var lint bool
	var concurrency int

	cmd := &cobra.Command{
		Use:   "check [PATTERN...]",
		Short: "Report the syntax errors of a set of templates",
		Long: `Parses in parallel the templates matching the patterns (doublestar globs relative
to --root, the include patterns of the configuration by default) and prints one line
per syntax error. The exit status is 1 if at least one template is invalid.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("lint") {
				a.config.LintRawBlocks = lint
			}

			runner := check.NewRunner(os.DirFS(root), check.RunnerOptions{
				Config:      a.config,
				Logger:      a.logger,
				Concurrency: concurrency,
			})

			report, err := runner.Run(cmd.Context(), args)
			if err != nil {
				return err
			}

			if err := report.Write(a.outW, a.profile); err != nil {
				return err
			}
			if report.HasErrors() {
				return errAlreadyReported
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", ".", "directory the patterns are relative to")
	cmd.Flags().BoolVar(&lint, "lint", false, "lint the bodies of <style> and <script> tags")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "j", 0, "maximum number of templates parsed at the same time (default GOMAXPROCS)")

	return cmd
}
