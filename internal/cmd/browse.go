package cmd

import (
	"github.com/spf13/cobra"

	"github.com/imagej/ijc/internal/app"
	"github.com/imagej/ijc/internal/objref"
	"github.com/imagej/ijc/internal/tui"
)

func newBrowseCmd(c *cli) *cobra.Command {
	var (
		source string
		active string
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the menu and run modules (TUI)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := app.ParseMenuSource(source)
			if err != nil {
				return usageError(err.Error())
			}
			if !stdinIsTTY() {
				return usageError("browse needs a terminal")
			}
			s, err := c.session()
			if err != nil {
				return err
			}
			if active != "" {
				ref, err := objref.Parse(active)
				if err != nil {
					return usageError(err.Error())
				}
				s.SetActive(ref)
			}
			if err := tui.RunBrowse(cmd.Context(), s, src, c.cfg.Server); err != nil {
				return app.ExitResult{Code: 1, Message: err.Error(), ToStderr: true}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "admin", "menu source: admin|provider")
	cmd.Flags().StringVar(&active, "active", "", "initial active object (object:<id>)")

	return cmd
}
