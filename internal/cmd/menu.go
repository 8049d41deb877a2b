package cmd

import (
	"github.com/spf13/cobra"

	"github.com/imagej/ijc/internal/app"
)

func newMenuCmd(c *cli) *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Show the server's menu and run its entries",
	}

	cmd.PersistentFlags().StringVar(&source, "source", "admin", "menu source: admin|provider")

	cmd.AddCommand(
		newMenuShowCmd(c, &source),
		newMenuRunCmd(c, &source),
	)

	return cmd
}

// loadMenu fetches the menu from the --source flag's source.
func (c *cli) loadMenu(cmd *cobra.Command, s *app.Session, source string) (*app.MenuItem, error) {
	src, err := app.ParseMenuSource(source)
	if err != nil {
		return nil, usageError(err.Error())
	}
	root, err := s.Menu(cmd.Context(), src)
	if err != nil {
		return nil, app.ErrorExit(err)
	}
	return root, nil
}

func newMenuShowCmd(c *cli, source *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the menu tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.session()
			if err != nil {
				return err
			}
			root, err := c.loadMenu(cmd, s, *source)
			if err != nil {
				return err
			}
			format, outputPath := getOutputFlags(cmd)
			return app.OutputResult(root, format, outputPath)
		},
	}
	return cmd
}

func newMenuRunCmd(c *cli, source *string) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run <label>...",
		Short: "Run the module behind a menu entry",
		Long: `Run the module behind a menu entry, given by its label path.

Labels are matched exactly, then case-insensitively. The entry's command
maps to the module "command:<command>".

Examples:
  ijc menu run Image Adjust Crop --active object:abc123
  ijc menu run File Open --set path=/data/cells.tif`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.session()
			if err != nil {
				return err
			}
			root, err := c.loadMenu(cmd, s, *source)
			if err != nil {
				return err
			}
			item, err := app.FindMenuItem(root, args)
			if err != nil {
				return usageError(err.Error())
			}
			id, err := s.ResolveMenuItem(cmd.Context(), *item)
			if err != nil {
				return app.ErrorExit(err)
			}
			return opts.runModule(cmd, s, id)
		},
	}

	opts.addFlags(cmd)

	return cmd
}
