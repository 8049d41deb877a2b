package cmd

import (
	"github.com/spf13/cobra"

	"github.com/imagej/ijc/internal/app"
)

func newModulesCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "modules",
		Aliases: []string{"module", "mod"},
		Short:   "List and inspect modules",
	}

	cmd.AddCommand(
		newModulesListCmd(c),
		newModulesShowCmd(c),
	)

	return cmd
}

func newModulesListCmd(c *cli) *cobra.Command {
	var moduleType string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the server's modules grouped by type",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.session()
			if err != nil {
				return err
			}
			ids, err := s.RefreshModules(cmd.Context())
			if err != nil {
				return app.ErrorExit(err)
			}
			groups := app.FilterGroups(app.GroupModules(ids), moduleType)

			format, outputPath := getOutputFlags(cmd)
			return app.OutputResultText(groups, format, outputPath, func() string {
				return app.RenderModuleGroups(groups)
			})
		},
	}

	cmd.Flags().StringVarP(&moduleType, "type", "t", "", "only list modules of this type (e.g. command)")

	return cmd
}

func newModulesShowCmd(c *cli) *cobra.Command {
	var long bool

	cmd := &cobra.Command{
		Use:   "show <module>",
		Short: "Show a module's inputs and outputs",
		Long: `Show a module's declared inputs and outputs.

The module is a full identifier (command:net.imagej.ops.Crop) or a class
name that is unique on the server (Crop). Types are shown by their short
name; --long shows the full type identifiers.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.session()
			if err != nil {
				return err
			}
			id, err := s.LookupModule(cmd.Context(), args[0])
			if err != nil {
				return app.ErrorExit(err)
			}
			details, err := s.Details(cmd.Context(), id)
			if err != nil {
				return app.ErrorExit(err)
			}
			view := app.NewModuleView(details)

			format, outputPath := getOutputFlags(cmd)
			return app.OutputResultText(view, format, outputPath, func() string {
				if long {
					return view.RenderLong()
				}
				return view.Render()
			})
		},
	}

	cmd.Flags().BoolVarP(&long, "long", "l", false, "show full type identifiers")

	return cmd
}
