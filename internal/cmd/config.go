package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/imagej/ijc/internal/app"
)

func newConfigCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration",
		Long: `Show the configuration after flags, IJC_* environment variables and
the config file are applied, in that order of precedence.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, outputPath := getOutputFlags(cmd)
			return app.OutputResultText(c.cfg, format, outputPath, func() string {
				return renderConfig(c.cfg)
			})
		},
	}
	return cmd
}

func renderConfig(cfg app.Config) string {
	s := app.Styles
	var sb strings.Builder
	row := func(k, v string) {
		if v == "" {
			v = s.Dim.Render("(unset)")
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", s.Key.Render(fmt.Sprintf("%-11s", k)), v))
	}
	row(app.KeyServer, cfg.Server)
	row(app.KeyFormat, cfg.Format)
	row(app.KeyTimeout, cfg.Timeout.String())
	row(app.KeyCacheSize, fmt.Sprint(cfg.CacheSize))
	row(app.KeyLogLevel, cfg.LogLevel)
	row(app.KeyLogFile, cfg.LogFile)
	row("file", cfg.File)
	return sb.String()
}
