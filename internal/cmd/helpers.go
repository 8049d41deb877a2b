package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/imagej/ijc/internal/app"
	"github.com/imagej/ijc/internal/logger"
	"github.com/imagej/ijc/internal/server"
	"github.com/imagej/ijc/internal/tui"
)

// getOutputFlags returns the global --format and -o/--output (path) from the root command.
// -o/--output = output path (file to write). --format/-F = output format (json|yaml|text|quiet).
func getOutputFlags(c *cobra.Command) (format string, outputPath string) {
	format, _ = c.Root().PersistentFlags().GetString("format")
	outputPath, _ = c.Root().PersistentFlags().GetString("output")
	return format, outputPath
}

// client builds the module server client with the stored profile applied.
// A keychain that cannot be read is logged and treated as no login.
func (c *cli) client() *server.Client {
	profile, err := app.LoadProfile(c.cfg.Server)
	if err != nil {
		logger.Warn("stored login unavailable", "server", c.cfg.Server, "err", err)
	}
	return server.New(c.cfg.ClientOptions(profile))
}

// session builds a fresh session over a new client.
func (c *cli) session() (*app.Session, error) {
	s, err := app.NewSession(c.client(), app.SessionOptions{
		CacheSize: c.cfg.CacheSize,
		Format:    c.cfg.Format,
		Open:      app.OpenLocalFile,
	})
	if err != nil {
		return nil, app.ExitResult{Code: 1, Message: err.Error(), ToStderr: true}
	}
	return s, nil
}

func usageError(msg string) error {
	return app.ExitResult{Code: 2, Message: msg, ToStderr: true}
}

func stdinIsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// highlighter returns the syntax highlighter for text written to stdout,
// or nil when stdout is not a terminal or output goes to a file.
func highlighter(outputPath string) func(string) string {
	if outputPath != "" || os.Getenv("NO_COLOR") != "" || !term.IsTerminal(int(os.Stdout.Fd())) {
		return nil
	}
	return tui.Highlight
}
