package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/imagej/ijc/internal/app"
	"github.com/imagej/ijc/internal/logger"
)

// cli carries the resolved settings shared by every command.
type cli struct {
	v          *viper.Viper
	cfg        app.Config
	configPath string
}

// NewRoot builds the top-level `ijc` command.
//
// Errors and usage stay silent; main prints the ExitResult.
func NewRoot() *cobra.Command {
	c := &cli{v: app.NewViper()}

	root := &cobra.Command{
		Use:           "ijc",
		Short:         "ijc: run ImageJ modules on a module server",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load()
		},
	}

	pf := root.PersistentFlags()
	pf.StringP("output", "o", "", "write output to file (default: stdout)")
	pf.StringP("format", "F", "", "output format: json|yaml|text|quiet")
	pf.StringP(app.KeyServer, "s", "", "module server base URL (default "+app.DefaultServerURL+")")
	pf.String(flagConvert, "", "conversion format for object links (default "+app.DefaultConversionFormat+")")
	pf.Duration(app.KeyTimeout, 0, "HTTP request timeout (default 30s)")
	pf.Int(app.KeyCacheSize, 0, "number of module details kept in memory")
	pf.String(app.KeyLogLevel, "", "log level: debug|info|warn|error (env IJC_LOG_LEVEL)")
	pf.String(app.KeyLogFile, "", "append logs to this file instead of stderr")
	pf.StringVar(&c.configPath, "config", "", "config file (default: <user config dir>/ijc/config.yaml)")

	for key, flag := range map[string]string{
		app.KeyServer:    app.KeyServer,
		app.KeyFormat:    flagConvert,
		app.KeyTimeout:   app.KeyTimeout,
		app.KeyCacheSize: app.KeyCacheSize,
		app.KeyLogLevel:  app.KeyLogLevel,
		app.KeyLogFile:   app.KeyLogFile,
	} {
		_ = c.v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddGroup(
		&cobra.Group{ID: "modules", Title: "modules and objects"},
		&cobra.Group{ID: "explore", Title: "menus and browsing"},
		&cobra.Group{ID: "setup", Title: "server setup"},
	)

	modulesCmd := newModulesCmd(c)
	modulesCmd.GroupID = "modules"

	runCmd := newRunCmd(c)
	runCmd.GroupID = "modules"

	objectsCmd := newObjectsCmd(c)
	objectsCmd.GroupID = "modules"

	menuCmd := newMenuCmd(c)
	menuCmd.GroupID = "explore"

	browseCmd := newBrowseCmd(c)
	browseCmd.GroupID = "explore"

	loginCmd := newLoginCmd(c)
	loginCmd.GroupID = "setup"

	logoutCmd := newLogoutCmd(c)
	logoutCmd.GroupID = "setup"

	configCmd := newConfigCmd(c)
	configCmd.GroupID = "setup"

	root.AddCommand(
		modulesCmd,
		runCmd,
		objectsCmd,
		menuCmd,
		browseCmd,
		loginCmd,
		logoutCmd,
		configCmd,
	)

	return root
}

// flagConvert sets the conversion format; its config key is "format".
const flagConvert = "convert"

// load resolves the config and configures logging.
func (c *cli) load() error {
	if err := app.LoadDotEnv(c.v, app.DotEnvFile); err != nil {
		return app.ExitResult{Code: 2, Message: err.Error(), ToStderr: true}
	}
	cfg, err := app.LoadConfig(c.v, c.configPath)
	if err != nil {
		return app.ExitResult{Code: 2, Message: err.Error(), ToStderr: true}
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return app.ExitResult{Code: 2, Message: "log file: " + err.Error(), ToStderr: true}
	}
	c.cfg = cfg
	logger.Debug("config resolved", "server", cfg.Server, "file", cfg.File)
	return nil
}
