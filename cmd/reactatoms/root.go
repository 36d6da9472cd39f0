package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/gnana997/reactatoms/pkg/util"
)

// app is the state shared by every subcommand of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *Config
	logger  *slog.Logger
}

// flagKeys maps command-line flags to config keys. Only the flags of the
// executing command are bound, so two commands may reuse a flag name.
var flagKeys = map[string]string{
	"content-dir": "content.dir",
	"log-level":   "log.level",
	"log-format":  "log.format",
	"addr":        "server.addr",
	"dev":         "server.dev",
	"cache-size":  "server.cache_size",
	"rate-limit":  "server.rate_limit",
	"out":         "export.out",
	"workers":     "export.workers",
	"bucket":      "publish.bucket",
	"prefix":      "publish.prefix",
	"region":      "publish.region",
	"endpoint":    "publish.endpoint",
	"log-file":    "mcp.log_file",
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "reactatoms",
		Short: "ReactAtoms component documentation",
		Long: `ReactAtoms serves the component documentation site, exports it as static
files, publishes the export to S3 and exposes the registry to coding agents
over MCP.

Configuration is layered, lowest to highest:
  defaults, .env, .reactatoms/config.yaml (or --config),
  REACTATOMS_* environment variables, command-line flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.Flags())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default .reactatoms/config.yaml)")
	pf.String("content-dir", "", "content bundle directory (default: the embedded bundle)")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-format", "text", "log format (text, json)")

	root.AddCommand(
		newServeCmd(a),
		newExportCmd(a),
		newPublishCmd(a),
		newMCPCmd(a),
		newInspectCmd(a),
		newValidateCmd(a),
		newVersionCmd(),
	)
	return root
}

// init binds flags, loads configuration and builds the logger. Logs always
// go to stderr: stdout carries reports and the MCP protocol.
func (a *app) init(flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		if f := flags.Lookup(name); f != nil {
			if err := a.v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}

	cfg, err := loadConfig(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = util.NewLogger(util.LoggerConfig{
		Level:  util.LogLevel(cfg.Log.Level),
		Format: util.LogFormat(cfg.Log.Format),
	})
	util.SetDefault(a.logger)
	a.logger.Debug("configuration loaded", "file", a.v.ConfigFileUsed(), "content_dir", cfg.Content.Dir)
	return nil
}
