// Package commands implements the httpkit command line.
package commands

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/gaborage/httpkit/config"
	"github.com/gaborage/httpkit/logger"
)

// GlobalOptions holds flags shared by every command
type GlobalOptions struct {
	ConfigFile string
	Verbose    bool
}

// NewRootCommand creates the httpkit root command with all subcommands attached.
func NewRootCommand(version string) *cobra.Command {
	opts := &GlobalOptions{}

	cmd := &cobra.Command{
		Use:   "httpkit",
		Short: "Send, retry and forward HTTP requests",
		Long: `httpkit sends HTTP requests with fixed-delay retries and classifies
failures into transport and domain errors. It can also run a forwarding
server that replays every inbound request against an upstream host.

Configuration is read from config.yaml and HTTPKIT_* environment variables.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", config.DefaultFile, "Configuration file")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Log every attempt")

	cmd.AddCommand(
		NewRequestCommand(opts),
		NewProxyCommand(opts),
		NewVersionCommand(version),
	)

	return cmd
}

// loadConfig reads the configuration and builds a logger writing to w.
func (o *GlobalOptions) loadConfig(w io.Writer) (*config.Config, logger.Logger, error) {
	cfg, err := config.LoadFile(o.ConfigFile)
	if err != nil {
		return nil, nil, err
	}

	if o.Verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, logger.NewWithWriter(cfg.Log.Level, cfg.Log.Pretty, w), nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config) logger.Logger {
	return logger.NewWithWriter(cfg.Log.Level, cfg.Log.Pretty, cmd.ErrOrStderr())
}
