package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gaborage/httpkit/config"
	httpkit "github.com/gaborage/httpkit/http"
	"github.com/gaborage/httpkit/server"
)

// ProxyOptions holds options for the proxy command
type ProxyOptions struct {
	Upstream string
	Host     string
	Port     int
}

// NewProxyCommand creates the proxy command
func NewProxyCommand(global *GlobalOptions) *cobra.Command {
	opts := &ProxyOptions{}

	cmd := &cobra.Command{
		Use:   "proxy",
		Short: "Forward inbound requests to an upstream host",
		Long: `Run a server that forwards every request under server.path.proxy to
the upstream base URL, re-encoding JSON and multipart bodies and applying
the configured retry policy. Downstream errors are rendered back with the
upstream status and payload.`,
		Example: `  # Forward localhost:8080 to an API
  httpkit proxy --upstream https://api.example.com/

  # Listen on a specific port
  httpkit proxy --upstream https://api.example.com/ --port 9000`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := proxyConfig(cmd, global, opts)
			if err != nil {
				return err
			}
			return runProxy(cmd.Context(), cmd, cfg)
		},
	}

	cmd.Flags().StringVarP(&opts.Upstream, "upstream", "u", "", "Upstream base URL (overrides client.baseurl)")
	cmd.Flags().StringVar(&opts.Host, "host", "", "Listen host (overrides server.host)")
	cmd.Flags().IntVarP(&opts.Port, "port", "p", 0, "Listen port (overrides server.port)")

	return cmd
}

func proxyConfig(cmd *cobra.Command, global *GlobalOptions, opts *ProxyOptions) (*config.Config, error) {
	cfg, err := config.LoadFile(global.ConfigFile)
	if err != nil {
		return nil, err
	}
	if opts.Upstream != "" {
		cfg.Client.BaseURL = opts.Upstream
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = opts.Host
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = opts.Port
	}
	if cfg.Client.BaseURL == "" {
		return nil, config.NewMissingFieldError("client.baseurl")
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	if global.Verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

func runProxy(parent context.Context, cmd *cobra.Command, cfg *config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := newLogger(cmd, cfg)
	srv := server.New(cfg, log, httpkit.NewFactory(&cfg.Client, nil, log))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), srv.ShutdownTimeout())
		defer cancel()
		log.Info().Msg("Shutting down server...")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
