// Command mcp-server exposes the gotaylor tools over HTTP for AI agent
// frameworks.
//
//	mcp-server --port 8080 --config gotaylor.yaml
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/njchilds90/gotaylor/internal/config"
	"github.com/njchilds90/gotaylor/internal/logging"
	"github.com/njchilds90/gotaylor/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

type options struct {
	configPath string
	port       int
	debug      bool
	logLevel   string
	logFormat  string
	maxOrder   int
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:           "mcp-server",
		Short:         "Serve Taylor-coefficient tools over HTTP",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file")
	f.IntVarP(&opts.port, "port", "p", 0, "port to listen on (overrides config)")
	f.BoolVar(&opts.debug, "debug", false, "gin debug mode and debug logging")
	f.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	f.StringVar(&opts.logFormat, "log-format", "", "log format: text or json")
	f.IntVar(&opts.maxOrder, "max-order", 0, "highest Taylor order a call may request")
	return cmd
}

// loadConfig reads the config file and applies the flags the user set.
func loadConfig(cmd *cobra.Command, opts options) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Server.Port = opts.port
	}
	if flags.Changed("debug") {
		cfg.Server.Debug = opts.debug
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = opts.logFormat
	}
	if flags.Changed("max-order") {
		cfg.Engine.MaxOrder = opts.maxOrder
	}
	if cfg.Server.Debug && !flags.Changed("log-level") {
		cfg.Log.Level = "debug"
	}
	return cfg, errors.Wrap(cfg.Validate(), "invalid configuration")
}

func run(ctx context.Context, cfg config.Config) error {
	logger, err := logging.New(cfg.Logging())
	if err != nil {
		return err
	}
	if cfg.Server.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := newServer(cfg, logger, metrics.New())
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           s.router(),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("gotaylor MCP server listening", "addr", srv.Addr, "max_order", cfg.Engine.MaxOrder)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return errors.Wrap(err, "server failed")
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return errors.Wrap(srv.Shutdown(shutdownCtx), "shutdown")
}
