package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/roach88/copair/internal/server"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Config   string
	Database string
	Addr     string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the upload API over HTTP",
		Long: `Starts an HTTP server that accepts multipart uploads on
POST /api/overlap (field "file", optional field "now") and returns the
report as JSON. With a database, every report is saved and the
/api/runs routes are enabled.

The server runs until interrupted (Ctrl-C or SIGTERM).

Examples:
  copair serve
  copair serve --addr :9090 --db history.db
  copair serve --config copair.toml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "", "config file (.yaml, .yml or .toml)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "run-history database (default: store.path)")
	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (default: server.addr)")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	cfg, err := loadConfig(opts.Config)
	if err != nil {
		return err
	}
	if opts.Addr != "" {
		cfg.Server.Addr = opts.Addr
	}
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	if !opts.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	srvOpts := []server.Option{server.WithLogger(logger)}
	if dbPath := resolveDatabase(opts.Database, cfg); dbPath != "" {
		st, err := openStore(dbPath)
		if err != nil {
			return err
		}
		defer st.Close()
		srvOpts = append(srvOpts, server.WithStore(st))
		logger.Info("run history enabled", "db", dbPath)
	}
	srv := server.New(cfg, srvOpts...)

	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan) // Prevent signal handler leak

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s\n", cfg.Server.Addr)
	fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl-C to stop.")

	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return WrapExitError(ExitFailure, "server error", err)
	}

	logger.Info("server stopped gracefully")
	return nil
}

