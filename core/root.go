package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

// Root holds the state configured by the root command's persistent flags
// and shared with every subcommand.
type Root struct {
	IndexDir    string
	MetricsAddr string
	Log         LogConfig
	Registry    *prometheus.Registry

	logCloser io.Closer
	server    *http.Server
}

func RootCommand(use, short string) (*cobra.Command, *Root) {
	root := &Root{Registry: prometheus.NewRegistry()}
	root.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			closer, err := ConfigureLogger(root.Log)
			if err != nil {
				return err
			}
			root.logCloser = closer
			if root.MetricsAddr != "" {
				root.serveMetrics()
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return root.Close()
		},
	}
	cmd.PersistentFlags().StringVar(&root.IndexDir, "index-dir", fmt.Sprintf("%s/.bst-bench", os.Getenv("HOME")),
		"the directory to write hash logs and results to")
	cmd.PersistentFlags().StringVar(&root.Log.Type, "log-type", "console", "log output format (console|json)")
	cmd.PersistentFlags().StringVar(&root.Log.Level, "log-level", "info", "minimum log level")
	cmd.PersistentFlags().StringVar(&root.Log.File, "log-file", "", "write logs to this file instead of stderr")
	cmd.PersistentFlags().StringVar(&root.MetricsAddr, "metrics-addr", "",
		"serve prometheus metrics on this address, e.g. :2112")
	return cmd, root
}

func (r *Root) serveMetrics() {
	r.server = &http.Server{
		Addr:              r.MetricsAddr,
		Handler:           promhttp.HandlerFor(r.Registry, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		Logger.Info().Str("addr", r.MetricsAddr).Msg("serving metrics")
		if err := r.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			Logger.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

// Execute runs cmd and logs a returned error before releasing the log file,
// since the root command silences cobra's own error output.
func Execute(cmd *cobra.Command, root *Root) error {
	err := cmd.Execute()
	if err != nil {
		Logger.Error().Err(err).Msgf("%s failed", cmd.Name())
	}
	return errors.Join(err, root.Close())
}

// Close stops the metrics listener and releases the log file. Logger falls
// back to stderr once its file is closed.
func (r *Root) Close() error {
	var errs []error
	if r.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		errs = append(errs, r.server.Shutdown(ctx))
		r.server = nil
	}
	if r.logCloser != nil {
		Logger = stderrLogger()
		errs = append(errs, r.logCloser.Close())
		r.logCloser = nil
	}
	return errors.Join(errs...)
}
