package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/rcliao/vibe-writer/internal/api"
	"github.com/rcliao/vibe-writer/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Run:   runServe,
	}

	cmd.Flags().StringP("listen", "l", "", "Listen address (default: server.listen)")
	cmd.Flags().String("log-file", "", "Also append JSON logs to this file")

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	logFile, _ := cmd.Flags().GetString("log-file")

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a, err := openApp(cmd, metrics.New(reg), logFile)
	if err != nil {
		exitErr("open", err)
	}
	defer a.Close()

	srv := &http.Server{
		Addr:              a.cfg.Server.Listen,
		Handler:           api.NewRouter(a.svc, a.cfg, reg, a.log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("listening", "addr", srv.Addr, "backend", a.cfg.Storage.Backend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			exitErr("serve", err)
		}
	case <-cmd.Context().Done():
		a.log.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			a.log.Error("shutdown", "error", err)
		}
	}
}
