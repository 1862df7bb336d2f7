package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jalad-shrimali/cdr-analyst/handlers"
)

func serveCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			for _, dir := range []string{a.cfg.Paths.Uploads, a.cfg.Paths.Reports} {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return err
				}
			}
			h := handlers.New(a.svc, handlers.Config{
				UploadDir:      a.cfg.Paths.Uploads,
				ReportDir:      a.cfg.Paths.Reports,
				TopK:           a.cfg.Analysis.TopK,
				MaxUploadBytes: a.cfg.Server.MaxUploadMB << 20,
			}, a.logger, handlers.WithMetricsHandler(promhttp.HandlerFor(a.reg, promhttp.HandlerOpts{})))

			srv := &http.Server{
				Addr:              a.cfg.Server.Addr,
				Handler:           h.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			group, ctx := errgroup.WithContext(ctx)
			group.Go(func() error {
				a.logger.Info("server started", "addr", srv.Addr,
					"uploads", a.cfg.Paths.Uploads, "reports", a.cfg.Paths.Reports)
				if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("http server error: %w", err)
				}
				return nil
			})
			group.Go(func() error {
				<-ctx.Done()
				a.logger.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})
			return group.Wait()
		},
	}
	cmd.Flags().String("addr", "", "listen address (default server.addr)")
	return cmd
}
