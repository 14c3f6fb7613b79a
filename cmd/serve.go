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

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/techpulse/internal/dashboard"
	"github.com/KaramelBytes/techpulse/internal/survey"
)

var (
	serveAddr    string
	serveNoWatch bool
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard API over HTTP",
	Long: `Serve exposes filter options, key metrics, charts (JSON, PNG or SVG) and
CSV export over HTTP. Filters are passed as query parameters: gender and
country may repeat, plus age_min, age_max and treatment. Prometheus metrics
are served at /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := settings()
		addr := c.ListenAddr
		if serveAddr != "" {
			addr = serveAddr
		}
		path := resolveDataPath()

		m := dashboard.NewMetrics()
		loader := survey.NewLoader(survey.WithLogger(logger), survey.WithObserver(m.ObserveLoad))
		if t, err := loader.Load(path); err != nil {
			logger.Warn("initial survey load failed; requests will retry", "path", path, "err", err)
		} else {
			logger.Info("survey loaded", "path", path, "rows", t.Len(), "table_id", t.ID())
		}

		h := dashboard.New(loader, dashboard.Config{
			DataPath:   path,
			Analysis:   analysisOptions(),
			Render:     renderOptions(),
			ExportName: c.ExportName,
		}, logger, m)
		srv := dashboard.NewServer(addr, dashboard.NewRouter(h, m, c.AllowedOrigins))

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			logger.Info("dashboard listening", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("listen %s: %w", addr, err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			logger.Info("shutting down dashboard")
			return srv.Shutdown(sctx)
		})
		if c.WatchData && !serveNoWatch {
			g.Go(func() error {
				if err := loader.Watch(ctx, path); err != nil {
					logger.Warn("survey watch disabled", "path", path, "err", err)
				}
				return nil
			})
		}
		return g.Wait()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides listen_addr)")
	serveCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "do not reload the survey when the file changes")
}
