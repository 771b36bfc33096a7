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

	"github.com/ziadkadry99/statboard/internal/display"
	"github.com/ziadkadry99/statboard/internal/events"
	"github.com/ziadkadry99/statboard/internal/notify"
	"github.com/ziadkadry99/statboard/internal/schedule"
	"github.com/ziadkadry99/statboard/internal/server"
)

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Serve the stat board over HTTP with periodic refresh",
	Long: `Starts an HTTP server with the stat board page, a JSON API and a
WebSocket feed of live updates. Stats are refreshed on start and then every
refresh_interval. Configured webhooks receive changed stats.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = serverPort
		}

		bus := events.NewBus(0)
		svc, err := buildService(cfg, bus)
		if err != nil {
			return err
		}

		if len(cfg.Webhooks) > 0 {
			hooks := notify.NewDispatcher(cfg.Webhooks)
			hooks.Subscribe(bus)
			defer hooks.Close()
		}

		srv := server.New(server.Config{
			Port:     cfg.Port,
			AllowAll: cfg.AllowAllOrigins,
			Page: display.Page{
				Title:    cfg.Title,
				Intro:    cfg.Intro,
				LivePath: "/ws",
			},
		}, svc, bus)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		sched, err := schedule.New(cfg.RefreshDuration(), func(ctx context.Context) {
			svc.Refresh(ctx)
		})
		if err != nil {
			return err
		}

		// Must drain before hooks.Close.
		stopBus := startBus(ctx, bus)
		defer stopBus()

		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("starting refresh scheduler: %w", err)
		}

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		fmt.Fprintf(os.Stderr, "statboard server %s starting on port %d\n", Version, cfg.Port)
		fmt.Fprintf(os.Stderr, "  Sources: %d\n", len(svc.Board().Snapshot().Sources))
		if d := cfg.RefreshDuration(); d > 0 {
			fmt.Fprintf(os.Stderr, "  Refresh every: %s\n", d)
		}
		if len(cfg.Webhooks) > 0 {
			fmt.Fprintf(os.Stderr, "  Webhooks: %d\n", len(cfg.Webhooks))
		}

		err = srv.Start()
		stop()
		if stopErr := sched.Stop(); stopErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: stopping scheduler: %v\n", stopErr)
		}

		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	},
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serverCmd)
}
