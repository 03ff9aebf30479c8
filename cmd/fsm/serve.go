package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/geange/fsm/internal/metrics"
	"github.com/geange/fsm/internal/server"
)

func newServeCmd(s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long:  `Serves POST /compile, POST /minimize, GET /healthz and GET /metrics.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("listen") {
				s.cfg.Listen, _ = cmd.Flags().GetString("listen")
			}
			target, err := s.target()
			if err != nil {
				return err
			}

			handler := server.New(
				server.WithLogger(s.logger),
				server.WithCollector(metrics.New()),
				server.WithRegExpOptions(s.regExpOptions()...),
				server.WithTarget(target),
				server.WithMaxPatternLength(s.cfg.MaxPatternLength),
			).Handler()

			srv := &http.Server{
				Addr:              s.cfg.Listen,
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			serverErrors := make(chan error, 1)
			go func() {
				s.logger.Info("listening", "addr", srv.Addr)
				serverErrors <- srv.ListenAndServe()
			}()

			select {
			case err := <-serverErrors:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				s.logger.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			}
		},
	}

	cmd.Flags().String("listen", ":8080", "Address to listen on")
	return cmd
}
