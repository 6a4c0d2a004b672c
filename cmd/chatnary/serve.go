package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/chatnary/chatnary/internal/ssh"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(e *env) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the viewer over SSH",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := e.cfg
			if cmd.Flags().Changed("listen") {
				cfg.Listen = listen
			}

			s, err := ssh.New(cfg, e.logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() { errc <- s.ListenAndServe() }()
			fmt.Fprintf(cmd.OutOrStdout(), "listening on %s\n", cfg.Listen)

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}

			e.logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := s.Shutdown(shutdownCtx); err != nil {
				e.logger.Warn("shutdown", "err", err)
				return s.Close()
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default from config, :2222)")
	return cmd
}
