package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	appLog "weekcal/internal/log"
	"weekcal/internal/web"
)

func serveCmd(a *app) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API and the timeline page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listen != "" {
				a.cfg.Listen = listen
			}
			appLog.Info("weekcal starting", "version", Version, "listen", a.cfg.Listen, "data_file", a.dataFile())

			sess, err := a.openSession()
			if err != nil {
				return err
			}
			if err := sess.StartAutosave(a.cfg.Autosave); err != nil {
				appLog.Error("autosave disabled", err)
			}

			// Root context with cancellation on SIGINT/SIGTERM.
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			go func() {
				select {
				case sig := <-sigCh:
					appLog.Info("signal received, shutting down", "signal", sig.String())
					cancel()
				case <-ctx.Done():
				}
			}()

			srvErr := web.NewServer(a.cfg, sess).ListenAndServe(ctx)
			if srvErr != nil {
				appLog.Error("HTTP server failed", srvErr)
			}
			if err := sess.Close(); err != nil {
				return err
			}
			appLog.Info("weekcal exiting")
			return srvErr
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "HTTP listen address (overrides config if set)")
	return cmd
}
