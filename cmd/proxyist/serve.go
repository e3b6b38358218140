package main

import (
	"context"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"proxyist/internal/service/web"
	"proxyist/internal/shared/logger"
)

func newServeCmd(c *cli) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the proxy list over a JSON HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				c.cfg.WebConf.Port = port
			}

			m, err := c.newManager()
			if err != nil {
				return err
			}

			var wg sync.WaitGroup
			srv, err := web.StartServer(&wg, c.cfg.WebConf, m)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()

			l := logger.WithComponent("CLI")
			l.Info().Msg("Shutdown signal received.")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			err = srv.Shutdown(shutdownCtx)
			wg.Wait()
			return err
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "listen port, overrides [web] port")
	return cmd
}
