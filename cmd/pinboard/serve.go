package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/phanxgames/pinboard/config"
	"github.com/phanxgames/pinboard/server"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the document store over a JSONBin-compatible API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			store, closeStore, err := config.OpenStore(ctx, a.cfg)
			if err != nil {
				return fmt.Errorf("opening store: %w", err)
			}
			defer closeStore()

			e := server.New(store, server.Options{
				MasterKey: a.cfg.JSONBin.MasterKey,
				Logger:    log.StandardLogger(),
			})
			errc := make(chan error, 1)
			go func() {
				a.log.WithField("addr", a.cfg.ListenAddr).Info("serving board documents")
				errc <- e.Start(a.cfg.ListenAddr)
			}()

			select {
			case err := <-errc:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return e.Shutdown(shutdownCtx)
		},
	}
}
