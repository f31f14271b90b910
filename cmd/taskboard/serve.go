package main

import (
	"context"

	"github.com/metalagman/taskboard/internal/app"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the task API and the front end",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := appConfig
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			a := app.New(cfg)
			if err := a.Err(); err != nil {
				return err
			}

			startCtx, cancel := context.WithTimeout(cmd.Context(), a.StartTimeout())
			defer cancel()
			if err := a.Start(startCtx); err != nil {
				return err
			}

			sig := <-a.Wait()
			log.Info().Str("signal", sig.Signal.String()).Msg("received shutdown signal")

			stopCtx, stopCancel := context.WithTimeout(context.Background(), a.StopTimeout())
			defer stopCancel()
			return a.Stop(stopCtx)
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (overrides server.addr)")
	return cmd
}
