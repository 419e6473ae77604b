package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/abhisek/glucoguard/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the risk form and JSON API over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		scorer, err := loadScorer()
		if err != nil {
			return err
		}

		srv, err := web.New(scorer, web.Options{
			Env:    cfg.Env,
			Logger: log.Logger.With().Str("component", "http").Logger(),
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Run(ctx, cfg.HTTPAddr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides GLUCOGUARD_HTTP_ADDR, default :8501)")
	if err := v.BindPFlag("http_addr", serveCmd.Flags().Lookup("addr")); err != nil {
		panic(err)
	}
}
