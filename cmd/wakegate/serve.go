package main

import (
	"github.com/spf13/cobra"

	"github.com/gamearena/wakegate/adapters/probe"
	"github.com/gamearena/wakegate/service"
	transport "github.com/gamearena/wakegate/transport/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the gateway HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()

		cfg, credStore, client, err := loadComponents(log)
		if err != nil {
			return err
		}

		prober := probe.NewNetworkProber(cfg.Gateway.ProbeTimeout, log)
		svc := service.NewGatewayService(cfg, credStore, client, prober, log)

		if !credStore.Exists() {
			log.Warn().Str("path", credStore.Path()).
				Msg("no router credential found, run \"wakegate authorize\" before waking machines")
		}

		router := transport.SetupRouter(svc, cfg, log)

		log.Info().Str("addr", cfg.Server.Addr).Msg("gateway listening")
		return router.Run(cfg.Server.Addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
