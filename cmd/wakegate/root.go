package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gamearena/wakegate/adapters/freebox"
	"github.com/gamearena/wakegate/adapters/store"
	"github.com/gamearena/wakegate/config"
	"github.com/gamearena/wakegate/ports"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "wakegate",
	Short: "Wake-on-LAN web gateway backed by the Freebox API",
	Long: `wakegate fronts a LAN machine's service: it redirects the browser when
the service is up and wakes the machine through the Freebox router when it
is not. Run "wakegate authorize" once to register with the router, then
"wakegate serve" to start the gateway.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "configs/config.yaml", "path to the YAML configuration")
}

func newLogger() zerolog.Logger {
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// loadComponents wires the pieces every subcommand needs.
func loadComponents(log zerolog.Logger) (*config.Config, ports.CredentialStore, *freebox.Client, error) {
	cfg, err := config.Load(configPath, log)
	if err != nil {
		return nil, nil, nil, err
	}

	credStore := store.NewFileCredentialStore(cfg.Freebox.TokenFile, log)
	client := freebox.NewClient(cfg.Freebox.Timeout, log)
	return cfg, credStore, client, nil
}
