package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gamearena/wakegate/service"
)

var authorizeCmd = &cobra.Command{
	Use:   "authorize",
	Short: "Register this application with the Freebox (one-time, interactive)",
	Long: `Sends an authorization request to the Freebox and waits for you to
approve it on the router's front panel. On approval the application token
is written to the credential file. This must complete once before the
gateway can wake anything.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()

		cfg, credStore, client, err := loadComponents(log)
		if err != nil {
			return err
		}

		if credStore.Exists() {
			fmt.Printf("A credential file already exists at %s; it will be overwritten on approval.\n\n", credStore.Path())
		}

		flow := service.NewAuthorizeFlow(
			client, credStore, cfg.AppMetadata(), cfg.Freebox.URL,
			cfg.Auth.PollInterval, cfg.Auth.PollAttempts, log,
		)
		flow.OnProgress(func(attempt, attempts int) {
			fmt.Printf("\rWaiting for approval... (%d/%ds)", attempt, attempts)
		})

		fmt.Println("Requesting authorization from the Freebox...")
		fmt.Println("Go to the FRONT PANEL of your Freebox and confirm the request with the arrow keys.")
		fmt.Println()

		cred, err := flow.Run(cmd.Context())
		fmt.Println()
		if err != nil {
			return fmt.Errorf("authorization failed: %w", err)
		}

		fmt.Printf("Authorization granted. Credential saved to %s\n", credStore.Path())
		fmt.Printf("App ID: %s\n", cred.AppID)
		fmt.Println("Keep this file out of version control.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authorizeCmd)
}
