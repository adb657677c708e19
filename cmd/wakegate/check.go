package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the stored credential by opening a router session",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()

		_, credStore, client, err := loadComponents(log)
		if err != nil {
			return err
		}

		cred, err := credStore.Load()
		if err != nil {
			return fmt.Errorf("credential check failed: %w", err)
		}
		fmt.Printf("Credential file: %s\n", credStore.Path())
		fmt.Printf("App ID: %s\n", cred.AppID)

		if _, err := client.Login(cmd.Context(), cred); err != nil {
			return fmt.Errorf("login failed, re-run \"wakegate authorize\": %w", err)
		}

		fmt.Println("Login OK: the router accepts this credential.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
