package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gamearena/wakegate/adapters/probe"
	"github.com/gamearena/wakegate/service"
)

var wakeCmd = &cobra.Command{
	Use:   "wake <machine-id>",
	Short: "Wake a registered machine and wait until it answers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()

		cfg, credStore, client, err := loadComponents(log)
		if err != nil {
			return err
		}

		machine, ok := cfg.MachineByID(args[0])
		if !ok {
			return fmt.Errorf("machine %q is not in the registry", args[0])
		}

		prober := probe.NewNetworkProber(cfg.Gateway.ProbeTimeout, log)
		svc := service.NewGatewayService(cfg, credStore, client, prober, log)

		fmt.Printf("Waking %s (%s)...\n", machine.Name, machine.MAC)
		if err := svc.WakeMAC(cmd.Context(), machine.MAC); err != nil {
			return fmt.Errorf("wake failed: %w", err)
		}

		fmt.Println("Wake request accepted, waiting for the machine to boot...")

		timeout := time.After(cfg.Gateway.MaxWait)
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-timeout:
				return fmt.Errorf("machine did not come up within %s", cfg.Gateway.MaxWait)
			case <-ticker.C:
				if svc.PingHost(cmd.Context(), machine.IP) {
					fmt.Printf("%s is up.\n", machine.Name)
					return nil
				}
				fmt.Println("  still booting...")
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(wakeCmd)
}
