package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:     "health",
	Short:   "Check the health of the studio server",
	GroupID: "system",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := studioClient.Health(context.Background())
		if err != nil {
			return fmt.Errorf("checking health: %w", err)
		}

		if jsonOutput {
			if err := printJSON(map[string]string{"status": status}); err != nil {
				return err
			}
		} else {
			fmt.Printf("Health: %s\n", status)
		}

		if status != "ok" {
			return fmt.Errorf("unhealthy: %s", status)
		}
		return nil
	},
}

var backupCmd = &cobra.Command{
	Use:     "backup",
	Short:   "Push a snapshot of the studio records to the backup destinations now",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := studioClient.Backup(context.Background()); err != nil {
			return fmt.Errorf("backup: %w", err)
		}
		if jsonOutput {
			return printJSON(map[string]string{"status": "ok"})
		}
		fmt.Println("backup complete")
		return nil
	},
}
