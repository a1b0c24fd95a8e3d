package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alfredjeanlab/reelcast/internal/model"
	"github.com/alfredjeanlab/reelcast/internal/ui"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Show or replace the studio credentials",
	GroupID: "studio",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current credentials (secrets masked)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := studioClient.GetConfig(context.Background())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(resp)
		}
		printConfig(cmd.OutOrStdout(), resp.Config, resp.Configured)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Replace the credentials",
	Long: `Replace the studio credentials. The whole config is replaced: fields
left out are cleared, not kept. --flow-id and --api-key are required.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flowID, _ := cmd.Flags().GetString("flow-id")
		apiKey, _ := cmd.Flags().GetString("api-key")
		externalToken, _ := cmd.Flags().GetString("external-token")
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}

		resp, err := studioClient.SubmitConfig(context.Background(), model.AppConfig{
			GeminiFlowID:  flowID,
			APIKey:        apiKey,
			ExternalToken: externalToken,
		})
		if err != nil {
			return err
		}
		printWarning(resp.Warning)
		if jsonOutput {
			return printJSON(resp)
		}
		fmt.Println(ui.RenderAccent("config saved"))
		if resp.Next != "" {
			fmt.Println(ui.RenderMuted("next: reel generate --help"))
		}
		return nil
	},
}

func init() {
	configSetCmd.Flags().String("flow-id", "", "Flow project id")
	configSetCmd.Flags().String("api-key", "", "Gemini API key (default $GEMINI_API_KEY)")
	configSetCmd.Flags().String("external-token", "", "optional token for external integrations")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
