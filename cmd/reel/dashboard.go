package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/alfredjeanlab/reelcast/internal/client"
	"github.com/alfredjeanlab/reelcast/internal/ui"
	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Short:   "Show the dashboard view and the Flow project link",
	GroupID: "studio",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dash, err := studioClient.GetDashboard(context.Background())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(dash)
		}
		printDashboard(cmd.OutOrStdout(), dash)
		return nil
	},
}

var dashboardToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Toggle split mode",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dash, err := studioClient.ToggleSplitMode(context.Background())
		if err != nil {
			return err
		}
		printWarning(dash.Warning)
		if jsonOutput {
			return printJSON(dash)
		}
		printDashboard(cmd.OutOrStdout(), dash)
		return nil
	},
}

var dashboardResyncCmd = &cobra.Command{
	Use:   "resync",
	Short: "Force the Flow embed to be recreated",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		embed, err := studioClient.ResyncDashboard(context.Background())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(embed)
		}
		fmt.Println(embed.URL)
		return nil
	},
}

func printDashboard(w io.Writer, dash *client.DashboardResponse) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	mode := "single"
	if dash.IsSplitMode {
		mode = "split"
	}
	fmt.Fprintf(tw, "mode:\t%s\n", mode)
	if dash.FlowURL == "" {
		fmt.Fprintf(tw, "flow:\t%s\n", ui.RenderMuted("no Flow project id configured (reel config set)"))
	} else {
		fmt.Fprintf(tw, "flow:\t%s\n", ui.RenderAccent(dash.ExternalURL))
	}
	tw.Flush()
}

func init() {
	dashboardCmd.AddCommand(dashboardToggleCmd)
	dashboardCmd.AddCommand(dashboardResyncCmd)
}
