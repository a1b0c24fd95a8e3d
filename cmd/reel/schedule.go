package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/alfredjeanlab/reelcast/internal/model"
	"github.com/alfredjeanlab/reelcast/internal/ui"
	"github.com/spf13/cobra"
)

var scheduleCmd = &cobra.Command{
	Use:     "schedule",
	Short:   "Manage scheduled posts",
	GroupID: "posts",
}

var scheduleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List scheduled posts",
	Long: `List scheduled posts in the order they were created.

--where takes a boolean expression over id, videoRef, date, time, caption
and status, for example:

  reel schedule list --where 'status == "scheduled" && date >= "2024-05-01"'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		where, _ := cmd.Flags().GetString("where")

		if where != "" || jsonOutput {
			entries, err := studioClient.ListSchedules(ctx, where)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(entries)
			}
			printScheduleEntries(cmd.OutOrStdout(), entries)
			return nil
		}

		views, err := studioClient.RenderSchedules(ctx)
		if err != nil {
			return err
		}
		printScheduleViews(cmd.OutOrStdout(), views)
		return nil
	},
}

var scheduleAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Schedule a post",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		video, _ := cmd.Flags().GetString("video")
		date, _ := cmd.Flags().GetString("date")
		at, _ := cmd.Flags().GetString("time")
		caption, _ := cmd.Flags().GetString("caption")

		resp, err := studioClient.CreateSchedule(context.Background(), model.ScheduleDraft{
			VideoRef: video,
			Date:     date,
			Time:     at,
			Caption:  caption,
		})
		if err != nil {
			return err
		}
		printWarning(resp.Warning)
		if jsonOutput {
			return printJSON(resp.Schedule)
		}
		fmt.Printf("scheduled %s for %s %s (id %s)\n",
			resp.Schedule.VideoRef, resp.Schedule.Date, resp.Schedule.Time,
			ui.RenderAccent(strconv.FormatInt(resp.Schedule.ID, 10)))
		return nil
	},
}

var scheduleDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a scheduled post",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid schedule id %q", args[0])
		}
		warning, err := studioClient.DeleteSchedule(context.Background(), id)
		if err != nil {
			return err
		}
		printWarning(warning)
		if !jsonOutput {
			fmt.Printf("deleted %d\n", id)
		}
		return nil
	},
}

func init() {
	scheduleListCmd.Flags().String("where", "", "filter expression")

	scheduleAddCmd.Flags().String("video", "", "video to post (e.g. video1)")
	scheduleAddCmd.Flags().String("date", "", "post date, YYYY-MM-DD")
	scheduleAddCmd.Flags().String("time", "", "post time, HH:MM")
	scheduleAddCmd.Flags().String("caption", "", "post caption")

	scheduleCmd.AddCommand(scheduleListCmd)
	scheduleCmd.AddCommand(scheduleAddCmd)
	scheduleCmd.AddCommand(scheduleDeleteCmd)
}
