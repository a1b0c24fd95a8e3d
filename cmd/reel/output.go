package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/alfredjeanlab/reelcast/internal/model"
	"github.com/alfredjeanlab/reelcast/internal/ui"
)

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// printWarning reports a change the server kept in memory only.
func printWarning(warning string) {
	if warning != "" {
		fmt.Fprintln(os.Stderr, ui.RenderWarning("warning: "+warning))
	}
}

func printConfig(w io.Writer, cfg model.AppConfig, configured bool) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "flow id:\t%s\n", orDash(cfg.GeminiFlowID))
	fmt.Fprintf(tw, "api key:\t%s\n", orDash(cfg.APIKey))
	fmt.Fprintf(tw, "external token:\t%s\n", orDash(cfg.ExternalToken))
	state := ui.RenderWarning("incomplete")
	if configured {
		state = ui.RenderAccent("ready")
	}
	fmt.Fprintf(tw, "status:\t%s\n", state)
	tw.Flush()
}

func printScheduleViews(w io.Writer, views []model.ScheduleView) {
	if len(views) == 0 {
		fmt.Fprintln(w, ui.RenderMuted("no scheduled posts"))
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tVIDEO\tWHEN\tSTATUS\tCAPTION")
	for _, v := range views {
		caption := v.Caption
		if len(caption) > 40 {
			caption = caption[:37] + "..."
		}
		fmt.Fprintf(tw, "%d\t%s\t%s %s\t%s\t%s\n",
			v.ID, v.Title, v.DisplayDate, v.DisplayTime,
			ui.RenderStatus(v.Status, v.StatusLabel), caption)
	}
	tw.Flush()
}

func printScheduleEntries(w io.Writer, entries []model.ScheduleEntry) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tVIDEO\tDATE\tTIME\tSTATUS")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			e.ID, e.VideoRef, e.Date, e.Time, ui.RenderStatus(string(e.Status), e.Status.Label()))
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%d scheduled posts\n", len(entries))
}

func printProducts(w io.Writer, products []model.Product) {
	if len(products) == 0 {
		fmt.Fprintln(w, ui.RenderMuted("no products"))
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tSTYLE\tADDED")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.Name, orDash(p.Price), orDash(p.Style), p.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return ui.RenderMuted("-")
	}
	return s
}
