package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/alfredjeanlab/reelcast/internal/client"
	"github.com/alfredjeanlab/reelcast/internal/events"
	"github.com/alfredjeanlab/reelcast/internal/ui"
	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream studio events as they happen",
	Long: `Stream studio events (config saves, schedule changes, generations).

Events are read from NATS when REEL_NATS_URL or the active remote's NATS URL
is set, otherwise from the server's SSE stream.`,
	GroupID: "posts",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		topics, _ := cmd.Flags().GetStringSlice("topic")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		natsURL := os.Getenv("REEL_NATS_URL")
		if natsURL == "" {
			natsURL = activeRemoteNATSURL()
		}
		if natsURL != "" {
			return watchNATS(ctx, natsURL, topics)
		}
		return watchSSE(ctx, topics)
	},
}

// watchNATS prints every payload published on the given subjects until ctx
// is cancelled.
func watchNATS(ctx context.Context, natsURL string, topics []string) error {
	sub, err := events.NewNATSSubscriber(natsURL,
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.Warn("nats: disconnected", "err", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			slog.Info("nats: reconnected")
		}),
	)
	if err != nil {
		return fmt.Errorf("connecting to NATS: %w", err)
	}
	defer sub.Close()

	if len(topics) == 0 {
		topics = []string{events.AllTopics}
	}

	merged := make(chan events.Message, 64)
	for _, topic := range topics {
		ch, cancel, err := sub.Subscribe(topic)
		if err != nil {
			return fmt.Errorf("subscribing to events: %w", err)
		}
		defer cancel()
		go func() {
			for msg := range ch {
				select {
				case merged <- msg:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-merged:
			printEvent(os.Stdout, client.Event{Topic: msg.Topic, Data: msg.Data}, time.Now())
		}
	}
}

func watchSSE(ctx context.Context, topics []string) error {
	err := studioClient.StreamEvents(ctx, topics, func(e client.Event) error {
		printEvent(os.Stdout, e, time.Now())
		return nil
	})
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

func printEvent(w io.Writer, e client.Event, at time.Time) {
	if jsonOutput {
		out := struct {
			ID    string          `json:"id,omitempty"`
			Topic string          `json:"topic,omitempty"`
			Data  json.RawMessage `json:"data"`
		}{e.ID, e.Topic, e.Data}
		if !json.Valid(out.Data) {
			out.Data = json.RawMessage("null")
		}
		data, _ := json.Marshal(out)
		fmt.Fprintln(w, string(data))
		return
	}

	topic := e.Topic
	if topic == "" {
		topic = "event"
	}
	fmt.Fprintf(w, "%s  %s  %s\n",
		ui.RenderMuted(at.Format("15:04:05")),
		ui.RenderAccent(strings.TrimPrefix(topic, "reelcast.")),
		strings.TrimSpace(string(e.Data)))
}

func init() {
	watchCmd.Flags().StringSlice("topic", nil, "topic pattern to follow (repeatable, e.g. reelcast.schedule.*)")
}
