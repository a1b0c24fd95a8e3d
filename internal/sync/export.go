package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/alfredjeanlab/reelcast/internal/model"
	"github.com/alfredjeanlab/reelcast/internal/store"
)

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version     string    `json:"version"`
	Type        string    `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	RecordCount int       `json:"record_count"`
}

// record is one durable key and its stored value. A value that is not valid
// JSON is carried as a string with Malformed set.
type record struct {
	Type      string `json:"type"`
	Key       string `json:"key"`
	Data      any    `json:"data"`
	Malformed bool   `json:"malformed,omitempty"`
}

// ExportJSONL writes every durable record from b as JSONL to w, sorted by
// key. Credentials in the app config are masked.
func ExportJSONL(ctx context.Context, b store.Backend, w io.Writer) error {
	keys, err := b.Keys(ctx)
	if err != nil {
		return fmt.Errorf("list keys: %w", err)
	}

	records := make([]record, 0, len(keys))
	for _, k := range keys {
		raw, ok, err := b.Get(ctx, k)
		if err != nil {
			return fmt.Errorf("get %s: %w", k, err)
		}
		if !ok {
			continue // deleted between Keys and Get
		}
		records = append(records, exportRecord(k, raw))
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:     "1",
		Type:        "header",
		Timestamp:   time.Now().UTC(),
		RecordCount: len(records),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode record %s: %w", r.Key, err)
		}
	}
	return nil
}

func exportRecord(key string, raw []byte) record {
	if !json.Valid(raw) {
		return record{Type: "record", Key: key, Data: string(raw), Malformed: true}
	}
	if key == model.KeyAppConfig {
		var cfg model.AppConfig
		if err := json.Unmarshal(raw, &cfg); err != nil {
			// Valid JSON of the wrong shape; never risk copying secrets out.
			return record{Type: "record", Key: key, Data: nil, Malformed: true}
		}
		return record{Type: "record", Key: key, Data: cfg.Masked()}
	}
	return record{Type: "record", Key: key, Data: json.RawMessage(raw)}
}
