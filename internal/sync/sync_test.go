package sync

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alfredjeanlab/reelcast/internal/model"
	"github.com/alfredjeanlab/reelcast/internal/store/memory"
)

// mockDestination records calls to Write.
type mockDestination struct {
	name   string
	err    error
	writes atomic.Int64
	last   atomic.Value // []byte
}

func (d *mockDestination) Name() string { return d.name }

func (d *mockDestination) Write(_ context.Context, data []byte) error {
	d.writes.Add(1)
	cp := make([]byte, len(data))
	copy(cp, data)
	d.last.Store(cp)
	return d.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func TestSchedulerStartStop(t *testing.T) {
	b := newSeededBackend(t, map[string]string{
		model.KeySchedules:      `[]`,
		model.KeyDashboardState: `{"isSplitMode":true}`,
	})

	dest := &mockDestination{name: "mock"}
	sched := NewScheduler(b, []Destination{dest}, 50*time.Millisecond, testLogger())
	sched.Start()

	// Wait for at least the initial sync + one tick.
	time.Sleep(120 * time.Millisecond)
	sched.Stop()

	if writes := dest.writes.Load(); writes < 2 {
		t.Fatalf("expected at least 2 writes, got %d", writes)
	}

	data, ok := dest.last.Load().([]byte)
	if !ok || len(data) == 0 {
		t.Fatal("expected non-empty data")
	}
	// 1 header + 2 records
	if lines := nonEmptyLines(string(data)); len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
}

func TestSchedulerStop_NoStart(t *testing.T) {
	sched := NewScheduler(memory.New(0), nil, time.Minute, testLogger())
	// Stop without Start should not panic.
	sched.Stop()
}

func TestSyncNow_AllDestinationsTried(t *testing.T) {
	boom := errors.New("bucket unreachable")
	failing := &mockDestination{name: "s3://backups/reelcast.jsonl", err: boom}
	ok := &mockDestination{name: "git:/tmp/repo"}

	sched := NewScheduler(memory.New(0), []Destination{failing, ok}, time.Minute, testLogger())
	err := sched.SyncNow(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected joined destination error, got %v", err)
	}
	if ok.writes.Load() != 1 {
		t.Fatal("second destination should still be written")
	}
}

func TestSyncNow_Success(t *testing.T) {
	dest := &mockDestination{name: "mock"}
	sched := NewScheduler(memory.New(0), []Destination{dest}, time.Minute, nil)
	if err := sched.SyncNow(context.Background()); err != nil {
		t.Fatalf("SyncNow: %v", err)
	}
	if dest.writes.Load() != 1 {
		t.Fatalf("expected 1 write, got %d", dest.writes.Load())
	}
}

func TestS3Destination_ObjectKey(t *testing.T) {
	d := &S3Destination{
		bucket: "backups",
		key:    "reelcast/{date}.jsonl",
		now:    func() time.Time { return time.Date(2024, 5, 1, 23, 0, 0, 0, time.FixedZone("ICT", 7*3600)) },
	}
	if got := d.objectKey(); got != "reelcast/2024-05-01.jsonl" {
		t.Fatalf("objectKey() = %q", got)
	}
	if got := d.Name(); got != "s3://backups/reelcast/{date}.jsonl" {
		t.Fatalf("Name() = %q", got)
	}
}
