package filestore

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/alfredjeanlab/reelcast/internal/store"
)

func newTestStore(t *testing.T, quota int64) (*Store, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	s, err := New(fs, "/data", quota)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, fs
}

func TestStore_PutGet(t *testing.T) {
	ctx := context.Background()
	s, fs := newTestStore(t, 0)

	if _, ok, err := s.Get(ctx, "app-config"); err != nil || ok {
		t.Fatalf("Get on empty store = ok %v err %v", ok, err)
	}

	payload := []byte(`{"geminiFlowId":"f1","apiKey":"k1","externalToken":""}`)
	if err := s.Put(ctx, "app-config", payload); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := s.Get(ctx, "app-config")
	if err != nil || !ok {
		t.Fatalf("Get = ok %v err %v", ok, err)
	}
	if string(got) != string(payload) {
		t.Errorf("Get = %s, want %s", got, payload)
	}

	onDisk, err := afero.ReadFile(fs, "/data/app-config.json")
	if err != nil {
		t.Fatalf("record not written to expected path: %v", err)
	}
	if string(onDisk) != string(payload) {
		t.Errorf("file contents = %s", onDisk)
	}
}

func TestStore_NoTempFilesLeft(t *testing.T) {
	ctx := context.Background()
	s, fs := newTestStore(t, 0)
	for i := 0; i < 3; i++ {
		if err := s.Put(ctx, "schedules", []byte("[]")); err != nil {
			t.Fatal(err)
		}
	}
	entries, err := afero.ReadDir(fs, "/data")
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".tmp-") {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 file, got %d", len(entries))
	}
}

func TestStore_InvalidKey(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, 0)
	for _, key := range []string{"", "../etc/passwd", "a/b", "Upper"} {
		if err := s.Put(ctx, key, []byte("{}")); err == nil {
			t.Errorf("Put(%q) should fail", key)
		}
	}
}

func TestStore_KeysAndDelete(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, 0)
	for _, k := range []string{"schedules", "app-config", "dashboard-state"} {
		if err := s.Put(ctx, k, []byte("{}")); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Delete(ctx, "schedules"); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "schedules"); err != nil {
		t.Errorf("second Delete: %v", err)
	}
	keys, err := s.Keys(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"app-config", "dashboard-state"}; !reflect.DeepEqual(keys, want) {
		t.Errorf("Keys() = %v, want %v", keys, want)
	}
}

func TestStore_Quota(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, 16)
	if err := s.Put(ctx, "a", []byte("0123456789")); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, "b", []byte("0123456789")); !errors.Is(err, store.ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
	if err := s.Put(ctx, "a", []byte("0123456789abcdef")); err != nil {
		t.Errorf("overwrite within quota: %v", err)
	}
}
