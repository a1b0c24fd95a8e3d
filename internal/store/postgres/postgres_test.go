package postgres

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/alfredjeanlab/reelcast/internal/store"
)

// newMockDB creates a sqlmock database with automatic cleanup and expectation checking.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
		db.Close()
	})
	return db, mock
}

func TestGet(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT value FROM records WHERE key = \\$1").WithArgs("app-config").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`{"geminiFlowId":"f1"}`))

	s := NewWithDB(db, 0)
	data, ok, err := s.Get(context.Background(), "app-config")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected record to be found")
	}
	if string(data) != `{"geminiFlowId":"f1"}` {
		t.Errorf("got %s", data)
	}
}

func TestGet_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT value FROM records WHERE key = \\$1").WithArgs("schedules").
		WillReturnError(sql.ErrNoRows)

	_, ok, err := NewWithDB(db, 0).Get(context.Background(), "schedules")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for missing key")
	}
}

func TestGet_Error(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT value FROM records").WithArgs("schedules").
		WillReturnError(errors.New("connection reset"))

	if _, _, err := NewWithDB(db, 0).Get(context.Background(), "schedules"); err == nil {
		t.Fatal("expected error")
	}
}

func TestPut_NoQuota(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec("INSERT INTO records").WithArgs("schedules", `[]`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := NewWithDB(db, 0).Put(context.Background(), "schedules", []byte(`[]`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPut_WithinQuota(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(octet_length\\(value\\)\\), 0\\) FROM records WHERE key <> \\$1").
		WithArgs("schedules").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(10))
	mock.ExpectExec("INSERT INTO records").WithArgs("schedules", `[]`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := NewWithDB(db, 100).Put(context.Background(), "schedules", []byte(`[]`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPut_QuotaExceeded(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COALESCE").WithArgs("schedules").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(99))
	mock.ExpectRollback()

	err := NewWithDB(db, 100).Put(context.Background(), "schedules", []byte(`[{}]`))
	if !errors.Is(err, store.ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec("DELETE FROM records WHERE key = \\$1").WithArgs("products").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := NewWithDB(db, 0).Delete(context.Background(), "products"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestKeys(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT key FROM records ORDER BY key").
		WillReturnRows(sqlmock.NewRows([]string{"key"}).AddRow("app-config").AddRow("schedules"))

	keys, err := NewWithDB(db, 0).Keys(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"app-config", "schedules"}; !reflect.DeepEqual(keys, want) {
		t.Fatalf("got %v, want %v", keys, want)
	}
}
