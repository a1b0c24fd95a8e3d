package postgres

import (
	"context"
	"database/sql"
)

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryGet(ctx context.Context, db executor, key string) ([]byte, error) {
	var value string
	if err := db.QueryRowContext(ctx, `SELECT value FROM records WHERE key = $1`, key).Scan(&value); err != nil {
		return nil, err
	}
	return []byte(value), nil
}

func queryPut(ctx context.Context, db executor, key string, data []byte) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO records (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = $2, updated_at = NOW()`,
		key, string(data),
	)
	return err
}

func queryDelete(ctx context.Context, db executor, key string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM records WHERE key = $1`, key)
	return err
}

func queryKeys(ctx context.Context, db executor) ([]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT key FROM records ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// queryUsedExcept returns the stored byte count of every record but key.
func queryUsedExcept(ctx context.Context, db executor, key string) (int64, error) {
	var used int64
	err := db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(octet_length(value)), 0) FROM records WHERE key <> $1`, key,
	).Scan(&used)
	return used, err
}
