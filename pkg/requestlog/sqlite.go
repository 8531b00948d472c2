package requestlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

// StoreConfig configures the SQLite backend.
type StoreConfig struct {
	// Path is the database file.
	Path string

	// BusyTimeout is how long SQLite waits on a locked database.
	BusyTimeout time.Duration
}

// Store is the SQLite-backed record store.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

const schema = `
CREATE TABLE IF NOT EXISTS requests (
	id             TEXT PRIMARY KEY,
	conn_id        TEXT NOT NULL,
	received_at    INTEGER NOT NULL,
	meta           TEXT,
	outcome        TEXT NOT NULL,
	error_code     TEXT,
	duration_us    INTEGER NOT NULL,
	response_bytes INTEGER NOT NULL,
	created_at     INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_requests_created_at ON requests(created_at);
`

// Open opens (creating if needed) the database and ensures the schema.
func Open(cfg StoreConfig, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	busyMillis := cfg.BusyTimeout.Milliseconds()
	if busyMillis <= 0 {
		busyMillis = 5000
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)",
		cfg.Path, busyMillis)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open request log %q: %w", cfg.Path, err)
	}
	// A single writer connection sidesteps SQLITE_BUSY between the
	// recorder and the pruner.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize request log schema: %w", err)
	}

	logger.Info("request log opened", "path", cfg.Path)
	return &Store{db: db, logger: logger}, nil
}

// Insert writes one record.
func (s *Store) Insert(ctx context.Context, rec *Record) error {
	var meta []byte
	if len(rec.Meta) > 0 {
		var err error
		meta, err = json.Marshal(rec.Meta)
		if err != nil {
			return fmt.Errorf("failed to marshal record meta: %w", err)
		}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO requests
			(id, conn_id, received_at, meta, outcome, error_code, duration_us, response_bytes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.ConnID,
		rec.ReceivedAt.UnixMilli(),
		string(meta),
		rec.Outcome,
		rec.ErrorCode,
		rec.Duration.Microseconds(),
		rec.ResponseBytes,
		time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert request record: %w", err)
	}
	return nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM requests`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count request records: %w", err)
	}
	return n, nil
}

// DeleteOlderThan removes records created before the cutoff and reports how
// many were removed.
func (s *Store) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM requests WHERE created_at < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to delete old request records: %w", err)
	}
	return res.RowsAffected()
}

// TrimToCap removes the oldest records beyond max and reports how many were
// removed.
func (s *Store) TrimToCap(ctx context.Context, max int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM requests WHERE id IN (
			SELECT id FROM requests
			ORDER BY created_at DESC
			LIMIT -1 OFFSET ?
		)`, max)
	if err != nil {
		return 0, fmt.Errorf("failed to trim request records: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
