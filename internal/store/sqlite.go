// Package store provides a local SQLite cache for historical bars.
package store

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"sofr-analyzer/internal/apperrors"
	"sofr-analyzer/internal/models"
)

// BarStore caches daily OHLCV bars per contract so repeated analyses do not
// re-download history.
type BarStore struct {
	db *sql.DB
}

// NewBarStore opens (creating if needed) the bar cache at dbPath.
func NewBarStore(dbPath string) (*BarStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, apperrors.Wrap(err, "opening bar cache")
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	s := &BarStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, apperrors.Wrap(err, "initializing bar cache schema")
	}
	return s, nil
}

func (s *BarStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS bars (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		contract TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		open REAL NOT NULL,
		high REAL NOT NULL,
		low REAL NOT NULL,
		close REAL NOT NULL,
		volume INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(contract, timestamp)
	);
	CREATE INDEX IF NOT EXISTS idx_bars_contract_ts ON bars(contract, timestamp);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *BarStore) Close() error {
	return s.db.Close()
}

// SaveBars upserts bars for a contract. Existing rows with the same
// timestamp are replaced.
func (s *BarStore) SaveBars(ctx context.Context, contract models.Contract, bars []models.Bar) error {
	if len(bars) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Wrap(err, "beginning transaction")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO bars (contract, timestamp, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return apperrors.Wrap(err, "preparing insert")
	}
	defer stmt.Close()

	for _, b := range bars {
		if _, err := stmt.ExecContext(ctx, string(contract), b.Timestamp.UTC(), b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			return apperrors.Wrap(err, "inserting bar")
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Wrap(err, "committing transaction")
	}
	return nil
}

// GetBars returns bars for a contract within [from, to], ordered by
// timestamp ascending.
func (s *BarStore) GetBars(ctx context.Context, contract models.Contract, from, to time.Time) ([]models.Bar, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT timestamp, open, high, low, close, volume
		FROM bars
		WHERE contract = ? AND timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp ASC
	`, string(contract), from.UTC(), to.UTC())
	if err != nil {
		return nil, apperrors.Wrap(err, "querying bars")
	}
	defer rows.Close()

	var bars []models.Bar
	for rows.Next() {
		var b models.Bar
		if err := rows.Scan(&b.Timestamp, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, apperrors.Wrap(err, "scanning bar")
		}
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

// LastTimestamp returns the most recent cached bar timestamp for a contract,
// or ErrDataNotFound when nothing is cached.
func (s *BarStore) LastTimestamp(ctx context.Context, contract models.Contract) (time.Time, error) {
	var ts sql.NullTime
	err := s.db.QueryRowContext(ctx, `
		SELECT MAX(timestamp) FROM bars WHERE contract = ?
	`, string(contract)).Scan(&ts)
	if err != nil {
		return time.Time{}, apperrors.Wrap(err, "querying last timestamp")
	}
	if !ts.Valid {
		return time.Time{}, apperrors.ErrDataNotFound
	}
	return ts.Time, nil
}

// Contracts lists all contracts with cached bars.
func (s *BarStore) Contracts(ctx context.Context) ([]models.Contract, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT contract FROM bars ORDER BY contract`)
	if err != nil {
		return nil, apperrors.Wrap(err, "querying contracts")
	}
	defer rows.Close()

	var out []models.Contract
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, apperrors.Wrap(err, "scanning contract")
		}
		out = append(out, models.Contract(c))
	}
	return out, rows.Err()
}
