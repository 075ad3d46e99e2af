// Package pricedb persists daily price series in a sqlite database.
package pricedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	attribution "github.com/sonwamoh/perfomance-attribution"
	"github.com/sonwamoh/perfomance-attribution/date"
)

const schema = `
CREATE TABLE IF NOT EXISTS prices (
    id INTEGER PRIMARY KEY,
    symbol TEXT NOT NULL,
    date TEXT NOT NULL,
    open REAL,
    high REAL,
    low REAL,
    close REAL,
    adj_close REAL,
    vol REAL,
    dividend REAL,
    factor REAL,
    UNIQUE(symbol, date)
);
`

// Store is a sqlite price store. It is safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open opens, or creates, the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// sqlite serializes writers anyway.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot initialize %q: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Save stores points, replacing those already known for the same instrument and date.
func (s *Store) Save(ctx context.Context, points []attribution.PricePoint) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `
        INSERT OR REPLACE INTO prices (symbol, date, open, high, low, close, adj_close, vol, dividend, factor)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, p := range points {
		_, err := stmt.ExecContext(ctx, p.Instrument, p.Date.String(),
			p.Open, p.High, p.Low, p.Close, p.AdjClose, p.Volume, p.Dividend, p.SplitFactor)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("cannot save %s on %s: %w", p.Instrument, p.Date, err)
		}
	}
	return tx.Commit()
}

// Prices implements attribution.PriceSource. Points are returned oldest first.
func (s *Store) Prices(ctx context.Context, instrument string) ([]attribution.PricePoint, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT symbol, date, open, high, low, close, adj_close, vol, dividend, factor
        FROM prices
        WHERE symbol = ?
        ORDER BY date`, instrument)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []attribution.PricePoint
	for rows.Next() {
		var p attribution.PricePoint
		var day string
		var open, high, low, cls, adj, vol, div, factor sql.NullFloat64
		if err := rows.Scan(&p.Instrument, &day, &open, &high, &low, &cls, &adj, &vol, &div, &factor); err != nil {
			return nil, err
		}
		if p.Date, err = date.Parse(day); err != nil {
			return nil, err
		}
		p.Open, p.High, p.Low, p.Close = open.Float64, high.Float64, low.Float64, cls.Float64
		p.AdjClose, p.Volume, p.Dividend, p.SplitFactor = adj.Float64, vol.Float64, div.Float64, factor.Float64
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, &attribution.PriceUnavailableError{Instrument: instrument}
	}
	return points, nil
}

// Latest returns the most recent date stored for instrument, and false if
// there is none.
func (s *Store) Latest(ctx context.Context, instrument string) (date.Date, bool, error) {
	var day sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT MAX(date) FROM prices WHERE symbol = ?`, instrument).Scan(&day)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !day.Valid) {
		return date.Date{}, false, nil
	}
	if err != nil {
		return date.Date{}, false, err
	}
	on, err := date.Parse(day.String)
	if err != nil {
		return date.Date{}, false, err
	}
	return on, true, nil
}

// Instruments returns the sorted list of instruments in the store.
func (s *Store) Instruments(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT symbol FROM prices ORDER BY symbol`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

var _ attribution.PriceSource = (*Store)(nil)
