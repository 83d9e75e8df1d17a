// Package sqlite persists exploration state in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/samirrijal/fogtrail/internal/core/domain"
)

//go:embed schema.sql
var schema string

// Store implements ports.RevealRepository and ports.ProgressRepository.
type Store struct {
	sqlDB *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := "file:" + filepath.Clean(path) +
		"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One writer; SQLite serializes anyway.
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Ping checks the handle is usable.
func (s *Store) Ping(ctx context.Context) error {
	return s.sqlDB.PingContext(ctx)
}

func (s *Store) LoadReveals(ctx context.Context) ([]domain.RevealEvent, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT lat, lon, radius_meters FROM reveal_events ORDER BY sequence`)
	if err != nil {
		return nil, fmt.Errorf("query reveals: %w", err)
	}
	defer rows.Close()

	var events []domain.RevealEvent
	for rows.Next() {
		var e domain.RevealEvent
		if err := rows.Scan(&e.Point.Lat, &e.Point.Lon, &e.RadiusMeters); err != nil {
			return nil, fmt.Errorf("scan reveal: %w", err)
		}
		e.Sequence = len(events) + 1
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *Store) SaveReveals(ctx context.Context, events []domain.RevealEvent) (err error) {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM reveal_events`); err != nil {
		return fmt.Errorf("clear reveals: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO reveal_events (sequence, lat, lon, radius_meters) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range events {
		if _, err = stmt.ExecContext(ctx, i+1, e.Point.Lat, e.Point.Lon, e.RadiusMeters); err != nil {
			return fmt.Errorf("insert reveal %d: %w", i+1, err)
		}
	}
	return tx.Commit()
}

func (s *Store) LoadProgress(ctx context.Context) (domain.ProgressionState, error) {
	var state domain.ProgressionState
	err := s.sqlDB.QueryRowContext(ctx, `SELECT xp FROM progression WHERE id = 1`).Scan(&state.TotalXP)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ProgressionState{}, nil
	}
	if err != nil {
		return domain.ProgressionState{}, fmt.Errorf("query progression: %w", err)
	}
	return state, nil
}

func (s *Store) SaveProgress(ctx context.Context, state domain.ProgressionState) error {
	_, err := s.sqlDB.ExecContext(ctx, `
		INSERT INTO progression (id, xp, updated_at) VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET xp = excluded.xp, updated_at = excluded.updated_at
	`, state.TotalXP, time.Now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("upsert progression: %w", err)
	}
	return nil
}
