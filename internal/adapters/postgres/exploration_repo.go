package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/fogtrail/internal/core/domain"
)

// ExplorationRepo implements ports.RevealRepository and ports.ProgressRepository.
type ExplorationRepo struct {
	db *DB
}

func NewExplorationRepo(db *DB) *ExplorationRepo {
	return &ExplorationRepo{db: db}
}

func (r *ExplorationRepo) LoadReveals(ctx context.Context) ([]domain.RevealEvent, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT lat, lon, radius_meters
		FROM reveal_events ORDER BY sequence
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.RevealEvent
	for rows.Next() {
		var e domain.RevealEvent
		if err := rows.Scan(&e.Point.Lat, &e.Point.Lon, &e.RadiusMeters); err != nil {
			return nil, err
		}
		e.Sequence = len(events) + 1
		events = append(events, e)
	}
	return events, rows.Err()
}

// SaveReveals replaces the stored log in a single transaction.
func (r *ExplorationRepo) SaveReveals(ctx context.Context, events []domain.RevealEvent) error {
	return pgx.BeginFunc(ctx, r.db.Pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM reveal_events`); err != nil {
			return fmt.Errorf("clear reveals: %w", err)
		}
		if len(events) == 0 {
			return nil
		}

		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{"reveal_events"},
			[]string{"sequence", "lat", "lon", "radius_meters"},
			pgx.CopyFromSlice(len(events), func(i int) ([]any, error) {
				e := events[i]
				return []any{int32(i + 1), e.Point.Lat, e.Point.Lon, e.RadiusMeters}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("copy reveals: %w", err)
		}
		return nil
	})
}

func (r *ExplorationRepo) LoadProgress(ctx context.Context) (domain.ProgressionState, error) {
	var state domain.ProgressionState
	err := r.db.Pool.QueryRow(ctx, `SELECT xp FROM progression WHERE id = 1`).Scan(&state.TotalXP)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ProgressionState{}, nil
	}
	if err != nil {
		return domain.ProgressionState{}, err
	}
	return state, nil
}

func (r *ExplorationRepo) SaveProgress(ctx context.Context, state domain.ProgressionState) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO progression (id, xp, updated_at) VALUES (1, $1, now())
		ON CONFLICT (id) DO UPDATE SET xp = EXCLUDED.xp, updated_at = EXCLUDED.updated_at
	`, state.TotalXP)
	return err
}
