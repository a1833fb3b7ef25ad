package postgres

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/traininglog/internal/domain"
	"example.com/traininglog/internal/streak"
)

// StreakStore persists per-(owner, activity) streak state. Owner-scoped
// operations pin app.owner_id per transaction like the session store; only
// Leaderboard runs unpinned, because ranking across owners is its job.
type StreakStore struct {
	pool *pgxpool.Pool
}

// NewStreakStore constructs a StreakStore.
func NewStreakStore(pool *pgxpool.Pool) *StreakStore {
	return &StreakStore{pool: pool}
}

// Get returns the streak state for the key, or (nil, nil) when the owner
// has never logged the activity.
func (s *StreakStore) Get(ctx context.Context, ownerID, activity string) (*streak.State, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := setOwner(ctx, tx, ownerID); err != nil {
		return nil, err
	}

	const query = `SELECT streak, last_day FROM streaks WHERE owner_id=$1 AND activity=$2`

	var state streak.State
	err = tx.QueryRow(ctx, query, ownerID, activity).Scan(&state.Length, &state.LastDay)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, tx.Commit(ctx)
		}
		return nil, err
	}
	return &state, tx.Commit(ctx)
}

// Upsert writes the post-transition state for the key.
func (s *StreakStore) Upsert(ctx context.Context, ownerID, activity string, state streak.State) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	if err = setOwner(ctx, tx, ownerID); err != nil {
		return err
	}

	const stmt = `INSERT INTO streaks (owner_id, activity, streak, last_day)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (owner_id, activity)
        DO UPDATE SET streak = EXCLUDED.streak, last_day = EXCLUDED.last_day`

	if _, err = tx.Exec(ctx, stmt, ownerID, activity, state.Length, state.LastDay); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ListByOwner returns every streak the owner has ever tracked.
func (s *StreakStore) ListByOwner(ctx context.Context, ownerID string) ([]domain.StreakEntry, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := setOwner(ctx, tx, ownerID); err != nil {
		return nil, err
	}

	const query = `SELECT owner_id, activity, streak, last_day FROM streaks
        WHERE owner_id=$1 ORDER BY activity`

	rows, err := tx.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries, err := scanStreakEntries(rows)
	if err != nil {
		return nil, err
	}
	return entries, tx.Commit(ctx)
}

// Leaderboard returns the longest current streaks, descending. An activity
// filter narrows to one activity; a group filter restricts to owners with
// at least one session in that group. Reads are deliberately cross-owner:
// streaks carry no row policy, and group membership resolves through the
// group_members definer helper so the sessions policy stays intact.
func (s *StreakStore) Leaderboard(ctx context.Context, activity, groupID string, limit int) ([]domain.StreakEntry, error) {
	query := `SELECT owner_id, activity, streak, last_day FROM streaks WHERE 1=1`
	args := []interface{}{}

	if activity != "" {
		args = append(args, activity)
		query += ` AND activity=$1`
	}
	if groupID != "" {
		args = append(args, groupID)
		query += ` AND owner_id IN (SELECT group_members($` + strconv.Itoa(len(args)) + `))`
	}
	args = append(args, limit)
	query += ` ORDER BY streak DESC LIMIT $` + strconv.Itoa(len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanStreakEntries(rows)
}

func scanStreakEntries(rows pgx.Rows) ([]domain.StreakEntry, error) {
	var entries []domain.StreakEntry
	for rows.Next() {
		var entry domain.StreakEntry
		if err := rows.Scan(&entry.OwnerID, &entry.Activity, &entry.State.Length, &entry.State.LastDay); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
