package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/traininglog/internal/domain"
	"example.com/traininglog/internal/outbox"
)

// GoalStore persists per-(owner, activity, period) session targets.
type GoalStore struct {
	pool *pgxpool.Pool
}

// NewGoalStore constructs a GoalStore.
func NewGoalStore(pool *pgxpool.Pool) *GoalStore {
	return &GoalStore{pool: pool}
}

// Upsert creates or overwrites the goal for its key and records a
// goal.updated outbox event in the same transaction.
func (g *GoalStore) Upsert(ctx context.Context, goal domain.Goal) error {
	tx, err := g.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	if err = setOwner(ctx, tx, goal.OwnerID); err != nil {
		return err
	}

	const stmt = `INSERT INTO goals (owner_id, activity, target_sessions, period)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (owner_id, activity, period)
        DO UPDATE SET target_sessions = EXCLUDED.target_sessions`

	if _, err = tx.Exec(ctx, stmt, goal.OwnerID, goal.Activity, goal.TargetSessions, string(goal.Period)); err != nil {
		return err
	}

	if err = insertOutbox(ctx, tx, goal.OwnerID, goal.OwnerID+":"+goal.Activity, outbox.EventGoalUpdated, outbox.GoalUpdated{
		OwnerID:        goal.OwnerID,
		Activity:       goal.Activity,
		TargetSessions: goal.TargetSessions,
		Period:         string(goal.Period),
	}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ListByPeriod lists the owner's goals keyed on the exact period.
func (g *GoalStore) ListByPeriod(ctx context.Context, ownerID string, period domain.Period) ([]domain.Goal, error) {
	tx, err := g.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := setOwner(ctx, tx, ownerID); err != nil {
		return nil, err
	}

	const query = `SELECT owner_id, activity, target_sessions, period FROM goals
        WHERE owner_id=$1 AND period=$2 ORDER BY activity`

	rows, err := tx.Query(ctx, query, ownerID, string(period))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []domain.Goal
	for rows.Next() {
		var goal domain.Goal
		var periodValue string
		if err := rows.Scan(&goal.OwnerID, &goal.Activity, &goal.TargetSessions, &periodValue); err != nil {
			return nil, err
		}
		goal.Period = domain.Period(periodValue)
		goals = append(goals, goal)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return goals, tx.Commit(ctx)
}

// Delete removes the goal for its key. The boolean reports whether a row
// existed.
func (g *GoalStore) Delete(ctx context.Context, ownerID, activity string, period domain.Period) (bool, error) {
	tx, err := g.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	if err = setOwner(ctx, tx, ownerID); err != nil {
		return false, err
	}

	const stmt = `DELETE FROM goals WHERE owner_id=$1 AND activity=$2 AND period=$3`

	tag, err := tx.Exec(ctx, stmt, ownerID, activity, string(period))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, tx.Commit(ctx)
}
