// Package postgres provides pgx-backed persistence for sessions, streaks,
// and goals. Every transaction pins the caller's owner id via set_config so
// row-level security policies can scope access.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/traininglog/internal/domain"
	"example.com/traininglog/internal/observability"
	"example.com/traininglog/internal/outbox"
)

const sessionColumns = `session_id, owner_id, group_id, activity, sequence_number, title, description, tags, platform, duration, occurred_at, created_at, updated_at`

// SessionStore persists sessions and records outbox events alongside them.
type SessionStore struct {
	pool *pgxpool.Pool
}

// NewSessionStore constructs a SessionStore.
func NewSessionStore(pool *pgxpool.Pool) *SessionStore {
	return &SessionStore{pool: pool}
}

func setOwner(ctx context.Context, tx pgx.Tx, ownerID string) error {
	_, err := tx.Exec(ctx, "SELECT set_config('app.owner_id', $1, true)", ownerID)
	return err
}

// Insert persists the session and a session.logged outbox event in one
// transaction.
func (s *SessionStore) Insert(ctx context.Context, session domain.Session) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	if err = setOwner(ctx, tx, session.OwnerID); err != nil {
		return err
	}

	const stmt = `INSERT INTO sessions (` + sessionColumns + `)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`

	_, err = tx.Exec(ctx, stmt,
		session.ID,
		session.OwnerID,
		session.GroupID,
		session.Activity,
		session.Sequence,
		session.Title,
		session.Description,
		strings.Join(session.Tags, ","),
		session.Platform,
		session.Duration.Raw,
		session.OccurredAt,
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if err = insertOutbox(ctx, tx, session.OwnerID, session.ID, outbox.EventSessionLogged, outbox.SessionLogged{
		SessionID:  session.ID,
		OwnerID:    session.OwnerID,
		GroupID:    session.GroupID,
		Activity:   session.Activity,
		Sequence:   session.Sequence,
		OccurredAt: session.OccurredAt,
	}); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return err
	}
	observability.RecordSessionLogged(session.Activity, session.CreatedAt)
	return nil
}

// Count returns the number of sessions already stored for the key, used to
// assign the next sequence number.
func (s *SessionStore) Count(ctx context.Context, ownerID, groupID, activity string) (int, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	if err := setOwner(ctx, tx, ownerID); err != nil {
		return 0, err
	}

	var count int
	const query = `SELECT COUNT(*) FROM sessions WHERE owner_id=$1 AND group_id=$2 AND activity=$3`
	if err := tx.QueryRow(ctx, query, ownerID, groupID, activity).Scan(&count); err != nil {
		return 0, err
	}
	return count, tx.Commit(ctx)
}

// ListByOwner returns the owner's sessions, newest first. An empty groupID
// lists across all groups.
func (s *SessionStore) ListByOwner(ctx context.Context, ownerID, groupID string) ([]domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE owner_id=$1`
	args := []interface{}{ownerID}
	if groupID != "" {
		query += ` AND group_id=$2`
		args = append(args, groupID)
	}
	query += ` ORDER BY occurred_at DESC, sequence_number DESC`

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := setOwner(ctx, tx, ownerID); err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, tx.Commit(ctx)
}

// FindBySequence locates one session by its natural key beyond the id.
// Returns (nil, nil) when absent.
func (s *SessionStore) FindBySequence(ctx context.Context, ownerID, groupID, activity string, sequence int) (*domain.Session, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := setOwner(ctx, tx, ownerID); err != nil {
		return nil, err
	}

	const query = `SELECT ` + sessionColumns + ` FROM sessions
        WHERE owner_id=$1 AND group_id=$2 AND activity=$3 AND sequence_number=$4`

	session, err := scanSession(tx.QueryRow(ctx, query, ownerID, groupID, activity, sequence))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, tx.Commit(ctx)
		}
		return nil, err
	}
	return &session, tx.Commit(ctx)
}

// Update rewrites the mutable columns of an existing session.
func (s *SessionStore) Update(ctx context.Context, session domain.Session) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	if err = setOwner(ctx, tx, session.OwnerID); err != nil {
		return err
	}

	const stmt = `UPDATE sessions SET
        activity=$1, title=$2, description=$3, tags=$4, platform=$5, duration=$6, updated_at=$7
        WHERE session_id=$8`

	tag, err := tx.Exec(ctx, stmt,
		session.Activity,
		session.Title,
		session.Description,
		strings.Join(session.Tags, ","),
		session.Platform,
		session.Duration.Raw,
		session.UpdatedAt,
		session.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		err = domain.ErrSessionNotFound
		return err
	}
	return tx.Commit(ctx)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (domain.Session, error) {
	var (
		session  domain.Session
		tags     string
		duration string
	)
	err := row.Scan(
		&session.ID,
		&session.OwnerID,
		&session.GroupID,
		&session.Activity,
		&session.Sequence,
		&session.Title,
		&session.Description,
		&tags,
		&session.Platform,
		&duration,
		&session.OccurredAt,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return domain.Session{}, err
	}
	session.Tags = domain.ParseTags(tags)
	session.Duration = domain.ParseDuration(duration)
	return session, nil
}

func insertOutbox(ctx context.Context, tx pgx.Tx, ownerID, aggregateID, eventType string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	topic, ok := outbox.TopicFor(eventType)
	if !ok {
		return fmt.Errorf("unknown event type: %s", eventType)
	}

	const stmt = `INSERT INTO outbox (owner_id, aggregate_id, event_type, topic, partition_key, payload, dedupe_key)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`

	dedupeKey := fmt.Sprintf("%s:%s:%d", aggregateID, eventType, time.Now().UnixNano())
	_, err = tx.Exec(ctx, stmt, ownerID, aggregateID, eventType, topic, ownerID, body, dedupeKey)
	return err
}
