package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/capitalize-ai/travel-concierge/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS conversations (
	id          TEXT PRIMARY KEY,
	session_id  TEXT NOT NULL,
	user_id     TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL,
	metadata    JSONB NOT NULL,
	messages    JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS conversations_updated_at_idx ON conversations (updated_at DESC);
CREATE INDEX IF NOT EXISTS conversations_user_idx ON conversations (user_id, updated_at DESC);
`

// PostgresStore persists conversations in a single table with the message
// list stored as JSONB.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to databaseURL and ensures the schema exists.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) Save(ctx context.Context, c *model.ConversationState) error {
	c.SyncCount()
	meta, err := json.Marshal(c.Metadata)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	msgs, err := json.Marshal(c.Messages)
	if err != nil {
		return fmt.Errorf("encode messages: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO conversations (id, session_id, user_id, status, metadata, messages, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			session_id = EXCLUDED.session_id,
			user_id    = EXCLUDED.user_id,
			status     = EXCLUDED.status,
			metadata   = EXCLUDED.metadata,
			messages   = EXCLUDED.messages,
			updated_at = EXCLUDED.updated_at`,
		c.ID, c.SessionID, c.UserID, string(c.Status), meta, msgs, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert conversation %s: %w", c.ID, err)
	}
	return nil
}

const selectColumns = `SELECT id, session_id, user_id, status, metadata, messages, created_at, updated_at FROM conversations`

func (s *PostgresStore) List(ctx context.Context, limit int) ([]model.ConversationState, error) {
	return s.Find(ctx, Query{Limit: limit})
}

func (s *PostgresStore) Find(ctx context.Context, q Query) ([]model.ConversationState, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if q.UserID != "" {
		add("user_id = $%d", q.UserID)
	}
	if q.Status != "" {
		add("status = $%d", string(q.Status))
	}
	if !q.UpdatedBefore.IsZero() {
		add("updated_at < $%d", q.UpdatedBefore)
	}

	sql := selectColumns
	if len(where) > 0 {
		sql += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, listLimit(q.Limit))
	sql += fmt.Sprintf(" ORDER BY updated_at DESC, id LIMIT $%d", len(args))

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query conversations: %w", err)
	}
	defer rows.Close()

	convs := []model.ConversationState{}
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		convs = append(convs, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversations: %w", err)
	}
	return convs, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*model.ConversationState, error) {
	c, err := scanConversation(s.pool.QueryRow(ctx, selectColumns+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM conversations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete conversation %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanConversation(row pgx.Row) (*model.ConversationState, error) {
	var (
		c          model.ConversationState
		status     string
		meta, msgs []byte
	)
	err := row.Scan(&c.ID, &c.SessionID, &c.UserID, &status, &meta, &msgs, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan conversation: %w", err)
	}
	c.Status = model.Status(status)
	if err := json.Unmarshal(meta, &c.Metadata); err != nil {
		return nil, fmt.Errorf("decode metadata %s: %w", c.ID, err)
	}
	if err := json.Unmarshal(msgs, &c.Messages); err != nil {
		return nil, fmt.Errorf("decode messages %s: %w", c.ID, err)
	}
	return &c, nil
}

// Truncate removes every conversation. Used by integration tests.
func (s *PostgresStore) Truncate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `TRUNCATE conversations`); err != nil {
		return fmt.Errorf("truncate conversations: %w", err)
	}
	return nil
}
