package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smartadvisor/backend/pkg/advisor"
	"github.com/smartadvisor/backend/pkg/contextengine"
	"github.com/smartadvisor/backend/pkg/llm"
)

// SessionRepository stores conversation sessions with their context snapshot
// and message history as JSONB.
type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) (*SessionRepository, error) {
	r := &SessionRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *SessionRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS conversation_sessions (
	id UUID PRIMARY KEY,
	session_id TEXT NOT NULL UNIQUE,
	context JSONB,
	messages JSONB,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_conversation_sessions_session ON conversation_sessions(session_id);
`)
	return err
}

func (r *SessionRepository) GetBySessionID(ctx context.Context, sessionID string) (advisor.Session, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, session_id, context, messages, created_at, updated_at
FROM conversation_sessions WHERE session_id = $1
`, sessionID)
	var s advisor.Session
	var ctxJSON, msgJSON []byte
	var created, updated time.Time
	if err := row.Scan(&s.ID, &s.SessionID, &ctxJSON, &msgJSON, &created, &updated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return advisor.Session{}, advisor.ErrSessionNotFound
		}
		return advisor.Session{}, err
	}
	s.CreatedAt = created.UTC()
	s.UpdatedAt = updated.UTC()
	if len(ctxJSON) > 0 {
		if err := json.Unmarshal(ctxJSON, &s.Context); err != nil {
			return advisor.Session{}, err
		}
	}
	if len(msgJSON) > 0 {
		if err := json.Unmarshal(msgJSON, &s.Messages); err != nil {
			return advisor.Session{}, err
		}
	}
	if s.Context == nil {
		s.Context = contextengine.Context{}
	}
	if s.Messages == nil {
		s.Messages = []llm.Message{}
	}
	return s, nil
}

func (r *SessionRepository) Create(ctx context.Context, s advisor.Session) (advisor.Session, error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now

	ctxJSON, msgJSON, err := marshalSession(s)
	if err != nil {
		return advisor.Session{}, err
	}
	_, err = r.pool.Exec(ctx, `
INSERT INTO conversation_sessions (id, session_id, context, messages, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
`, s.ID, s.SessionID, ctxJSON, msgJSON, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return advisor.Session{}, err
	}
	return s, nil
}

func (r *SessionRepository) Save(ctx context.Context, s advisor.Session) error {
	ctxJSON, msgJSON, err := marshalSession(s)
	if err != nil {
		return err
	}
	cmd, err := r.pool.Exec(ctx, `
UPDATE conversation_sessions SET context = $2, messages = $3, updated_at = $4
WHERE session_id = $1
`, s.SessionID, ctxJSON, msgJSON, time.Now().UTC())
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return advisor.ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM conversation_sessions WHERE session_id = $1`, sessionID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return advisor.ErrSessionNotFound
	}
	return nil
}

func marshalSession(s advisor.Session) (ctxJSON, msgJSON []byte, err error) {
	if ctxJSON, err = json.Marshal(s.Context); err != nil {
		return nil, nil, err
	}
	if s.Messages == nil {
		s.Messages = []llm.Message{}
	}
	if msgJSON, err = json.Marshal(s.Messages); err != nil {
		return nil, nil, err
	}
	return ctxJSON, msgJSON, nil
}
