package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smartadvisor/backend/pkg/advisor"
)

// LogRepository appends conversation audit records. Rows are write-only for
// the service; they are read out-of-band for audit.
type LogRepository struct {
	pool *pgxpool.Pool
}

func NewLogRepository(pool *pgxpool.Pool) (*LogRepository, error) {
	r := &LogRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *LogRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS conversation_logs (
	id UUID PRIMARY KEY,
	ts TIMESTAMPTZ NOT NULL,
	user_query TEXT NOT NULL,
	context_used JSONB,
	response TEXT NOT NULL,
	session_id TEXT
);
CREATE INDEX IF NOT EXISTS idx_conversation_logs_ts ON conversation_logs(ts);
CREATE INDEX IF NOT EXISTS idx_conversation_logs_session ON conversation_logs(session_id);
`)
	return err
}

func (r *LogRepository) Create(ctx context.Context, e advisor.LogEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	ctxJSON, err := json.Marshal(e.ContextUsed)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
INSERT INTO conversation_logs (id, ts, user_query, context_used, response, session_id)
VALUES ($1, $2, $3, $4, $5, $6)
`, e.ID, e.Timestamp, e.UserQuery, ctxJSON, e.Response, e.SessionID)
	return err
}
