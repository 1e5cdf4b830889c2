package advisor

import (
	"time"

	"github.com/google/uuid"

	"github.com/smartadvisor/backend/pkg/contextengine"
	"github.com/smartadvisor/backend/pkg/llm"
)

// Session is a persisted conversation: a business-context snapshot plus the
// ordered message history. Sessions are created on first query and removed
// only by an explicit delete.
type Session struct {
	ID        uuid.UUID             `json:"-"`
	SessionID string                `json:"session_id"`
	Context   contextengine.Context `json:"context"`
	Messages  []llm.Message         `json:"messages"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// LogEntry is one append-only audit record per processed query. Rows are
// never updated or deleted by this service.
type LogEntry struct {
	ID          uuid.UUID
	Timestamp   time.Time
	UserQuery   string
	ContextUsed contextengine.Context
	Response    string
	SessionID   string
}
