package advisor

import (
	"context"
	"errors"
)

// ErrSessionNotFound is returned for lookups of unknown session ids.
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository persists conversation sessions.
type SessionRepository interface {
	GetBySessionID(ctx context.Context, sessionID string) (Session, error)
	Create(ctx context.Context, s Session) (Session, error)
	Save(ctx context.Context, s Session) error
	Delete(ctx context.Context, sessionID string) error
}

// LogRepository appends audit records. Write-only from the orchestrator's
// perspective.
type LogRepository interface {
	Create(ctx context.Context, e LogEntry) error
}
