package advisor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/smartadvisor/backend/pkg/contextengine"
	"github.com/smartadvisor/backend/pkg/llm"
)

// UseCase is the per-query orchestration surface.
type UseCase interface {
	Query(ctx context.Context, in QueryInput) (QueryOutput, error)
	History(ctx context.Context, sessionID string) (Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

type QueryInput struct {
	Query string
	// Context, when present, overrides the session context for this call.
	Context   contextengine.Context
	SessionID string
}

type QueryOutput struct {
	Response  string
	SessionID string
}

// Service coordinates one query end to end: resolve the session, bound the
// history, build the messages, call the provider, and commit the exchange.
// Persistence mutations happen only after the remote call succeeds, so a
// failed generation never leaves a user turn without its assistant reply.
type Service struct {
	sessions SessionRepository
	logs     LogRepository
	store    *contextengine.Store
	model    llm.Generator
	log      *logrus.Logger

	historyLimit    int
	persistOverride bool
	opts            llm.Options

	// Per-session serialization: concurrent queries against the same
	// session id would otherwise read-modify-write the message list
	// concurrently and lose turns.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(sessions SessionRepository, logs LogRepository, store *contextengine.Store, model llm.Generator, log *logrus.Logger, historyLimit int, persistOverride bool, opts llm.Options) *Service {
	if historyLimit <= 0 {
		historyLimit = 10
	}
	return &Service{
		sessions:        sessions,
		logs:            logs,
		store:           store,
		model:           model,
		log:             log,
		historyLimit:    historyLimit,
		persistOverride: persistOverride,
		opts:            opts,
		locks:           map[string]*sync.Mutex{},
	}
}

func (s *Service) Query(ctx context.Context, in QueryInput) (QueryOutput, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	sess, err := s.sessions.GetBySessionID(ctx, sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		// New sessions are seeded with the store's current context.
		sess, err = s.sessions.Create(ctx, Session{
			SessionID: sessionID,
			Context:   s.store.Get(),
			Messages:  []llm.Message{},
		})
	}
	if err != nil {
		return QueryOutput{}, err
	}

	history := sess.Messages
	if len(history) > s.historyLimit {
		history = history[len(history)-s.historyLimit:]
	}

	messages := contextengine.BuildChatMessages(in.Query, sess.Context, in.Context, history)

	reply, err := s.model.Generate(ctx, messages, s.opts)
	if err != nil {
		// Abort without touching history or the audit trail.
		return QueryOutput{}, err
	}

	sess.Messages = append(sess.Messages,
		llm.Message{Role: "user", Content: in.Query},
		llm.Message{Role: "assistant", Content: reply},
	)
	if len(in.Context) > 0 && s.persistOverride {
		s.store.Update(in.Context, true)
		sess.Context = contextengine.Merge(sess.Context, in.Context)
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return QueryOutput{}, err
	}

	used := in.Context
	if len(used) == 0 {
		used = sess.Context
	}
	if err := s.logs.Create(ctx, LogEntry{
		Timestamp:   time.Now().UTC(),
		UserQuery:   in.Query,
		ContextUsed: used,
		Response:    reply,
		SessionID:   sessionID,
	}); err != nil {
		return QueryOutput{}, err
	}

	s.log.WithFields(logrus.Fields{
		"session_id": sessionID,
		"provider":   s.model.Name(),
	}).Info("query processed")

	return QueryOutput{Response: reply, SessionID: sessionID}, nil
}

func (s *Service) History(ctx context.Context, sessionID string) (Session, error) {
	return s.sessions.GetBySessionID(ctx, sessionID)
}

func (s *Service) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	s.log.WithField("session_id", sessionID).Info("session deleted")
	return nil
}

func (s *Service) sessionLock(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[sessionID] = l
	}
	return l
}
