package api

import (
	"context"
	"errors"
	"sync"

	"lingotutor/transcript"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore owns one transcript writer per open conversation.
type SessionStore struct {
	dir       string
	queueSize int
	logger    *zap.Logger

	mu      sync.Mutex
	writers map[string]*transcript.Writer
}

func NewSessionStore(dir string, queueSize int, logger *zap.Logger) *SessionStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionStore{
		dir:       dir,
		queueSize: queueSize,
		logger:    logger,
		writers:   make(map[string]*transcript.Writer),
	}
}

// Open starts a session and returns its id and transcript path.
func (s *SessionStore) Open() (string, string, error) {
	w, err := transcript.NewWriter(s.dir, s.queueSize, s.logger)
	if err != nil {
		return "", "", err
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.writers[id] = w
	s.mu.Unlock()

	s.logger.Info("session opened", zap.String("session_id", id), zap.String("file", w.Path()))
	return id, w.Path(), nil
}

func (s *SessionStore) Add(ctx context.Context, id string, item transcript.Item) error {
	s.mu.Lock()
	w, ok := s.writers[id]
	s.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	return w.Add(ctx, item)
}

// Close drains and closes the session's transcript.
func (s *SessionStore) Close(id string) error {
	s.mu.Lock()
	w, ok := s.writers[id]
	delete(s.writers, id)
	s.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	return w.Close()
}

func (s *SessionStore) CloseAll() {
	s.mu.Lock()
	writers := s.writers
	s.writers = make(map[string]*transcript.Writer)
	s.mu.Unlock()

	for id, w := range writers {
		if err := w.Close(); err != nil {
			s.logger.Error("failed to close transcript", zap.String("session_id", id), zap.Error(err))
		}
	}
}
