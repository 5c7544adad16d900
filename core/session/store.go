package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/dmitrymomot/pagekit/core/logger"
)

const (
	keyEntropy   = 32
	maxKeyLength = 128
)

// Store holds all sessions and persists them through a Backend.
type Store struct {
	mu         sync.RWMutex
	backend    Backend
	sessions   map[string]*Session
	logger     *slog.Logger
	onSave     func(time.Duration, error)
	keyRetries int
	entropy    io.Reader
}

// NewStore creates a store and restores the snapshot held by backend.
func NewStore(ctx context.Context, backend Backend, opts ...Option) (*Store, error) {
	s := &Store{
		backend:    backend,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		keyRetries: 5,
		entropy:    rand.Reader,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Backend returns the backend the store persists to.
func (s *Store) Backend() Backend {
	return s.backend
}

// Reload replaces the in-memory sessions with the backend snapshot.
func (s *Store) Reload(ctx context.Context) error {
	data, err := s.backend.Load(ctx)
	if err != nil {
		return errors.Join(ErrDatastore, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := decodeSnapshot(data, s)
	if err != nil {
		return errors.Join(ErrDatastore, err)
	}
	s.sessions = sessions

	s.logger.DebugContext(ctx, "session snapshot restored",
		logger.Component("session"),
		slog.Int("sessions", len(sessions)),
	)
	return nil
}

// Load returns the session for key, creating and persisting it when absent.
// If persisting a new session fails, the session is returned along with the error.
func (s *Store) Load(ctx context.Context, key string) (*Session, error) {
	if !ValidKey(key) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	s.mu.RLock()
	sess, ok := s.sessions[key]
	s.mu.RUnlock()
	if ok {
		return sess, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[key]; ok {
		return sess, nil
	}
	sess = newSession(s, key)
	s.sessions[key] = sess

	if err := s.saveLocked(ctx); err != nil {
		return sess, err
	}
	return sess, nil
}

// Destroy removes the session and persists the store.
func (s *Store) Destroy(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[key]; !ok {
		return ErrNotFound
	}
	delete(s.sessions, key)
	return s.saveLocked(ctx)
}

// Keys returns every session key in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.sessions))
}

// Len returns the number of sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// GenerateKey returns a fresh key not used by any existing session.
func (s *Store) GenerateKey() (string, error) {
	for range s.keyRetries {
		key, err := s.candidateKey()
		if err != nil {
			return "", errors.Join(ErrKeyGeneration, err)
		}

		s.mu.RLock()
		_, taken := s.sessions[key]
		s.mu.RUnlock()
		if !taken {
			return key, nil
		}
	}
	return "", fmt.Errorf("%w: %d candidates collided", ErrKeyGeneration, s.keyRetries)
}

func (s *Store) candidateKey() (string, error) {
	seed := make([]byte, keyEntropy+8)
	if _, err := io.ReadFull(s.entropy, seed[:keyEntropy]); err != nil {
		return "", err
	}
	binary.BigEndian.PutUint64(seed[keyEntropy:], uint64(time.Now().UnixNano()))

	sum := blake2b.Sum256(seed)
	return base64.RawURLEncoding.EncodeToString(sum[:]), nil
}

// ValidKey reports whether key is safe to use as a session key.
// Keys are base64url strings of bounded length.
func ValidKey(key string) bool {
	if key == "" || len(key) > maxKeyLength {
		return false
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}

// saveLocked writes the snapshot. The caller holds s.mu for writing.
func (s *Store) saveLocked(ctx context.Context) error {
	start := time.Now()

	data, err := encodeSnapshot(s.sessions)
	if err == nil {
		err = s.backend.Save(ctx, data)
	}

	if s.onSave != nil {
		s.onSave(time.Since(start), err)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to save session snapshot",
			logger.Component("session"),
			logger.Error(err),
		)
		return errors.Join(ErrDatastore, err)
	}
	return nil
}
