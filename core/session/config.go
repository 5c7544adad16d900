package session

import (
	"fmt"
	"log/slog"
	"time"
)

// Config holds session store settings loaded from the environment.
type Config struct {
	Backend    string `env:"SESSION_BACKEND" envDefault:"file"`
	FilePath   string `env:"SESSION_FILE" envDefault:"session.json"`
	KeyRetries int    `env:"SESSION_KEY_RETRIES" envDefault:"5"`
}

// BackendFromConfig builds the backends implemented in this package.
// Other names return ErrUnknownBackend so callers can try their own.
func BackendFromConfig(cfg Config) (Backend, error) {
	switch cfg.Backend {
	case "memory":
		return NewMemoryBackend(), nil
	case "file", "":
		return NewFileBackend(cfg.FilePath), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, cfg.Backend)
	}
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for save failures and recovered snapshots.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithOnSave registers a callback invoked after every snapshot write.
func WithOnSave(fn func(elapsed time.Duration, err error)) Option {
	return func(s *Store) {
		s.onSave = fn
	}
}

// WithKeyRetries sets how many candidates GenerateKey tries before giving up.
func WithKeyRetries(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.keyRetries = n
		}
	}
}

// WithConfig applies Config values.
func WithConfig(cfg Config) Option {
	return WithKeyRetries(cfg.KeyRetries)
}
