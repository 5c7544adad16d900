package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/pagekit/core/logger"
	"github.com/dmitrymomot/pagekit/core/session"
	"github.com/dmitrymomot/pagekit/integration/database/mongo"
	"github.com/dmitrymomot/pagekit/integration/database/pg"
	"github.com/dmitrymomot/pagekit/integration/database/redis"
	"github.com/dmitrymomot/pagekit/integration/storage/s3"
)

// storage is the opened session backend plus its readiness checks and cleanup.
type storage struct {
	backend session.Backend
	checks  []func(context.Context) error
	close   func()
}

func openStorage(ctx context.Context, cfg Config, log *slog.Logger) (*storage, error) {
	backend, err := session.BackendFromConfig(cfg.Session)
	if err == nil {
		st := &storage{backend: backend, close: func() {}}
		if p, ok := backend.(session.Pinger); ok {
			st.checks = append(st.checks, p.Ping)
		}
		return st, nil
	}
	if !errors.Is(err, session.ErrUnknownBackend) {
		return nil, err
	}

	switch cfg.Session.Backend {
	case "redis":
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return &storage{
			backend: redis.NewSessionBackend(client, cfg.Redis.SessionKey),
			checks:  []func(context.Context) error{redis.Healthcheck(client)},
			close:   func() { _ = client.Close() },
		}, nil

	case "postgres", "pg":
		pool, err := pg.Connect(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		if err := pg.Migrate(ctx, pool, cfg.Postgres, log.With(logger.Component("migration"))); err != nil {
			pool.Close()
			return nil, err
		}
		return &storage{
			backend: pg.NewSessionBackend(pool, cfg.Postgres.SessionID),
			checks:  []func(context.Context) error{pg.Healthcheck(pool)},
			close:   pool.Close,
		}, nil

	case "mongo", "mongodb":
		client, err := mongo.Connect(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		coll := client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)
		return &storage{
			backend: mongo.NewSessionBackend(coll, cfg.Mongo.SessionID),
			checks:  []func(context.Context) error{mongo.Healthcheck(client)},
			close:   func() { _ = client.Disconnect(context.Background()) },
		}, nil

	case "s3":
		client, err := s3.NewClient(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		backend := s3.NewSessionBackend(client, cfg.S3.Bucket, cfg.S3.SessionKey)
		return &storage{
			backend: backend,
			checks:  []func(context.Context) error{backend.Ping},
			close:   func() {},
		}, nil
	}

	return nil, fmt.Errorf("%w: %s", session.ErrUnknownBackend, cfg.Session.Backend)
}
