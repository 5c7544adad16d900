package main

import (
	"github.com/dmitrymomot/pagekit/core/cookie"
	"github.com/dmitrymomot/pagekit/core/dispatch"
	"github.com/dmitrymomot/pagekit/core/server"
	"github.com/dmitrymomot/pagekit/core/session"
	"github.com/dmitrymomot/pagekit/integration/database/mongo"
	"github.com/dmitrymomot/pagekit/integration/database/pg"
	"github.com/dmitrymomot/pagekit/integration/database/redis"
	"github.com/dmitrymomot/pagekit/integration/storage/s3"
)

type Config struct {
	AppName   string `env:"APP_NAME" envDefault:"pagekit"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogJSON   bool   `env:"LOG_JSON" envDefault:"false"`
	BodyLimit int64  `env:"HTTP_BODY_LIMIT" envDefault:"33554432"`
	// MetricsNamespace prefixes every exported series.
	MetricsNamespace string `env:"METRICS_NAMESPACE" envDefault:"pagekit"`

	Server   server.Config
	Session  session.Config
	Cookie   cookie.Config
	Dispatch dispatch.Config
	Redis    redis.Config
	Postgres pg.Config
	Mongo    mongo.Config
	S3       s3.Config
}
