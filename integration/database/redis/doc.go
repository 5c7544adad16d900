// Package redis connects to Redis and stores the session snapshot under one key.
//
//	cfg := redis.Config{ConnectionURL: "redis://localhost:6379/0"}
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	store, err := session.NewStore(ctx, redis.NewSessionBackend(client, cfg.SessionKey))
//	readiness := health.Readiness(log, redis.Healthcheck(client))
//
// Connect validates the URL, then pings with exponential backoff until Redis
// answers, RetryAttempts is exhausted or ConnectTimeout passes. Both redis:// and
// rediss:// (TLS) URLs are accepted.
//
// Errors can be checked with errors.Is:
//
//   - ErrEmptyConnectionURL: no URL configured
//   - ErrFailedToParseRedisConnString: malformed URL
//   - ErrRedisNotReady: no successful ping within the retry budget
//   - ErrHealthcheckFailed: ping failed during a health check
package redis
