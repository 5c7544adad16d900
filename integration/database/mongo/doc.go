// Package mongo connects to MongoDB with startup retries and stores the session
// snapshot in a single document.
//
//	var cfg mongo.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//	client, err := mongo.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Disconnect(context.Background())
//
//	coll := client.Database(cfg.Database).Collection(cfg.Collection)
//	store, err := session.NewStore(ctx, mongo.NewSessionBackend(coll, cfg.SessionID))
//
// Environment variables:
//
//	MONGODB_URL                 (required)
//	MONGODB_CONNECT_TIMEOUT     (default: 10s)
//	MONGODB_MAX_POOL_SIZE       (default: 100)
//	MONGODB_MIN_POOL_SIZE       (default: 1)
//	MONGODB_MAX_CONN_IDLE_TIME  (default: 300s)
//	MONGODB_RETRY_WRITES        (default: true)
//	MONGODB_RETRY_READS         (default: true)
//	MONGODB_RETRY_ATTEMPTS      (default: 3)
//	MONGODB_RETRY_INTERVAL      (default: 5s)
//	MONGODB_DATABASE            (default: pagekit)
//	MONGODB_COLLECTION          (default: sessions)
//	MONGODB_SESSION_ID          (default: default)
//
// Healthcheck returns a func(context.Context) error usable as a readiness check.
package mongo
