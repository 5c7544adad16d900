// Package session keeps per-client key/value state and persists it as one snapshot.
//
// A Store holds every session in memory and writes the whole set to a Backend after
// each mutation. Only fields marked persistent with Remember are written; fields
// restored from a snapshot come back persistent. Sessions are created lazily on first
// Load and live until Destroy.
//
//	store, err := session.NewStore(ctx, session.NewFileBackend("session.json"))
//	if err != nil {
//		return err
//	}
//
//	key, err := store.GenerateKey()
//	sess, err := store.Load(ctx, key)
//
//	if err := sess.Set(ctx, "user", "ann"); err != nil {
//		return err // wraps ErrDatastore
//	}
//	if err := sess.Remember(ctx, "user"); err != nil {
//		return err
//	}
//
// All mutations are serialized by one store-wide lock so the snapshot on the backend
// always reflects a consistent state. A failed save leaves the in-memory change in
// place and reports an error wrapping ErrDatastore.
//
// # Backends
//
// MemoryBackend and FileBackend live here. Redis, PostgreSQL, MongoDB and S3 backends
// live under integration/. A backend stores opaque bytes; the snapshot format is a
// versioned JSON document, so values must be JSON encodable and numbers are restored
// as float64.
//
// # Deferred messages
//
// Defer queues an HTML fragment on the session and TakeDeferred drains it, so a page
// rendered after a redirect can show what the previous request wanted to say.
package session
