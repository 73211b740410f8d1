// Package store provides a persistent entity store on top of a plain key/value service.
//
// Each [EntityStore] keeps one entity type as a single JSON array under a
// collection key, and the last issued identifier under a separate counter key.
// The key/value service is injected through the [KV] interface, so the same
// store runs against browser-style local storage, Redis, DynamoDB, SQLite or
// Postgres (see the kv/ packages).
//
// # Key Features
//
//   - Lazy, once-only restore of the ID counter on first use ([InitGate])
//   - Strictly increasing integer IDs that survive restarts ([IDAllocator])
//   - Whole-collection JSON persistence with corruption recovery ([Collection])
//   - Synchronous change notification after every mutation ([Notifier])
//
// # Entity Interface
//
// All stored types implement [Entity]:
//
//	type Entity interface {
//	    GetID() int
//	}
//
// # Persistence Model
//
// Every mutation loads the full collection, changes an in-memory copy and
// writes the whole array back (last writer wins). The collection write and the
// counter write are independent; a failure between them leaves the two keys
// eventually rather than transactionally consistent.
//
// Two concurrent Create calls against the same store may both read the same
// base collection; the second save then drops the first record while its ID
// stays consumed. Callers that need stronger guarantees must serialize
// mutations themselves.
//
// # Errors
//
//   - [ErrStorageUnavailable] - the key/value service failed a read or write
//   - [ErrCounterNotPersisted] - a created record was stored but the ID counter was not
//   - [ErrIDMismatch] - a stamp function returned a record without the allocated ID
//   - [ErrInvalidConfig] - missing or malformed keys in [Config]
//
// Absence is never an error: Get reports it with a boolean, Update with a
// false result and no write. A collection that cannot be decoded is treated as
// empty and reported as [LoadCorrupted] by [EntityStore.Snapshot].
package store
