// Package store provides SQLite-backed slot storage for habit data.
//
// A Store implements kv.Port over a single table:
//
//	slots(key TEXT PRIMARY KEY, value TEXT NOT NULL, updated_at INTEGER NOT NULL)
//
// Each Set is a single UPSERT statement, so a slot is always replaced as a
// whole. updated_at holds Unix milliseconds of the last write and is
// informational only; reads never depend on it.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Schema changes are tracked with PRAGMA user_version.
package store
