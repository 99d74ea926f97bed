// Package history keeps an audit log of column family modifications
// submitted to the admin API.
//
// Every modification in a call becomes one Entry sharing the call's
// operation id. Entries are written whether the call succeeded or not;
// Status tells which.
//
// Two backends implement Store: SQLiteStore (modernc.org/sqlite, no cgo)
// for the CLI and daemon, and MemoryStore for tests.
package history
