// Package repositories persists sync state and import history.
//
// Two interchangeable sync state stores implement Load/Save over a [models.SyncState]:
//   - [FileStateStore] : a JSON document, overwritten atomically on every save
//   - [SQLiteStateStore] : the sync_state and resolved_tracks tables
//
// Both back-fill missing fields on load and treat a missing state as an empty default.
// The file store also treats an unparsable document as empty, after moving it aside.
//
// [RunRepository] records a summary row per import run in import_runs.
package repositories
