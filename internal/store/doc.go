// ABOUTME: Package store owns the shelter SQLite database
// ABOUTME: Animal and adoption request CRUD, filtering, and the activity log

// Package store persists shelter records to an embedded SQLite database.
//
// The store owns schema creation (idempotent on open) and exposes typed
// CRUD for animals and adoption requests plus a small activity log.
// "Not found" is reported through nil/false return values, never as an
// error; hard failures are wrapped with operation context.
package store
