// Package repositories implements SQL persistence for compositions.
//
// A single table holds every composition. How a row acquires its id is decided by a [models.Strategy]:
//   - code : the caller chooses an opaque code; saves upsert on that code and keep the original created_at
//   - sequential : the backing engine assigns increasing integers that are never reused, even after deletes
//
// Key Implementations:
//   - [CompositionRepository] : Upsert, insert, point-read, list projection, and hard delete
//   - [Bootstrap] : Idempotent schema guard that must succeed before any request is served
//
// Statements are written once with "?" placeholders and rebound per [shared.Dialect], so the same
// repository runs on sqlite (cgo or pure Go drivers) and Postgres.
// Each operation is exactly one statement: isolation, last-writer-wins on concurrent upserts,
// and unique id assignment under concurrent inserts are the backing engine's guarantees.
package repositories
