// Package sqlite persists pipeline run history in a local SQLite
// database with embedded schema migrations.
package sqlite
