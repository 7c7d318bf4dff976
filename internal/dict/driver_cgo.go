//go:build cgo_sqlite

// Build with: go build -tags cgo_sqlite (requires CGO_ENABLED=1).
package dict

import (
	_ "github.com/mattn/go-sqlite3" // CGO SQLite driver
)

const sqliteDriver = "sqlite3"
