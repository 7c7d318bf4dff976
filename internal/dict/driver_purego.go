//go:build !cgo_sqlite

package dict

import (
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)
)

const sqliteDriver = "sqlite"
