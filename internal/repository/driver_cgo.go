//go:build cgo

package repository

import (
	_ "github.com/mattn/go-sqlite3"
)

func init() {
	dialects["sqlite3"] = Dialect{Driver: "sqlite3", sqlite: true, schema: sqliteSchema}
}
