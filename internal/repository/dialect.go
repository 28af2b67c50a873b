package repository

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Dialect captures what differs between the supported SQL drivers.
type Dialect struct {
	Driver string

	sqlite         bool
	numberedParams bool
	returningID    bool
	schema         string
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS tasks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title VARCHAR(255) NOT NULL,
    description VARCHAR(1000) NOT NULL,
    completed BOOLEAN NOT NULL DEFAULT 0,
    due_date DATETIME,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS tasks (
    id INTEGER GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    title VARCHAR(255) NOT NULL,
    description VARCHAR(1000) NOT NULL,
    completed BOOLEAN NOT NULL DEFAULT FALSE,
    due_date TIMESTAMP,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);`

const mysqlSchema = `
CREATE TABLE IF NOT EXISTS tasks (
    id BIGINT AUTO_INCREMENT PRIMARY KEY,
    title VARCHAR(255) NOT NULL,
    description VARCHAR(1000) NOT NULL,
    completed BOOLEAN NOT NULL DEFAULT FALSE,
    due_date DATETIME(6) NULL,
    created_at DATETIME(6) NOT NULL,
    updated_at DATETIME(6) NOT NULL
);`

var dialects = map[string]Dialect{
	"sqlite":   {Driver: "sqlite", sqlite: true, schema: sqliteSchema},
	"postgres": {Driver: "postgres", numberedParams: true, returningID: true, schema: postgresSchema},
	"pgx":      {Driver: "pgx", numberedParams: true, returningID: true, schema: postgresSchema},
	"mysql":    {Driver: "mysql", schema: mysqlSchema},
}

func DialectFor(driver string) (Dialect, error) {
	d, ok := dialects[driver]
	if !ok {
		return Dialect{}, fmt.Errorf("unsupported database driver %q (available: %s)", driver, strings.Join(Drivers(), ", "))
	}
	return d, nil
}

// Drivers lists the driver names DialectFor accepts.
func Drivers() []string {
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (d Dialect) IsSQLite() bool {
	return d.sqlite
}

// Rebind rewrites ? placeholders to $1, $2, ... for drivers that need it.
func (d Dialect) Rebind(query string) string {
	if !d.numberedParams {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
