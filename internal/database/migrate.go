package database

import (
	"context"
	"database/sql"
	_ "embed"
	"strings"

	"github.com/iliyamo/cinema-boxoffice/internal/errs"
)

//go:embed schema.sql
var schema string

// Migrate creates the box office tables if they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range Statements() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return errs.Wrapf(err, "migrate: %.40s", stmt)
		}
	}
	return nil
}

// Statements splits the embedded schema into single statements.
func Statements() []string {
	var out []string
	for _, s := range strings.Split(schema, ";") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
