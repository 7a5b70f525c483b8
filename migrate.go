package directory

import (
	"context"
	"io/fs"
	"sort"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

const migrationsDir = "data/sql/migrations"

// Migrate applies the embedded schema migrations in filename order.
// Statements are idempotent (IF NOT EXISTS) so repeated startups are
// safe against an existing database.
func Migrate(ctx context.Context, db *bun.DB) error {
	entries, err := fs.ReadDir(migrationsFS, migrationsDir)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read migrations")
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		script, err := fs.ReadFile(migrationsFS, migrationsDir+"/"+name)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read migration "+name)
		}

		if _, err := db.ExecContext(ctx, string(script)); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to apply migration "+name)
		}
	}

	return nil
}
