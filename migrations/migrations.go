// Package migrations embeds the SurrealQL schema files applied by clubctl and
// the integration test database.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"

	"github.com/forgo/clubhouse/api/internal/database"
)

//go:embed *.surql
var files embed.FS

// Migration is a single schema file.
type Migration struct {
	Name string
	SQL  string
}

// Load returns every embedded migration ordered by file name.
func Load() ([]Migration, error) {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		return nil, fmt.Errorf("reading migrations: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".surql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	out := make([]Migration, 0, len(names))
	for _, name := range names {
		content, err := fs.ReadFile(files, name)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		out = append(out, Migration{Name: name, SQL: string(content)})
	}
	return out, nil
}

// Apply runs every migration against db in order. The schema files use
// DEFINE ... IF NOT EXISTS, so applying twice is harmless.
func Apply(ctx context.Context, db database.Database) error {
	all, err := Load()
	if err != nil {
		return err
	}
	for _, m := range all {
		if err := db.Execute(ctx, m.SQL, nil); err != nil {
			return fmt.Errorf("applying %s: %w", m.Name, err)
		}
		slog.InfoContext(ctx, "migration applied", slog.String("name", m.Name))
	}
	return nil
}
