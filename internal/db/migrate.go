package db

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// RunMigrations applies every .sql file in name order, reading from dir when
// it points at a directory and from the embedded copies otherwise. The
// statements are idempotent (IF NOT EXISTS, INSERT OR IGNORE), so the runner
// executes at every startup without version bookkeeping.
func RunMigrations(db *sql.DB, dir string) error {
	fsys, root := migrationSource(dir)
	names, err := sqlFileNames(fsys, root)
	if err != nil {
		return err
	}
	for _, name := range names {
		stmts, err := fs.ReadFile(fsys, path.Join(root, name))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if len(stmts) == 0 {
			continue
		}
		if _, err := db.Exec(string(stmts)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}
	return nil
}

func migrationSource(dir string) (fs.FS, string) {
	if dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return os.DirFS(dir), "."
		}
	}
	return embeddedMigrations, "migrations"
}

func sqlFileNames(fsys fs.FS, root string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}
