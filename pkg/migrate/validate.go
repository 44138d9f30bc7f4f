package migrate

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"regexp"
	"strings"
)

var sqlFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

// tokens the sqlite rewrite does not understand; a migration using them
// would apply on Postgres but break ApplySQLite
var sqliteUnsupported = []string{"::", "now()", "SERIAL", "gen_random_uuid", "CREATE EXTENSION", "ALTER COLUMN"}

// ValidateDir checks the migrations in dir. See ValidateFS.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("read dir %q: %w", dir, err)
	}
	return ValidateFS(os.DirFS(dir))
}

// ValidateFS requires every .sql file at the root of fsys to carry a unique
// YYYYMMDDHHMMSS version, both goose annotations, and an Up section that
// still applies on SQLite once rewritten.
func ValidateFS(fsys fs.FS) error {
	names, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}

	seen := map[string]string{}
	for _, name := range names {
		m := sqlFileRe.FindStringSubmatch(path.Base(name))
		if m == nil {
			return fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}
		version := m[1]
		if prev, ok := seen[version]; ok {
			return fmt.Errorf("duplicate migration version %s in %q and %q", version, prev, name)
		}
		seen[version] = name

		b, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("read file %q: %w", name, err)
		}
		txt := string(b)
		if !strings.Contains(txt, "-- +goose Down") {
			return fmt.Errorf("migration %q missing \"-- +goose Down\"", name)
		}
		up, err := upSection(txt)
		if err != nil {
			return fmt.Errorf("migration %q: %w", name, err)
		}
		translated := sqliteTypes.Replace(up)
		for _, token := range sqliteUnsupported {
			if strings.Contains(translated, token) {
				return fmt.Errorf("migration %q: %q has no sqlite equivalent", name, token)
			}
		}
	}
	return nil
}
