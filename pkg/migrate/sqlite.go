package migrate

import (
	"bufio"
	"context"
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// sqliteTypes rewrites the Postgres-only parts of the goose DDL.
var sqliteTypes = strings.NewReplacer(
	"TIMESTAMPTZ", "DATETIME",
	"DEFAULT now()", "DEFAULT CURRENT_TIMESTAMP",
	"'[]'::jsonb", "'[]'",
	"JSONB", "TEXT",
	"UUID", "TEXT",
)

// ApplySQLite runs the Up section of every goose migration, in filename
// order, against a SQLite connection. Statements are idempotent.
func ApplySQLite(ctx context.Context, conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db is required")
	}
	stmts, err := sqliteStatements(embeddedMigrations())
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if err := conn.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("apply sqlite schema: %w", err)
		}
	}
	return nil
}

// embeddedMigrations returns the migrations directory compiled into the binary.
func embeddedMigrations() fs.FS {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

func sqliteStatements(fsys fs.FS) ([]string, error) {
	names, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}

	var stmts []string
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		up, err := upSection(string(data))
		if err != nil {
			return nil, fmt.Errorf("migration %s: %w", name, err)
		}
		for _, stmt := range strings.Split(sqliteTypes.Replace(up), ";") {
			if stmt = strings.TrimSpace(stmt); stmt != "" {
				stmts = append(stmts, stmt)
			}
		}
	}
	return stmts, nil
}

// upSection returns the SQL between "-- +goose Up" and "-- +goose Down" with
// comment lines removed.
func upSection(content string) (string, error) {
	var (
		b     strings.Builder
		inUp  bool
		found bool
	)
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "-- +goose Up"):
			inUp, found = true, true
			continue
		case strings.HasPrefix(trimmed, "-- +goose Down"):
			inUp = false
			continue
		case strings.HasPrefix(trimmed, "--"):
			continue
		}
		if inUp {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("missing -- +goose Up annotation")
	}
	return b.String(), nil
}
