package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSQLMigrationSanitizesName(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "Add Booking Notes!")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "_add_booking_notes.sql"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "-- +goose Up")
	assert.Contains(t, string(data), "-- +goose Down")

	require.NoError(t, ValidateDir(dir))
}

func TestValidateDirRejectsBadFilename(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad-name.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	assert.Error(t, ValidateDir(dir))
}

func TestCreateSQLMigrationScaffoldsTable(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "create reviews table")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "_create_reviews_table.sql"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "CREATE TABLE IF NOT EXISTS reviews (")
	assert.Contains(t, string(data), "DROP TABLE IF EXISTS reviews;")

	require.NoError(t, ValidateDir(dir))

	stmts, err := sqliteStatements(os.DirFS(dir))
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	assert.Contains(t, stmts[0], "id TEXT PRIMARY KEY")
	assert.Contains(t, stmts[0], "DEFAULT CURRENT_TIMESTAMP")
}

func TestCreateSQLMigrationRejectsEmptyName(t *testing.T) {
	_, err := CreateSQLMigration(t.TempDir(), " !! ")
	assert.Error(t, err)
}

func TestValidateDirRejectsPostgresOnlySQL(t *testing.T) {
	dir := t.TempDir()
	content := "-- +goose Up\nCREATE TABLE IF NOT EXISTS t (id SERIAL PRIMARY KEY);\n-- +goose Down\nDROP TABLE IF EXISTS t;\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20250101000001_create_t_table.sql"), []byte(content), 0o644))

	err := ValidateDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SERIAL")
}

func TestValidateDirRejectsDuplicateVersion(t *testing.T) {
	dir := t.TempDir()
	content := []byte("-- +goose Up\n-- +goose Down\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20250101000001_a.sql"), content, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20250101000001_b.sql"), content, 0o644))

	err := ValidateDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate migration version")
}

func TestEmbeddedMigrationsValidate(t *testing.T) {
	require.NoError(t, ValidateFS(embeddedMigrations()))
}
