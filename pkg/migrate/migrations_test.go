package migrate_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/angelmondragon/medmart-backend/pkg/migrate"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration file matching %q", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestMigrationsDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestBookingsMigrationContainsSettlementConstraints(t *testing.T) {
	content := readMigration(t, "*_create_bookings_table.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS bookings",
		"CREATE UNIQUE INDEX IF NOT EXISTS bookings_source_cart_id_key ON bookings (source_cart_id)",
		"CREATE UNIQUE INDEX IF NOT EXISTS bookings_paid_transaction_id_key ON bookings (transaction_id) WHERE status = 'paid'",
		"items JSONB NOT NULL",
		"DROP TABLE IF EXISTS bookings",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestUsersMigrationEnforcesUniqueEmail(t *testing.T) {
	content := readMigration(t, "*_create_users_table.sql")
	for _, sub := range []string{
		"CREATE TABLE IF NOT EXISTS users",
		"CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (email)",
		"DROP TABLE IF EXISTS users",
	} {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return conn
}

func TestApplySQLiteIsRepeatable(t *testing.T) {
	conn := openSQLite(t)

	require.NoError(t, migrate.ApplySQLite(context.Background(), conn))
	require.NoError(t, migrate.ApplySQLite(context.Background(), conn))

	for _, table := range []string{"users", "products", "cart_entries", "bookings"} {
		require.True(t, conn.Migrator().HasTable(table), table)
	}
}

func TestApplySQLiteEnforcesCheckConstraints(t *testing.T) {
	conn := openSQLite(t)
	require.NoError(t, migrate.ApplySQLite(context.Background(), conn))

	const ts = "2024-05-01 12:00:00"
	cases := []struct {
		name string
		sql  string
		args []any
	}{
		{
			name: "cart quantity below one",
			sql:  "INSERT INTO cart_entries (id, buyer_email, product_id, product_name, quantity, unit_price, seller_email, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
			args: []any{"c1", "a@x.com", "p1", "P1", 0, 10, "s@x.com", ts, ts},
		},
		{
			name: "cart negative price",
			sql:  "INSERT INTO cart_entries (id, buyer_email, product_id, product_name, quantity, unit_price, seller_email, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
			args: []any{"c2", "a@x.com", "p1", "P1", 1, -5, "s@x.com", ts, ts},
		},
		{
			name: "booking unknown status",
			sql:  "INSERT INTO bookings (id, buyer_email, seller_email, items, total_price, status, transaction_id, paid_at, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
			args: []any{"b1", "a@x.com", "s@x.com", "[]", 10, "bogus", "pi_1", ts, ts},
		},
		{
			name: "booking negative total",
			sql:  "INSERT INTO bookings (id, buyer_email, seller_email, items, total_price, status, transaction_id, paid_at, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
			args: []any{"b2", "a@x.com", "s@x.com", "[]", -1, "paid", "pi_2", ts, ts},
		},
		{
			name: "user unknown role",
			sql:  "INSERT INTO users (id, email, role, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
			args: []any{"u1", "a@x.com", "Superuser", ts, ts},
		},
		{
			name: "user unknown status",
			sql:  "INSERT INTO users (id, email, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
			args: []any{"u2", "b@x.com", "Pending", ts, ts},
		},
		{
			name: "product discount above 100",
			sql:  "INSERT INTO products (id, name, unit_price, discount, seller_email, created_at) VALUES (?, ?, ?, ?, ?, ?)",
			args: []any{"p1", "P1", 10, 150, "s@x.com", ts},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := conn.Exec(tc.sql, tc.args...).Error
			require.Error(t, err)
			require.Contains(t, err.Error(), "CHECK constraint failed")
		})
	}

	// a valid row still goes through
	require.NoError(t, conn.Exec(
		"INSERT INTO cart_entries (id, buyer_email, product_id, product_name, quantity, unit_price, seller_email, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		"c3", "a@x.com", "p1", "P1", 1, 10, "s@x.com", ts, ts,
	).Error)
}

func TestApplySQLiteCreatesGooseIndexes(t *testing.T) {
	conn := openSQLite(t)
	require.NoError(t, migrate.ApplySQLite(context.Background(), conn))

	var names []string
	require.NoError(t, conn.Raw("SELECT name FROM sqlite_master WHERE type = 'index' AND sql IS NOT NULL").Scan(&names).Error)

	for _, idx := range []string{
		"users_email_key",
		"idx_products_seller_email",
		"idx_cart_entries_buyer_email",
		"idx_cart_entries_status_created_at",
		"bookings_source_cart_id_key",
		"bookings_paid_transaction_id_key",
		"idx_bookings_buyer_email_created_at",
		"idx_bookings_seller_email",
		"idx_bookings_created_at",
	} {
		require.Contains(t, names, idx)
	}
}
