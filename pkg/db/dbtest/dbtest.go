// Package dbtest opens isolated in-memory SQLite databases carrying the
// service schema for repository and service tests.
package dbtest

import (
	"context"
	"fmt"
	"io"
	"log"
	"testing"

	"github.com/angelmondragon/medmart-backend/pkg/migrate"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open returns a fresh database with every table created. The pool is capped
// at one connection so concurrent transactions serialize the way row locks
// would on Postgres.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger: gormlogger.New(
			log.New(io.Discard, "", log.LstdFlags),
			gormlogger.Config{LogLevel: gormlogger.Silent},
		),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := migrate.ApplySQLite(context.Background(), conn); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return conn
}
