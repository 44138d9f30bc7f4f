package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	PGCode       string `json:"pg_code,omitempty"`
	PGConstraint string `json:"pg_constraint,omitempty"`
	PGTable      string `json:"pg_table,omitempty"`
	PGColumn     string `json:"pg_column,omitempty"`
	PGDetail     string `json:"pg_detail,omitempty"`
	PGMessage    string `json:"pg_message,omitempty"`

	// Violation is unique, check, not_null or foreign_key when the store
	// rejected a row, for Postgres and SQLite alike.
	Violation string `json:"violation,omitempty"`
}

var pgViolations = map[string]string{
	"23505": "unique",
	"23514": "check",
	"23502": "not_null",
	"23503": "foreign_key",
}

var sqliteViolations = []struct {
	prefix string
	kind   string
}{
	{"UNIQUE constraint failed: ", "unique"},
	{"CHECK constraint failed: ", "check"},
	{"NOT NULL constraint failed: ", "not_null"},
	{"FOREIGN KEY constraint failed", "foreign_key"},
}

// Dump flattens err for the error log: the typed code, every wrapped layer,
// and the driver's constraint diagnostics.
func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		d.PGCode = pgxErr.Code
		d.PGConstraint = pgxErr.ConstraintName
		d.PGTable = pgxErr.TableName
		d.PGColumn = pgxErr.ColumnName
		d.PGDetail = pgxErr.Detail
		d.PGMessage = pgxErr.Message
		d.Violation = pgViolations[pgxErr.Code]
		return d
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		d.PGCode = string(pqErr.Code)
		d.PGConstraint = pqErr.Constraint
		d.PGTable = pqErr.Table
		d.PGColumn = pqErr.Column
		d.PGDetail = pqErr.Detail
		d.PGMessage = pqErr.Message
		d.Violation = pgViolations[string(pqErr.Code)]
		return d
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		if kind, constraint, ok := sqliteViolation(e.Error()); ok {
			d.Violation = kind
			d.PGConstraint = constraint
			break
		}
	}
	return d
}

func sqliteViolation(msg string) (string, string, bool) {
	for _, v := range sqliteViolations {
		if idx := strings.Index(msg, v.prefix); idx >= 0 {
			return v.kind, strings.TrimSpace(msg[idx+len(v.prefix):]), true
		}
	}
	return "", "", false
}
