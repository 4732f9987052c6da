package sqlstore

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	v1 "github.com/codepulse-lab/codepulse/internal/api/v1"
	"github.com/codepulse-lab/codepulse/internal/core/storage"
)

// DriverPostgres and DriverSQLite are the supported database drivers.
// Postgres is the production deployment; sqlite keeps single-machine setups
// (the common case for a personal activity tracker) dependency-free.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// SupportedDriver reports whether name is a driver this adapter can open.
func SupportedDriver(name string) bool {
	return name == DriverPostgres || name == DriverSQLite
}

// rebind rewrites '?' placeholders to '$1..$N' for postgres. sqlite takes
// the query unchanged. None of our statements contain literal '?' inside
// strings, so a plain scan is sufficient.
func rebind(driver, query string) string {
	if driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// unavailable tags a driver failure so callers can errors.Is it against
// storage.ErrUnavailable while still seeing what actually went wrong.
func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", storage.ErrUnavailable, op, err)
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanRecordRow scans a database row into a SessionRecord, converting the
// nullable file/language columns into the tagged pointer representation.
func scanRecordRow(row scanner) (*v1.SessionRecord, error) {
	var (
		rec      v1.SessionRecord
		file     sql.NullString
		language sql.NullString
	)

	err := row.Scan(
		&rec.ID,
		&rec.Timestamp,
		&file,
		&language,
		&rec.DurationSec,
		&rec.IngestedAt,
		&rec.IngestSeq,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan record row: %w", err)
	}

	if file.Valid {
		rec.File = &file.String
	}
	if language.Valid {
		rec.Language = &language.String
	}

	return &rec, nil
}

// nullableString converts the tagged pointer representation back into the
// driver-level nullable, treating blank-after-trim as absent.
func nullableString(s *string) sql.NullString {
	if s == nil || strings.TrimSpace(*s) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
