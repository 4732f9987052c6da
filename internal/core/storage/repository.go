package storage

import (
	"context"
	"errors"

	v1 "github.com/codepulse-lab/codepulse/internal/api/v1"
)

// ErrDuplicate is returned when a record with the same ID already exists.
var ErrDuplicate = errors.New("record already exists")

// ErrUnavailable marks any failure of the underlying record store, whether
// connection loss, corruption, or a bad schema. Aggregation callers must
// treat it as "data unreadable" and surface it, never as "no data".
var ErrUnavailable = errors.New("record store unavailable")

// RecordStore defines the interface for storing and querying session records.
type RecordStore interface {
	// SaveRecord persists a record. Returns ErrDuplicate when a record with
	// the same ID was already ingested. Populates record.IngestSeq.
	SaveRecord(ctx context.Context, record *v1.SessionRecord) error

	// RecordsInRange fetches records whose timestamp falls in the half-open
	// unix-second interval [startUnix, endUnix), ordered by ingest_seq ASC.
	// Callers derive the bounds from calendar days in their own zone; the
	// store itself knows nothing about bucketing.
	RecordsInRange(ctx context.Context, startUnix, endUnix int64) ([]*v1.SessionRecord, error)

	// RecordsWithFile fetches records whose file path is non-null and
	// non-blank after trimming, ordered by ingest_seq ASC.
	RecordsWithFile(ctx context.Context) ([]*v1.SessionRecord, error)

	// CountRecords returns the total number of records. Used as the
	// liveness signal for health checks.
	CountRecords(ctx context.Context) (int64, error)
}
