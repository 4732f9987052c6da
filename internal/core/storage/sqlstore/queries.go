package sqlstore

// Queries are written with '?' placeholders and rebound to $N for postgres.
// Both supported engines understand ON CONFLICT ... DO NOTHING and RETURNING
// (sqlite since 3.35), so the statements themselves are shared.

const (
	// querySaveRecord inserts a record idempotently on its ID.
	// ON CONFLICT DO NOTHING yields no rows (sql.ErrNoRows) for duplicates;
	// RETURNING retrieves the auto-generated ingest_seq so the aggregator's
	// first-seen ordering survives round trips.
	querySaveRecord = `
		INSERT INTO records (
			id, recorded_at, file, language, duration_sec, ingested_at
		)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING
		RETURNING ingest_seq
	`

	// queryRecordsInRange fetches records in a half-open unix-second window.
	// Ordered by ingest_seq so traversal order is stable across calls.
	queryRecordsInRange = `
		SELECT id, recorded_at, file, language, duration_sec, ingested_at, ingest_seq
		FROM records
		WHERE recorded_at >= ? AND recorded_at < ?
		ORDER BY ingest_seq ASC
	`

	// queryRecordsWithFile fetches records carrying a usable file path.
	// Blank-after-trim paths are filtered here rather than in Go so the
	// store contract matches what the project ranking consumes.
	queryRecordsWithFile = `
		SELECT id, recorded_at, file, language, duration_sec, ingested_at, ingest_seq
		FROM records
		WHERE file IS NOT NULL AND TRIM(file) <> ''
		ORDER BY ingest_seq ASC
	`

	queryCountRecords = `SELECT COUNT(*) FROM records`
)
