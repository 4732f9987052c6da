package v1

import (
	"fmt"
	"strings"
	"time"
)

// SessionRecord is the atomic fact of the system: one observed interval of
// coding activity on a file. Records are immutable once ingested; every
// analytics query recomputes its aggregates from the current record set.
type SessionRecord struct {
	// ID is the unique identifier for the record. Clients may supply their
	// own (it acts as the idempotency key); the ingestion service generates
	// a UUID when it is absent.
	ID string `json:"id,omitempty"`

	// Timestamp is when the session occurred, in seconds since the Unix
	// epoch (UTC). Required, non-negative. A session's whole duration is
	// attributed to the calendar day this timestamp buckets into; sessions
	// are assumed short enough not to span local midnight.
	Timestamp int64 `json:"timestamp"`

	// File is the slash-delimited relative path the session touched.
	// nil (or blank) means the tracker could not attribute a file.
	File *string `json:"file,omitempty"`

	// Language is the detected language label. nil means unclassified.
	// Internal logic never conflates "no language" with a category
	// literally named "Unknown"; that sentinel is applied only when
	// assembling responses.
	Language *string `json:"language,omitempty"`

	// DurationSec is the session length in seconds. Absent in the source
	// payload is treated as 0.
	DurationSec float64 `json:"duration_seconds"`

	// IngestedAt is when the server received the record. Set by the
	// ingestion service, not the client.
	IngestedAt time.Time `json:"ingested_at,omitempty"`

	// IngestSeq is a monotonic sequence assigned by the database on insert.
	// It fixes the traversal order of otherwise-unordered records, which is
	// what makes first-seen tie-breaks in the aggregator reproducible.
	// Not exposed in the public API.
	IngestSeq int64 `json:"-"`
}

// Validate ensures the record satisfies the envelope invariants.
func (r *SessionRecord) Validate() error {
	if r.Timestamp < 0 {
		return fmt.Errorf("timestamp must be non-negative, got %d", r.Timestamp)
	}

	if r.DurationSec < 0 {
		return fmt.Errorf("duration_seconds must be non-negative, got %v", r.DurationSec)
	}

	return nil
}

// HasFile reports whether the record carries a usable file path.
func (r *SessionRecord) HasFile() bool {
	return r.File != nil && strings.TrimSpace(*r.File) != ""
}

// HasLanguage reports whether the record carries a non-blank language label.
func (r *SessionRecord) HasLanguage() bool {
	return r.Language != nil && strings.TrimSpace(*r.Language) != ""
}

// Folder derives the project folder for the record: the path segment before
// the first '/' in File, or "root" when the path has no directory component.
// The second return is false when the record has no usable file at all.
func (r *SessionRecord) Folder() (string, bool) {
	if !r.HasFile() {
		return "", false
	}
	path := strings.TrimSpace(*r.File)
	if idx := strings.Index(path, "/"); idx > 0 {
		return path[:idx], true
	}
	return "root", true
}
