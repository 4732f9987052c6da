package v1

import (
	"encoding/json"
	"testing"
)

func strptr(s string) *string { return &s }

func TestSessionRecord_Validation(t *testing.T) {
	tests := []struct {
		name    string
		record  SessionRecord
		wantErr bool
	}{
		{
			name: "valid record with all fields",
			record: SessionRecord{
				ID:          "rec_123",
				Timestamp:   1704103200,
				File:        strptr("src/app.py"),
				Language:    strptr("python"),
				DurationSec: 120,
			},
			wantErr: false,
		},
		{
			name: "valid record without optional fields",
			record: SessionRecord{
				Timestamp: 1704103200,
			},
			wantErr: false,
		},
		{
			name: "zero timestamp is allowed",
			record: SessionRecord{
				Timestamp:   0,
				DurationSec: 60,
			},
			wantErr: false,
		},
		{
			name: "negative timestamp rejected",
			record: SessionRecord{
				Timestamp:   -1,
				DurationSec: 60,
			},
			wantErr: true,
		},
		{
			name: "negative duration rejected",
			record: SessionRecord{
				Timestamp:   1704103200,
				DurationSec: -0.5,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSessionRecord_Folder(t *testing.T) {
	tests := []struct {
		name       string
		file       *string
		wantFolder string
		wantOK     bool
	}{
		{name: "nested path", file: strptr("src/app.py"), wantFolder: "src", wantOK: true},
		{name: "deep path uses first segment", file: strptr("web/js/app.js"), wantFolder: "web", wantOK: true},
		{name: "bare filename maps to root", file: strptr("README.md"), wantFolder: "root", wantOK: true},
		{name: "leading slash maps to root", file: strptr("/etc/hosts"), wantFolder: "root", wantOK: true},
		{name: "nil file has no folder", file: nil, wantOK: false},
		{name: "blank file has no folder", file: strptr("   "), wantOK: false},
		{name: "surrounding whitespace trimmed", file: strptr("  src/app.py  "), wantFolder: "src", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := SessionRecord{Timestamp: 1704103200, File: tt.file}
			folder, ok := rec.Folder()
			if ok != tt.wantOK {
				t.Fatalf("Folder() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && folder != tt.wantFolder {
				t.Errorf("Folder() = %q, want %q", folder, tt.wantFolder)
			}
		})
	}
}

func TestSessionRecord_HasLanguage(t *testing.T) {
	tests := []struct {
		name     string
		language *string
		want     bool
	}{
		{name: "present", language: strptr("go"), want: true},
		{name: "nil", language: nil, want: false},
		{name: "blank", language: strptr("  "), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := SessionRecord{Timestamp: 0, Language: tt.language}
			if got := rec.HasLanguage(); got != tt.want {
				t.Errorf("HasLanguage() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSessionRecord_JSONRoundTrip(t *testing.T) {
	payload := []byte(`{"id":"rec_1","timestamp":1704103200,"file":"src/app.py","language":"python","duration_seconds":90.5}`)

	var rec SessionRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if rec.ID != "rec_1" || rec.Timestamp != 1704103200 || rec.DurationSec != 90.5 {
		t.Errorf("unexpected scalar fields: %+v", rec)
	}
	if rec.File == nil || *rec.File != "src/app.py" {
		t.Errorf("File = %v, want src/app.py", rec.File)
	}

	// Absent optional fields must decode to nil, not empty strings.
	var sparse SessionRecord
	if err := json.Unmarshal([]byte(`{"timestamp":0}`), &sparse); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if sparse.File != nil || sparse.Language != nil {
		t.Errorf("optional fields should be nil, got file=%v language=%v", sparse.File, sparse.Language)
	}
}
