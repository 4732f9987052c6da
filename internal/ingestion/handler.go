package ingestion

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	v1 "github.com/codepulse-lab/codepulse/internal/api/v1"
	httperr "github.com/codepulse-lab/codepulse/internal/core/errors"
	"github.com/codepulse-lab/codepulse/internal/core/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgReadBodyFailed  = "Failed to read request body"
	msgInvalidJSON     = "Invalid JSON body"
	msgPersistFailed   = "Failed to persist record"
	msgDuplicateRecord = "Record already exists"
	msgStoreDown       = "Record store unavailable"
)

// ingestionError carries the structured HTTP error shape from a helper back to the orchestrator.
// Helpers return this instead of writing to gin.Context directly, keeping them decoupled from HTTP.
type ingestionError struct {
	statusCode int
	errorType  string
	message    string
	details    interface{}
}

func (e *ingestionError) Error() string {
	return e.message
}

// IngestHandler handles HTTP POST requests for session record ingestion.
func (s *Service) IngestHandler(c *gin.Context) {
	rec, payloadSize, err := s.parseRecord(c)
	if err != nil {
		writeError(c, err)
		return
	}

	slog.Info("Received record",
		"record_id", rec.ID,
		"timestamp", rec.Timestamp,
		"payload_size", payloadSize)

	if err := s.persistRecord(c.Request.Context(), rec); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "accepted", "id": rec.ID})
}

// parseRecord reads the raw request body and binds it into a SessionRecord.
// Returns the parsed record and the raw payload size (used for structured logging upstream).
func (s *Service) parseRecord(c *gin.Context) (*v1.SessionRecord, int, *ingestionError) {
	// Enforce maximum body size to prevent OOM attacks
	maxBytes := int64(s.maxBodySizeBytes)
	limitedBody := io.LimitReader(c.Request.Body, maxBytes+1) // +1 to detect oversized requests

	bodyBytes, err := io.ReadAll(limitedBody)
	if err != nil {
		slog.Error("Failed to read request body", "error", err)
		return nil, 0, &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgReadBodyFailed,
		}
	}

	if int64(len(bodyBytes)) > maxBytes {
		slog.Warn("Request body exceeds maximum size", "size", len(bodyBytes), "max", maxBytes)
		return nil, len(bodyBytes), &ingestionError{
			statusCode: http.StatusRequestEntityTooLarge,
			errorType:  httperr.HttpInvalidJsonError,
			message:    "Request body exceeds maximum allowed size",
			details: map[string]interface{}{
				"max_size_mb": maxBytes / (1024 * 1024),
			},
		}
	}

	c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))

	var rec v1.SessionRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		slog.Warn("Invalid JSON body received", "error", err, "payload_size", len(bodyBytes))
		return nil, len(bodyBytes), &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidJsonError,
			message:    msgInvalidJSON,
		}
	}

	if err := rec.Validate(); err != nil {
		slog.Warn("Record validation failed", "error", err, "record_id", rec.ID)
		return nil, len(bodyBytes), &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidJsonError,
			message:    err.Error(),
		}
	}

	// Trackers that cannot keep stable IDs get one assigned; retries of
	// the same payload then count as new records.
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	// Set IngestedAt to the time we received the request.
	rec.IngestedAt = time.Now().UTC()
	return &rec, len(bodyBytes), nil
}

// persistRecord saves the record to the backing store.
func (s *Service) persistRecord(ctx context.Context, rec *v1.SessionRecord) *ingestionError {
	if err := s.store.SaveRecord(ctx, rec); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			slog.Info("Duplicate record rejected", "record_id", rec.ID)
			return &ingestionError{
				statusCode: http.StatusConflict,
				errorType:  httperr.HttpDuplicateRecordError,
				message:    msgDuplicateRecord,
			}
		}

		if errors.Is(err, storage.ErrUnavailable) {
			slog.Error("Record store unavailable", "error", err, "record_id", rec.ID)
			return &ingestionError{
				statusCode: http.StatusServiceUnavailable,
				errorType:  httperr.HttpStoreUnavailableError,
				message:    msgStoreDown,
			}
		}

		slog.Error("Failed to persist record", "error", err, "record_id", rec.ID)
		return &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgPersistFailed,
		}
	}

	return nil
}

// writeError serializes an ingestionError as the JSON HTTP response.
func writeError(c *gin.Context, err *ingestionError) {
	c.JSON(err.statusCode, httperr.ErrorResponse{
		ErrorType: err.errorType,
		Message:   err.message,
		Details:   err.details,
	})
}
