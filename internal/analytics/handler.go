package analytics

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/codepulse-lab/codepulse/internal/core/bucket"
	httperr "github.com/codepulse-lab/codepulse/internal/core/errors"
	"github.com/codepulse-lab/codepulse/internal/core/storage"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the analytics API routes on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/api/stats", s.HandleDailySeries)
	r.GET("/api/languages", s.HandleLanguageDistribution)
	r.GET("/api/projects", s.HandleTopProjects)
	r.GET("/api/health", s.HandleHealth)
}

// HandleDailySeries handles GET /api/stats?days=7
func (s *Service) HandleDailySeries(c *gin.Context) {
	days, ok := intQuery(c, "days", s.defaultWindowDays)
	if !ok {
		return
	}

	result, err := s.DailySeries(c.Request.Context(), days, time.Time{})
	if err != nil {
		writeServiceError(c, "Failed to compute daily series", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"labels":  result.Labels,
		"data":    result.Minutes,
		"summary": result.Summary,
	})
}

// HandleLanguageDistribution handles GET /api/languages?date=YYYY-MM-DD
// The date defaults to today in the service's zone.
func (s *Service) HandleLanguageDistribution(c *gin.Context) {
	day := time.Time{}
	if raw := c.Query("date"); raw != "" {
		parsed, err := bucket.ParseKey(raw, s.loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
				ErrorType: httperr.HttpInvalidQueryError,
				Message:   "Invalid date parameter",
				Details:   err.Error(),
			})
			return
		}
		day = parsed
	}

	result, err := s.LanguageDistribution(c.Request.Context(), day)
	if err != nil {
		writeServiceError(c, "Failed to compute language distribution", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"labels":  result.Labels,
		"data":    result.Minutes,
	})
}

// HandleTopProjects handles GET /api/projects?limit=10
func (s *Service) HandleTopProjects(c *gin.Context) {
	limit, ok := intQuery(c, "limit", s.defaultTopLimit)
	if !ok {
		return
	}

	rows, err := s.TopProjects(c.Request.Context(), limit)
	if err != nil {
		writeServiceError(c, "Failed to compute top projects", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"projects": rows,
	})
}

// HandleHealth handles GET /api/health. It reports the record count so a
// probe can tell an empty-but-healthy store from an unreachable one.
func (s *Service) HandleHealth(c *gin.Context) {
	count, err := s.RecordCount(c.Request.Context())
	if err != nil {
		slog.Error("Health check failed: record store unreachable", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"error":  "record store unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
		"records":  count,
	})
}

// intQuery parses an optional integer query parameter, writing a 400 response
// and returning ok=false when the value is unparseable.
func intQuery(c *gin.Context, name string, fallback int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQueryError,
			Message:   "Invalid " + name + " parameter",
			Details:   err.Error(),
		})
		return 0, false
	}
	return value, true
}

func writeServiceError(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, ErrInvalidQuery):
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQueryError,
			Message:   message,
			Details:   err.Error(),
		})
	case errors.Is(err, storage.ErrUnavailable):
		slog.Error("Record store unavailable", "error", err)
		c.JSON(http.StatusServiceUnavailable, httperr.ErrorResponse{
			ErrorType: httperr.HttpStoreUnavailableError,
			Message:   message,
			Details:   err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   message,
			Details:   err.Error(),
		})
	}
}
