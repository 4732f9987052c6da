package ingestion

import (
	"github.com/codepulse-lab/codepulse/internal/core/storage"
	"github.com/gin-gonic/gin"
)

type Service struct {
	store            storage.RecordStore
	maxBodySizeBytes int
}

func NewService(store storage.RecordStore, maxBodySizeMB int) *Service {
	if store == nil {
		panic("ingestion: store must not be nil")
	}
	if maxBodySizeMB <= 0 {
		maxBodySizeMB = 1 // default to 1MB
	}
	return &Service{
		store:            store,
		maxBodySizeBytes: maxBodySizeMB * 1024 * 1024,
	}
}

// RegisterRoutes registers the ingestion service routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/api/records", s.IngestHandler)
}
