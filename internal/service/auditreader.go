package service

import (
	"context"

	"github.com/rryowa/portfolio-backend/internal/models"
	"github.com/rryowa/portfolio-backend/internal/storage"
	"github.com/rryowa/portfolio-backend/internal/util"
)

const (
	defaultAuditPageSize = 50
	maxAuditPageSize     = 200
)

// AuditReader serves the admin audit-log browser. Reading is separate from
// recording; the dashboard must not be able to touch the write path.
type AuditReader struct {
	repo storage.AuditRepository
}

func NewAuditReader(repo storage.AuditRepository) *AuditReader {
	return &AuditReader{repo: repo}
}

func (r *AuditReader) List(ctx context.Context, filter models.AuditFilter) ([]models.AuditEntry, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultAuditPageSize
	}
	if filter.Limit > maxAuditPageSize {
		filter.Limit = maxAuditPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	entries, total, err := r.repo.ListAuditEntries(ctx, filter)
	if err != nil {
		return nil, 0, util.WrapAppError(util.KindDatabase, err, "failed to list audit logs")
	}
	return entries, total, nil
}
