package service

import (
	"context"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rryowa/portfolio-backend/internal/models"
	"github.com/rryowa/portfolio-backend/internal/storage/blob"
	"github.com/rryowa/portfolio-backend/internal/util"
	"github.com/rryowa/portfolio-backend/internal/validation"
)

const (
	mb = 1 << 20

	UploadKindPhoto        = "photo"
	UploadKindResume       = "resume"
	UploadKindProjectPdf   = "project-pdf"
	UploadKindProjectImage = "project-image"
)

type uploadPolicy struct {
	maxSize      int64
	contentTypes map[string]struct{}
	prefix       string
}

//nolint:gochecknoglobals // static policy table
var uploadPolicies = map[string]uploadPolicy{
	UploadKindPhoto: {
		maxSize:      5 * mb,
		contentTypes: imageContentTypes(),
		prefix:       "photos",
	},
	UploadKindResume: {
		maxSize:      10 * mb,
		contentTypes: map[string]struct{}{"application/pdf": {}},
		prefix:       "resumes",
	},
	UploadKindProjectPdf: {
		maxSize:      10 * mb,
		contentTypes: map[string]struct{}{"application/pdf": {}},
		prefix:       "project-pdfs",
	},
	UploadKindProjectImage: {
		maxSize:      5 * mb,
		contentTypes: imageContentTypes(),
		prefix:       "project-images",
	},
}

func imageContentTypes() map[string]struct{} {
	return map[string]struct{}{
		"image/jpeg": {},
		"image/png":  {},
		"image/webp": {},
	}
}

type UploadService struct {
	blobs blob.Store
	audit *AuditLogger
	log   *zap.SugaredLogger
}

func NewUploadService(blobs blob.Store, audit *AuditLogger, log *zap.SugaredLogger) *UploadService {
	return &UploadService{blobs: blobs, audit: audit, log: log}
}

// Upload size- and type-checks the file, stores it under a collision-free
// key, and returns the public URL.
func (s *UploadService) Upload(ctx context.Context, kind, fileName string, r io.Reader, size int64, contentType string, actor models.AdminUser, meta models.ClientMetadata) (string, error) {
	policy, ok := uploadPolicies[kind]
	if !ok {
		return "", util.NewAppError(util.KindFileUpload, "unknown upload kind %q", kind)
	}

	if size <= 0 || size > policy.maxSize {
		return "", util.NewAppError(util.KindFileUpload, "file size must be between 1 byte and %d bytes", policy.maxSize)
	}

	normalizedType := strings.ToLower(strings.TrimSpace(contentType))
	if _, allowed := policy.contentTypes[normalizedType]; !allowed {
		return "", util.NewAppError(util.KindFileUpload, "content type %q is not allowed for %s uploads", contentType, kind)
	}

	cleanName := validation.SanitizeFileName(fileName)
	if cleanName == "" {
		cleanName = "file"
	}
	key := policy.prefix + "/" + uuid.NewString() + "-" + cleanName

	url, err := s.blobs.Put(ctx, key, r, size, normalizedType)
	if err != nil {
		s.audit.Record(models.AuditEntry{
			EventType:    models.EventFileUpload,
			Severity:     models.SeverityError,
			ActorID:      actor.ID,
			ActorName:    actor.Username,
			ResourceType: "blob",
			ResourceID:   key,
			Action:       "file upload failed",
			ClientIP:     meta.IPAddress,
			UserAgent:    meta.UserAgent,
			Success:      false,
			ErrorMessage: err.Error(),
		})
		return "", util.WrapAppError(util.KindInternal, err, "failed to store file")
	}

	s.audit.Record(models.AuditEntry{
		EventType:    models.EventFileUpload,
		ActorID:      actor.ID,
		ActorName:    actor.Username,
		ResourceType: "blob",
		ResourceID:   key,
		Action:       "file uploaded",
		Details:      map[string]string{"kind": kind, "contentType": normalizedType},
		ClientIP:     meta.IPAddress,
		UserAgent:    meta.UserAgent,
		Success:      true,
	})

	return url, nil
}
