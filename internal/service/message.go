package service

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/rryowa/portfolio-backend/internal/models"
	"github.com/rryowa/portfolio-backend/internal/storage"
	"github.com/rryowa/portfolio-backend/internal/util"
	"github.com/rryowa/portfolio-backend/internal/validation"
)

type MessageService struct {
	storage storage.MessageRepository
	audit   *AuditLogger
	log     *zap.SugaredLogger
}

func NewMessageService(st storage.MessageRepository, audit *AuditLogger, log *zap.SugaredLogger) *MessageService {
	return &MessageService{storage: st, audit: audit, log: log}
}

// ValidateContact checks a contact submission and returns the sanitized
// message plus every problem found, so the form can show them all at once.
func ValidateContact(req models.ContactRequest) (models.Message, []string) {
	var errs []string

	name := validation.ValidateString(req.Name, validation.StringRule{Field: "name", MinLen: 1, MaxLen: 100})
	errs = append(errs, name.Errors...)

	email := validation.ValidateEmail(req.Email)
	errs = append(errs, email.Errors...)

	subject := validation.ValidateString(req.Subject, validation.StringRule{Field: "subject", MinLen: 1, MaxLen: 200})
	errs = append(errs, subject.Errors...)

	body := validation.ValidateString(req.Message, validation.StringRule{Field: "message", MinLen: 10, MaxLen: 5000})
	errs = append(errs, body.Errors...)

	if len(errs) > 0 {
		return models.Message{}, errs
	}

	return models.Message{
		Name:    name.Data,
		Email:   email.Data,
		Subject: subject.Data,
		Message: body.Data,
	}, nil
}

// SubmitContact validates and persists a public contact-form submission.
func (s *MessageService) SubmitContact(ctx context.Context, req models.ContactRequest, meta models.ClientMetadata) (*models.Message, error) {
	msg, problems := ValidateContact(req)
	if len(problems) > 0 {
		s.audit.Record(models.AuditEntry{
			EventType: models.EventValidationError,
			Action:    "contact form rejected",
			Details:   map[string]string{"errors": strings.Join(problems, "; ")},
			ClientIP:  meta.IPAddress,
			UserAgent: meta.UserAgent,
			Success:   false,
		})
		return nil, util.NewAppError(util.KindValidation, "%s", strings.Join(problems, "; "))
	}

	created, err := s.storage.CreateMessage(ctx, msg)
	if err != nil {
		return nil, util.WrapAppError(util.KindDatabase, err, "failed to save message")
	}

	s.audit.Record(models.AuditEntry{
		EventType:    models.EventCreate,
		ResourceType: "message",
		ResourceID:   strconv.FormatInt(created.ID, 10),
		Action:       "contact form submitted",
		Details:      map[string]string{"email": created.Email},
		ClientIP:     meta.IPAddress,
		UserAgent:    meta.UserAgent,
		Success:      true,
	})

	return created, nil
}

func (s *MessageService) ListMessages(ctx context.Context, limit, offset int) ([]models.Message, int, error) {
	messages, total, err := s.storage.ListMessages(ctx, limit, offset)
	if err != nil {
		return nil, 0, util.WrapAppError(util.KindDatabase, err, "failed to list messages")
	}
	return messages, total, nil
}

func (s *MessageService) MarkRead(ctx context.Context, id int64, read bool, actor models.AdminUser, meta models.ClientMetadata) error {
	if err := s.storage.MarkMessageRead(ctx, id, read); err != nil {
		if errorsIsNotFound(err) {
			return util.WrapAppError(util.KindNotFound, err, "message not found")
		}
		return util.WrapAppError(util.KindDatabase, err, "failed to update message")
	}

	s.audit.Record(models.AuditEntry{
		EventType:    models.EventUpdate,
		ActorID:      actor.ID,
		ActorName:    actor.Username,
		ResourceType: "message",
		ResourceID:   strconv.FormatInt(id, 10),
		Action:       "message read flag updated",
		Details:      map[string]string{"read": strconv.FormatBool(read)},
		ClientIP:     meta.IPAddress,
		UserAgent:    meta.UserAgent,
		Success:      true,
	})
	return nil
}

func (s *MessageService) DeleteMessage(ctx context.Context, id int64, actor models.AdminUser, meta models.ClientMetadata) error {
	if err := s.storage.DeleteMessage(ctx, id); err != nil {
		if errorsIsNotFound(err) {
			return util.WrapAppError(util.KindNotFound, err, "message not found")
		}
		return util.WrapAppError(util.KindDatabase, err, "failed to delete message")
	}

	s.audit.Record(models.AuditEntry{
		EventType:    models.EventDelete,
		ActorID:      actor.ID,
		ActorName:    actor.Username,
		ResourceType: "message",
		ResourceID:   strconv.FormatInt(id, 10),
		Action:       "message deleted",
		ClientIP:     meta.IPAddress,
		UserAgent:    meta.UserAgent,
		Success:      true,
	})
	return nil
}
