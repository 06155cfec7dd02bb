package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rryowa/portfolio-backend/internal/models"
	"github.com/rryowa/portfolio-backend/internal/service"
	"github.com/rryowa/portfolio-backend/internal/storage"
	"github.com/rryowa/portfolio-backend/internal/util"
)

type fakeMessageRepo struct {
	messages []models.Message
	nextID   int64
}

func (f *fakeMessageRepo) CreateMessage(_ context.Context, m models.Message) (*models.Message, error) {
	f.nextID++
	m.ID = f.nextID
	f.messages = append(f.messages, m)
	copied := m
	return &copied, nil
}

func (f *fakeMessageRepo) ListMessages(_ context.Context, limit, offset int) ([]models.Message, int, error) {
	total := len(f.messages)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return append([]models.Message(nil), f.messages[offset:end]...), total, nil
}

func (f *fakeMessageRepo) MarkMessageRead(_ context.Context, id int64, read bool) error {
	for i := range f.messages {
		if f.messages[i].ID == id {
			f.messages[i].Read = read
			return nil
		}
	}
	return storage.ErrMessageNotFound
}

func (f *fakeMessageRepo) DeleteMessage(_ context.Context, id int64) error {
	for i := range f.messages {
		if f.messages[i].ID == id {
			f.messages = append(f.messages[:i], f.messages[i+1:]...)
			return nil
		}
	}
	return storage.ErrMessageNotFound
}

func validContact() models.ContactRequest {
	return models.ContactRequest{
		Name:    "Grace Hopper",
		Email:   "Grace@Example.COM",
		Subject: "Speaking request",
		Message: "Would you be available for a talk next month?",
	}
}

func TestValidateContactNormalizes(t *testing.T) {
	msg, problems := service.ValidateContact(validContact())
	require.Empty(t, problems)

	assert.Equal(t, "Grace Hopper", msg.Name)
	assert.Equal(t, "grace@example.com", msg.Email)
	assert.Equal(t, "Speaking request", msg.Subject)
}

func TestValidateContactStripsMarkup(t *testing.T) {
	req := validContact()
	req.Name = "<script>alert(1)</script>Grace"
	req.Subject = "  Hello <b>there</b>  "

	msg, problems := service.ValidateContact(req)
	require.Empty(t, problems)

	assert.Equal(t, "alert(1)Grace", msg.Name)
	assert.Equal(t, "Hello there", msg.Subject)
}

func TestValidateContactCollectsAllProblems(t *testing.T) {
	_, problems := service.ValidateContact(models.ContactRequest{
		Name:    "",
		Email:   "not-an-email",
		Subject: "",
		Message: "too short",
	})

	// Every bad field is reported in one pass.
	assert.Len(t, problems, 4)
}

func TestSubmitContactRejectsInvalidWithoutPersisting(t *testing.T) {
	repo := &fakeMessageRepo{}
	svc := service.NewMessageService(repo, newNopAudit(t), zap.NewNop().Sugar())

	bad := validContact()
	bad.Message = "short"

	_, err := svc.SubmitContact(context.Background(), bad, models.ClientMetadata{})
	require.Error(t, err)

	var appErr *util.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, util.KindValidation, appErr.Kind)
	assert.Empty(t, repo.messages)
}

func TestSubmitContactPersistsSanitizedMessage(t *testing.T) {
	repo := &fakeMessageRepo{}
	svc := service.NewMessageService(repo, newNopAudit(t), zap.NewNop().Sugar())

	created, err := svc.SubmitContact(context.Background(), validContact(), models.ClientMetadata{
		IPAddress: "203.0.113.7",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "grace@example.com", created.Email)
	require.Len(t, repo.messages, 1)
}

func TestMarkReadMissingMessage(t *testing.T) {
	svc := service.NewMessageService(&fakeMessageRepo{}, newNopAudit(t), zap.NewNop().Sugar())

	err := svc.MarkRead(context.Background(), 42, true, testActor, models.ClientMetadata{})

	var appErr *util.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, util.KindNotFound, appErr.Kind)
}

func newNopAudit(t *testing.T) *service.AuditLogger {
	t.Helper()
	audit := service.NewAuditLogger(&util.AuditConfig{QueueSize: 64}, zap.NewNop().Sugar())
	t.Cleanup(audit.Close)
	return audit
}
