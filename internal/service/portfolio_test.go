package service_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rryowa/portfolio-backend/internal/models"
	"github.com/rryowa/portfolio-backend/internal/service"
	"github.com/rryowa/portfolio-backend/internal/storage"
	"github.com/rryowa/portfolio-backend/internal/util"
)

const ownedPrefix = "https://cdn.example.com/"

// fakeStorage overrides only the repository methods a test touches; anything
// else panics through the embedded nil interface.
type fakeStorage struct {
	storage.Storage

	bio      *models.Biography
	projects map[int64]*models.Project
}

func (f *fakeStorage) GetBiography(context.Context) (*models.Biography, error) {
	if f.bio == nil {
		return nil, storage.ErrBiographyNotFound
	}
	copied := *f.bio
	return &copied, nil
}

func (f *fakeStorage) UpsertBiography(_ context.Context, bio models.Biography) (*models.Biography, error) {
	bio.ID = 1
	f.bio = &bio
	copied := bio
	return &copied, nil
}

func (f *fakeStorage) GetProject(_ context.Context, id int64) (*models.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, storage.ErrProjectNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakeStorage) UpdateProject(_ context.Context, p models.Project) (*models.Project, error) {
	if _, ok := f.projects[p.ID]; !ok {
		return nil, storage.ErrProjectNotFound
	}
	f.projects[p.ID] = &p
	copied := p
	return &copied, nil
}

func (f *fakeStorage) DeleteProject(_ context.Context, id int64) error {
	if _, ok := f.projects[id]; !ok {
		return storage.ErrProjectNotFound
	}
	delete(f.projects, id)
	return nil
}

type fakeBlobStore struct {
	mu      sync.Mutex
	deleted []string
	failFor string
}

func (f *fakeBlobStore) Put(_ context.Context, key string, _ io.Reader, _ int64, _ string) (string, error) {
	return ownedPrefix + key, nil
}

func (f *fakeBlobStore) Delete(_ context.Context, urlOrKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor != "" && urlOrKey == f.failFor {
		return errors.New("object store unavailable")
	}
	f.deleted = append(f.deleted, urlOrKey)
	return nil
}

func (f *fakeBlobStore) Owns(rawURL string) bool {
	return strings.HasPrefix(rawURL, ownedPrefix)
}

func (f *fakeBlobStore) deletions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

type portfolioFixture struct {
	svc   *service.PortfolioService
	blobs *fakeBlobStore
	audit *service.AuditLogger
	sink  *collectingSink
}

func newPortfolioFixture(t *testing.T, st *fakeStorage) portfolioFixture {
	t.Helper()

	blobs := &fakeBlobStore{}
	sink := &collectingSink{}
	audit := service.NewAuditLogger(&util.AuditConfig{QueueSize: 64}, zap.NewNop().Sugar(), sink)
	t.Cleanup(audit.Close)

	svc := service.NewPortfolioService(st, blobs, audit, zap.NewNop().Sugar())
	return portfolioFixture{svc: svc, blobs: blobs, audit: audit, sink: sink}
}

func validBiography() models.Biography {
	return models.Biography{
		FullName: "Ada Lovelace",
		Title:    "Software Engineer",
		Bio:      "I build things.",
		Email:    "ada@example.com",
	}
}

var testActor = models.AdminUser{ID: "admin", Username: "admin"}

func TestUpdateBiographyDeletesReplacedPhotoOnce(t *testing.T) {
	st := &fakeStorage{bio: &models.Biography{
		ID:              1,
		FullName:        "Ada Lovelace",
		Title:           "Software Engineer",
		Bio:             "I build things.",
		Email:           "ada@example.com",
		ProfilePhotoURL: ownedPrefix + "photos/old.jpg",
		ResumeURL:       ownedPrefix + "resumes/cv.pdf",
	}}
	fx := newPortfolioFixture(t, st)

	next := validBiography()
	next.ProfilePhotoURL = ownedPrefix + "photos/new.jpg"
	next.ResumeURL = ownedPrefix + "resumes/cv.pdf"

	saved, err := fx.svc.UpdateBiography(context.Background(), next, testActor, models.ClientMetadata{})
	require.NoError(t, err)
	assert.Equal(t, ownedPrefix+"photos/new.jpg", saved.ProfilePhotoURL)

	// Only the replaced photo is removed; the unchanged resume stays.
	assert.Equal(t, []string{ownedPrefix + "photos/old.jpg"}, fx.blobs.deletions())
}

func TestUpdateBiographySkipsForeignAndEmptyURLs(t *testing.T) {
	st := &fakeStorage{bio: &models.Biography{
		ID:              1,
		FullName:        "Ada Lovelace",
		Title:           "Software Engineer",
		Bio:             "I build things.",
		Email:           "ada@example.com",
		ProfilePhotoURL: "https://elsewhere.example.org/avatar.png",
	}}
	fx := newPortfolioFixture(t, st)

	next := validBiography()
	next.ProfilePhotoURL = ownedPrefix + "photos/new.jpg"

	_, err := fx.svc.UpdateBiography(context.Background(), next, testActor, models.ClientMetadata{})
	require.NoError(t, err)

	assert.Empty(t, fx.blobs.deletions())
}

func TestUpdateBiographyFailedBlobDeleteDoesNotFailUpdate(t *testing.T) {
	oldPhoto := ownedPrefix + "photos/old.jpg"
	st := &fakeStorage{bio: &models.Biography{
		ID:              1,
		FullName:        "Ada Lovelace",
		Title:           "Software Engineer",
		Bio:             "I build things.",
		Email:           "ada@example.com",
		ProfilePhotoURL: oldPhoto,
	}}
	fx := newPortfolioFixture(t, st)
	fx.blobs.failFor = oldPhoto

	next := validBiography()
	next.ProfilePhotoURL = ownedPrefix + "photos/new.jpg"

	_, err := fx.svc.UpdateBiography(context.Background(), next, testActor, models.ClientMetadata{})
	require.NoError(t, err)

	// Drain the audit queue so the failure entry is visible.
	fx.audit.Close()

	var found bool
	for _, e := range fx.sink.all() {
		if e.EventType == models.EventFileDelete && !e.Success {
			found = true
		}
	}
	assert.True(t, found, "expected a failed FILE_DELETE audit entry")
	assert.Empty(t, fx.blobs.deletions())
}

func TestUpdateBiographyRejectsInvalidInput(t *testing.T) {
	fx := newPortfolioFixture(t, &fakeStorage{})

	bad := validBiography()
	bad.Email = "not-an-email"

	_, err := fx.svc.UpdateBiography(context.Background(), bad, testActor, models.ClientMetadata{})
	require.Error(t, err)

	var appErr *util.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, util.KindValidation, appErr.Kind)
	assert.Empty(t, fx.blobs.deletions())
}

func TestUpdateProjectDeletesReplacedFiles(t *testing.T) {
	st := &fakeStorage{projects: map[int64]*models.Project{
		7: {
			ID:          7,
			Title:       "Portfolio",
			Description: "My personal site.",
			ImageURL:    ownedPrefix + "projects/old.png",
			PdfURL:      ownedPrefix + "projects/old.pdf",
		},
	}}
	fx := newPortfolioFixture(t, st)

	next := models.Project{
		ID:          7,
		Title:       "Portfolio",
		Description: "My personal site.",
		ImageURL:    ownedPrefix + "projects/new.png",
		PdfURL:      ownedPrefix + "projects/old.pdf",
	}

	_, err := fx.svc.UpdateProject(context.Background(), next, testActor, models.ClientMetadata{})
	require.NoError(t, err)

	assert.Equal(t, []string{ownedPrefix + "projects/old.png"}, fx.blobs.deletions())
}

func TestDeleteProjectRemovesItsBlobs(t *testing.T) {
	st := &fakeStorage{projects: map[int64]*models.Project{
		7: {
			ID:          7,
			Title:       "Portfolio",
			Description: "My personal site.",
			ImageURL:    ownedPrefix + "projects/shot.png",
			PdfURL:      ownedPrefix + "projects/writeup.pdf",
		},
	}}
	fx := newPortfolioFixture(t, st)

	err := fx.svc.DeleteProject(context.Background(), 7, testActor, models.ClientMetadata{})
	require.NoError(t, err)

	assert.ElementsMatch(t,
		[]string{ownedPrefix + "projects/shot.png", ownedPrefix + "projects/writeup.pdf"},
		fx.blobs.deletions())

	_, err = fx.svc.GetProject(context.Background(), 7)
	var appErr *util.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, util.KindNotFound, appErr.Kind)
}

func TestUpdateProjectMissingReturnsNotFound(t *testing.T) {
	fx := newPortfolioFixture(t, &fakeStorage{projects: map[int64]*models.Project{}})

	_, err := fx.svc.UpdateProject(context.Background(), models.Project{
		ID:          99,
		Title:       "Ghost",
		Description: "Does not exist.",
	}, testActor, models.ClientMetadata{})

	var appErr *util.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, util.KindNotFound, appErr.Kind)
}
