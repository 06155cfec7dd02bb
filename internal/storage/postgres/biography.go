package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rryowa/portfolio-backend/internal/models"
	"github.com/rryowa/portfolio-backend/internal/storage"
)

type BiographyRepository struct {
	db storage.DBTX
}

func NewBiographyRepository(db storage.DBTX) *BiographyRepository {
	return &BiographyRepository{db: db}
}

// GetBiography returns the single biography row.
func (r *BiographyRepository) GetBiography(ctx context.Context) (*models.Biography, error) {
	var bio models.Biography
	query := `SELECT id, full_name, title, bio, email, phone, location, linkedin_url, github_url, resume_url, profile_photo_url, updated_at FROM biography WHERE id = 1`
	err := r.db.QueryRowContext(ctx, query).Scan(
		&bio.ID,
		&bio.FullName,
		&bio.Title,
		&bio.Bio,
		&bio.Email,
		&bio.Phone,
		&bio.Location,
		&bio.LinkedinURL,
		&bio.GithubURL,
		&bio.ResumeURL,
		&bio.ProfilePhotoURL,
		&bio.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, storage.ErrBiographyNotFound
		}
		return nil, fmt.Errorf("failed to get biography: %w", err)
	}
	return &bio, nil
}

func (r *BiographyRepository) UpsertBiography(ctx context.Context, bio models.Biography) (*models.Biography, error) {
	query := `INSERT INTO biography (id, full_name, title, bio, email, phone, location, linkedin_url, github_url, resume_url, profile_photo_url, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		ON CONFLICT (id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			title = EXCLUDED.title,
			bio = EXCLUDED.bio,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			location = EXCLUDED.location,
			linkedin_url = EXCLUDED.linkedin_url,
			github_url = EXCLUDED.github_url,
			resume_url = EXCLUDED.resume_url,
			profile_photo_url = EXCLUDED.profile_photo_url,
			updated_at = NOW()
		RETURNING id, full_name, title, bio, email, phone, location, linkedin_url, github_url, resume_url, profile_photo_url, updated_at`

	var saved models.Biography
	err := r.db.QueryRowContext(
		ctx,
		query,
		bio.FullName,
		bio.Title,
		bio.Bio,
		bio.Email,
		bio.Phone,
		bio.Location,
		bio.LinkedinURL,
		bio.GithubURL,
		bio.ResumeURL,
		bio.ProfilePhotoURL,
	).Scan(
		&saved.ID,
		&saved.FullName,
		&saved.Title,
		&saved.Bio,
		&saved.Email,
		&saved.Phone,
		&saved.Location,
		&saved.LinkedinURL,
		&saved.GithubURL,
		&saved.ResumeURL,
		&saved.ProfilePhotoURL,
		&saved.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert biography: %w", err)
	}
	return &saved, nil
}
