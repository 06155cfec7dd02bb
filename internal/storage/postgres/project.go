package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rryowa/portfolio-backend/internal/models"
	"github.com/rryowa/portfolio-backend/internal/storage"
)

type ProjectRepository struct {
	db storage.DBTX
}

func NewProjectRepository(db storage.DBTX) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `id, title, description, repo_url, live_url, image_url, pdf_url, display_order, featured, created_at, updated_at`

func scanProject(row interface{ Scan(...interface{}) error }, p *models.Project) error {
	return row.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.RepoURL,
		&p.LiveURL,
		&p.ImageURL,
		&p.PdfURL,
		&p.DisplayOrder,
		&p.Featured,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

func (r *ProjectRepository) ListProjects(ctx context.Context, featuredOnly bool) ([]models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`
	if featuredOnly {
		query += ` WHERE featured = TRUE`
	}
	query += ` ORDER BY display_order, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		if err := scanProject(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}

	if err := r.attachSkillIDs(ctx, projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *ProjectRepository) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	var p models.Project
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	if err := scanProject(r.db.QueryRowContext(ctx, query, id), &p); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("project %d: %w", id, storage.ErrProjectNotFound)
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	skillIDs, err := r.skillIDsFor(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.SkillIDs = skillIDs
	return &p, nil
}

func (r *ProjectRepository) DeleteProject(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("project %d: %w", id, storage.ErrProjectNotFound)
	}
	return nil
}

func (r *ProjectRepository) insertProject(ctx context.Context, p models.Project) (*models.Project, error) {
	query := `INSERT INTO projects (title, description, repo_url, live_url, image_url, pdf_url, display_order, featured, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING ` + projectColumns

	var created models.Project
	row := r.db.QueryRowContext(ctx, query,
		p.Title, p.Description, p.RepoURL, p.LiveURL, p.ImageURL, p.PdfURL, p.DisplayOrder, p.Featured)
	if err := scanProject(row, &created); err != nil {
		return nil, fmt.Errorf("failed to insert project: %w", err)
	}
	return &created, nil
}

func (r *ProjectRepository) updateProject(ctx context.Context, p models.Project) (*models.Project, error) {
	query := `UPDATE projects SET title = $1, description = $2, repo_url = $3, live_url = $4, image_url = $5, pdf_url = $6, display_order = $7, featured = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING ` + projectColumns

	var updated models.Project
	row := r.db.QueryRowContext(ctx, query,
		p.Title, p.Description, p.RepoURL, p.LiveURL, p.ImageURL, p.PdfURL, p.DisplayOrder, p.Featured, p.ID)
	if err := scanProject(row, &updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("project %d: %w", p.ID, storage.ErrProjectNotFound)
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return &updated, nil
}

func (r *ProjectRepository) replaceSkillLinks(ctx context.Context, projectID int64, skillIDs []int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM project_skills WHERE project_id = $1`, projectID); err != nil {
		return fmt.Errorf("failed to clear project skills: %w", err)
	}
	for _, skillID := range skillIDs {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO project_skills (project_id, skill_id) VALUES ($1, $2)`, projectID, skillID)
		if err != nil {
			return fmt.Errorf("failed to link skill %d: %w", skillID, err)
		}
	}
	return nil
}

func (r *ProjectRepository) skillIDsFor(ctx context.Context, projectID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT skill_id FROM project_skills WHERE project_id = $1 ORDER BY skill_id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project skills: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan skill id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *ProjectRepository) attachSkillIDs(ctx context.Context, projects []models.Project) error {
	if len(projects) == 0 {
		return nil
	}

	rows, err := r.db.QueryContext(ctx, `SELECT project_id, skill_id FROM project_skills ORDER BY skill_id`)
	if err != nil {
		return fmt.Errorf("failed to list project skills: %w", err)
	}
	defer rows.Close()

	byProject := make(map[int64][]int64)
	for rows.Next() {
		var projectID, skillID int64
		if err := rows.Scan(&projectID, &skillID); err != nil {
			return fmt.Errorf("failed to scan project skill: %w", err)
		}
		byProject[projectID] = append(byProject[projectID], skillID)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate project skills: %w", err)
	}

	for i := range projects {
		projects[i].SkillIDs = byProject[projects[i].ID]
	}
	return nil
}
