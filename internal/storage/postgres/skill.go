package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rryowa/portfolio-backend/internal/models"
	"github.com/rryowa/portfolio-backend/internal/storage"
)

type SkillRepository struct {
	db storage.DBTX
}

func NewSkillRepository(db storage.DBTX) *SkillRepository {
	return &SkillRepository{db: db}
}

func (r *SkillRepository) ListSkills(ctx context.Context) ([]models.Skill, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, category_id, display_order FROM skills ORDER BY display_order, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	defer rows.Close()

	var skills []models.Skill
	for rows.Next() {
		var s models.Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.CategoryID, &s.DisplayOrder); err != nil {
			return nil, fmt.Errorf("failed to scan skill: %w", err)
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}

func (r *SkillRepository) CreateSkill(ctx context.Context, s models.Skill) (*models.Skill, error) {
	query := `INSERT INTO skills (name, category_id, display_order) VALUES ($1, $2, $3)
		RETURNING id, name, category_id, display_order`
	var created models.Skill
	err := r.db.QueryRowContext(ctx, query, s.Name, s.CategoryID, s.DisplayOrder).
		Scan(&created.ID, &created.Name, &created.CategoryID, &created.DisplayOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to insert skill: %w", err)
	}
	return &created, nil
}

func (r *SkillRepository) UpdateSkill(ctx context.Context, s models.Skill) (*models.Skill, error) {
	query := `UPDATE skills SET name = $1, category_id = $2, display_order = $3 WHERE id = $4
		RETURNING id, name, category_id, display_order`
	var updated models.Skill
	err := r.db.QueryRowContext(ctx, query, s.Name, s.CategoryID, s.DisplayOrder, s.ID).
		Scan(&updated.ID, &updated.Name, &updated.CategoryID, &updated.DisplayOrder)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("skill %d: %w", s.ID, storage.ErrSkillNotFound)
		}
		return nil, fmt.Errorf("failed to update skill: %w", err)
	}
	return &updated, nil
}

func (r *SkillRepository) DeleteSkill(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM skills WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete skill: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("skill %d: %w", id, storage.ErrSkillNotFound)
	}
	return nil
}

func (r *SkillRepository) ListCategories(ctx context.Context) ([]models.SkillCategory, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, display_order FROM skill_categories ORDER BY display_order, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list skill categories: %w", err)
	}
	defer rows.Close()

	var categories []models.SkillCategory
	for rows.Next() {
		var c models.SkillCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.DisplayOrder); err != nil {
			return nil, fmt.Errorf("failed to scan skill category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *SkillRepository) CreateCategory(ctx context.Context, c models.SkillCategory) (*models.SkillCategory, error) {
	query := `INSERT INTO skill_categories (name, description, display_order) VALUES ($1, $2, $3)
		RETURNING id, name, description, display_order`
	var created models.SkillCategory
	err := r.db.QueryRowContext(ctx, query, c.Name, c.Description, c.DisplayOrder).
		Scan(&created.ID, &created.Name, &created.Description, &created.DisplayOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to insert skill category: %w", err)
	}
	return &created, nil
}

func (r *SkillRepository) UpdateCategory(ctx context.Context, c models.SkillCategory) (*models.SkillCategory, error) {
	query := `UPDATE skill_categories SET name = $1, description = $2, display_order = $3 WHERE id = $4
		RETURNING id, name, description, display_order`
	var updated models.SkillCategory
	err := r.db.QueryRowContext(ctx, query, c.Name, c.Description, c.DisplayOrder, c.ID).
		Scan(&updated.ID, &updated.Name, &updated.Description, &updated.DisplayOrder)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("skill category %d: %w", c.ID, storage.ErrCategoryNotFound)
		}
		return nil, fmt.Errorf("failed to update skill category: %w", err)
	}
	return &updated, nil
}

func (r *SkillRepository) DeleteCategory(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM skill_categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete skill category: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("skill category %d: %w", id, storage.ErrCategoryNotFound)
	}
	return nil
}
