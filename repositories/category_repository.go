package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/copa-samurai/tournament-api/models"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryConflict = errors.New("an equivalent category already exists")
	ErrCategoryInUse    = errors.New("category has registered teams or a bracket")
)

type CategoryRepository interface {
	Create(ctx context.Context, c *models.Category) error
	GetByID(ctx context.Context, id int) (*models.Category, error)
	List(ctx context.Context, onlyActive bool) ([]models.Category, error)
	ListByIDs(ctx context.Context, ids []int) ([]models.Category, error)
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id int) error
}

type postgresCategoryRepository struct {
	db *sql.DB
}

func NewPostgresCategoryRepository(db *sql.DB) CategoryRepository {
	return &postgresCategoryRepository{db: db}
}

const categoryColumns = `id, name, discipline_code, age_min, age_max, gender, level, modality, active, created_at`

func scanCategory(scanner interface{ Scan(...interface{}) error }) (*models.Category, error) {
	c := &models.Category{}
	err := scanner.Scan(
		&c.ID, &c.Name, &c.DisciplineCode, &c.AgeMin, &c.AgeMax,
		&c.Gender, &c.Level, &c.Modality, &c.Active, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *postgresCategoryRepository) Create(ctx context.Context, c *models.Category) error {
	query := `
		INSERT INTO categories (name, discipline_code, age_min, age_max, gender, level, modality, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		c.Name, c.DisciplineCode, c.AgeMin, c.AgeMax, c.Gender, c.Level, c.Modality, c.Active,
	).Scan(&c.ID, &c.CreatedAt)
	return handleCategoryError(err)
}

func (r *postgresCategoryRepository) GetByID(ctx context.Context, id int) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`

	c, err := scanCategory(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *postgresCategoryRepository) List(ctx context.Context, onlyActive bool) ([]models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories`
	if onlyActive {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY name`

	return r.queryMany(ctx, query)
}

func (r *postgresCategoryRepository) ListByIDs(ctx context.Context, ids []int) ([]models.Category, error) {
	if len(ids) == 0 {
		return []models.Category{}, nil
	}
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = ANY($1)`
	return r.queryMany(ctx, query, pq.Array(ids))
}

func (r *postgresCategoryRepository) queryMany(ctx context.Context, query string, args ...interface{}) ([]models.Category, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]models.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

func (r *postgresCategoryRepository) Update(ctx context.Context, c *models.Category) error {
	query := `
		UPDATE categories SET
			name = $1, discipline_code = $2, age_min = $3, age_max = $4,
			gender = $5, level = $6, modality = $7, active = $8
		WHERE id = $9`

	result, err := r.db.ExecContext(ctx, query,
		c.Name, c.DisciplineCode, c.AgeMin, c.AgeMax, c.Gender, c.Level, c.Modality, c.Active, c.ID,
	)
	if err != nil {
		return handleCategoryError(err)
	}
	return checkAffectedRows(result, ErrCategoryNotFound)
}

func (r *postgresCategoryRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM categories WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return handleCategoryError(err)
	}
	return checkAffectedRows(result, ErrCategoryNotFound)
}

func handleCategoryError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			return ErrCategoryConflict
		case "23503":
			return ErrCategoryInUse
		}
	}
	return err
}
