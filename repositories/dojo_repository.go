package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/copa-samurai/tournament-api/models"
)

var (
	ErrDojoNotFound     = errors.New("dojo not found")
	ErrDojoNameConflict = errors.New("dojo name is already in use")
	ErrDojoInUse        = errors.New("dojo has registered senseis, participants or teams")
)

type DojoRepository interface {
	Create(ctx context.Context, dojo *models.Dojo) error
	GetByID(ctx context.Context, id int) (*models.Dojo, error)
	List(ctx context.Context) ([]models.Dojo, error)
	Update(ctx context.Context, dojo *models.Dojo) error
	UpdateLogoKey(ctx context.Context, id int, logoKey *string) error
	Delete(ctx context.Context, id int) error
}

type postgresDojoRepository struct {
	db *sql.DB
}

func NewPostgresDojoRepository(db *sql.DB) DojoRepository {
	return &postgresDojoRepository{db: db}
}

func (r *postgresDojoRepository) Create(ctx context.Context, d *models.Dojo) error {
	query := `
		INSERT INTO dojos (name, location)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, d.Name, d.Location).Scan(&d.ID, &d.CreatedAt)
	return handleDojoError(err)
}

func (r *postgresDojoRepository) GetByID(ctx context.Context, id int) (*models.Dojo, error) {
	query := `SELECT id, name, location, logo_key, created_at FROM dojos WHERE id = $1`

	d := &models.Dojo{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&d.ID, &d.Name, &d.Location, &d.LogoKey, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDojoNotFound
		}
		return nil, err
	}
	return d, nil
}

func (r *postgresDojoRepository) List(ctx context.Context) ([]models.Dojo, error) {
	query := `SELECT id, name, location, logo_key, created_at FROM dojos ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dojos := make([]models.Dojo, 0)
	for rows.Next() {
		var d models.Dojo
		if err := rows.Scan(&d.ID, &d.Name, &d.Location, &d.LogoKey, &d.CreatedAt); err != nil {
			return nil, err
		}
		dojos = append(dojos, d)
	}
	return dojos, rows.Err()
}

func (r *postgresDojoRepository) Update(ctx context.Context, d *models.Dojo) error {
	query := `UPDATE dojos SET name = $1, location = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, d.Name, d.Location, d.ID)
	if err != nil {
		return handleDojoError(err)
	}
	return checkAffectedRows(result, ErrDojoNotFound)
}

func (r *postgresDojoRepository) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	query := `UPDATE dojos SET logo_key = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, logoKey, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrDojoNotFound)
}

func (r *postgresDojoRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM dojos WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return handleDojoError(err)
	}
	return checkAffectedRows(result, ErrDojoNotFound)
}

func handleDojoError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			return ErrDojoNameConflict
		case "23503":
			return ErrDojoInUse
		}
	}
	return err
}
