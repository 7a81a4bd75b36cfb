package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/copa-samurai/tournament-api/models"
)

var (
	ErrSenseiNotFound         = errors.New("sensei not found")
	ErrSenseiUsernameConflict = errors.New("username is already taken")
	ErrSenseiInvalidDojo      = errors.New("invalid dojo reference")
)

type SenseiRepository interface {
	Create(ctx context.Context, sensei *models.Sensei) error
	GetByID(ctx context.Context, id int) (*models.Sensei, error)
	GetByUsername(ctx context.Context, username string) (*models.Sensei, error)
	List(ctx context.Context) ([]models.Sensei, error)
	Update(ctx context.Context, sensei *models.Sensei) error
	UpdatePasswordHash(ctx context.Context, id int, passwordHash string) error
	Delete(ctx context.Context, id int) error
}

type postgresSenseiRepository struct {
	db *sql.DB
}

func NewPostgresSenseiRepository(db *sql.DB) SenseiRepository {
	return &postgresSenseiRepository{db: db}
}

const senseiColumns = `s.id, s.name, s.username, s.password_hash, s.dojo_id, s.role, s.created_at`

func (r *postgresSenseiRepository) Create(ctx context.Context, s *models.Sensei) error {
	query := `
		INSERT INTO senseis (name, username, password_hash, dojo_id, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		s.Name, s.Username, s.PasswordHash, s.DojoID, s.Role,
	).Scan(&s.ID, &s.CreatedAt)
	return handleSenseiError(err)
}

func (r *postgresSenseiRepository) GetByID(ctx context.Context, id int) (*models.Sensei, error) {
	query := `SELECT ` + senseiColumns + ` FROM senseis s WHERE s.id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresSenseiRepository) GetByUsername(ctx context.Context, username string) (*models.Sensei, error) {
	query := `SELECT ` + senseiColumns + ` FROM senseis s WHERE s.username = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, username))
}

func (r *postgresSenseiRepository) scanOne(row *sql.Row) (*models.Sensei, error) {
	s := &models.Sensei{}
	err := row.Scan(&s.ID, &s.Name, &s.Username, &s.PasswordHash, &s.DojoID, &s.Role, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSenseiNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *postgresSenseiRepository) List(ctx context.Context) ([]models.Sensei, error) {
	query := `SELECT ` + senseiColumns + ` FROM senseis s ORDER BY s.name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	senseis := make([]models.Sensei, 0)
	for rows.Next() {
		var s models.Sensei
		if err := rows.Scan(&s.ID, &s.Name, &s.Username, &s.PasswordHash, &s.DojoID, &s.Role, &s.CreatedAt); err != nil {
			return nil, err
		}
		senseis = append(senseis, s)
	}
	return senseis, rows.Err()
}

func (r *postgresSenseiRepository) Update(ctx context.Context, s *models.Sensei) error {
	query := `UPDATE senseis SET name = $1, username = $2, dojo_id = $3, role = $4 WHERE id = $5`

	result, err := r.db.ExecContext(ctx, query, s.Name, s.Username, s.DojoID, s.Role, s.ID)
	if err != nil {
		return handleSenseiError(err)
	}
	return checkAffectedRows(result, ErrSenseiNotFound)
}

func (r *postgresSenseiRepository) UpdatePasswordHash(ctx context.Context, id int, passwordHash string) error {
	query := `UPDATE senseis SET password_hash = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrSenseiNotFound)
}

func (r *postgresSenseiRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM senseis WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrSenseiNotFound)
}

func handleSenseiError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			return ErrSenseiUsernameConflict
		case "23503":
			return ErrSenseiInvalidDojo
		}
	}
	return err
}
