package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/copa-samurai/tournament-api/models"
)

var (
	ErrBracketNotFound         = errors.New("bracket not found")
	ErrBracketCategoryConflict = errors.New("a bracket already exists for this category")
	ErrBracketInvalidRef       = errors.New("invalid category or sensei reference")
	ErrBracketVersionConflict  = errors.New("bracket was modified concurrently")
)

// BracketRepository persists the bracket as a single aggregate: the rounds
// tree is one JSONB document and every mutation replaces it wholesale,
// guarded by an optimistic version check so two admins editing the same
// bracket cannot silently overwrite each other.
type BracketRepository interface {
	Create(ctx context.Context, b *models.Bracket) error
	GetByID(ctx context.Context, id int) (*models.Bracket, error)
	GetByCategoryID(ctx context.Context, categoryID int) (*models.Bracket, error)
	GetByPublicToken(ctx context.Context, token string) (*models.Bracket, error)
	List(ctx context.Context) ([]models.Bracket, error)
	UpdateDocument(ctx context.Context, b *models.Bracket) error
	DeleteByCategoryID(ctx context.Context, categoryID int) error
}

type postgresBracketRepository struct {
	db *sql.DB
}

func NewPostgresBracketRepository(db *sql.DB) BracketRepository {
	return &postgresBracketRepository{db: db}
}

const bracketColumns = `
	id, category_id, modality, public_token, rounds, total_competitors,
	status, created_by_id, version, created_at, updated_at`

func scanBracket(scanner interface{ Scan(...interface{}) error }) (*models.Bracket, error) {
	b := &models.Bracket{}
	var rounds []byte
	err := scanner.Scan(
		&b.ID, &b.CategoryID, &b.Modality, &b.PublicToken, &rounds, &b.TotalCompetitors,
		&b.Status, &b.CreatedByID, &b.Version, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(rounds, &b.Rounds); err != nil {
		return nil, fmt.Errorf("failed to decode bracket rounds document: %w", err)
	}
	return b, nil
}

func (r *postgresBracketRepository) Create(ctx context.Context, b *models.Bracket) error {
	rounds, err := json.Marshal(b.Rounds)
	if err != nil {
		return fmt.Errorf("failed to encode bracket rounds document: %w", err)
	}

	query := `
		INSERT INTO brackets (
			category_id, modality, public_token, rounds, total_competitors, status, created_by_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, version, created_at, updated_at`

	err = r.db.QueryRowContext(ctx, query,
		b.CategoryID, b.Modality, b.PublicToken, rounds, b.TotalCompetitors, b.Status, b.CreatedByID,
	).Scan(&b.ID, &b.Version, &b.CreatedAt, &b.UpdatedAt)
	return handleBracketError(err)
}

func (r *postgresBracketRepository) GetByID(ctx context.Context, id int) (*models.Bracket, error) {
	query := `SELECT ` + bracketColumns + ` FROM brackets WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *postgresBracketRepository) GetByCategoryID(ctx context.Context, categoryID int) (*models.Bracket, error) {
	query := `SELECT ` + bracketColumns + ` FROM brackets WHERE category_id = $1`
	return r.getOne(ctx, query, categoryID)
}

func (r *postgresBracketRepository) GetByPublicToken(ctx context.Context, token string) (*models.Bracket, error) {
	query := `SELECT ` + bracketColumns + ` FROM brackets WHERE public_token = $1`
	return r.getOne(ctx, query, token)
}

func (r *postgresBracketRepository) getOne(ctx context.Context, query string, arg interface{}) (*models.Bracket, error) {
	b, err := scanBracket(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBracketNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *postgresBracketRepository) List(ctx context.Context) ([]models.Bracket, error) {
	query := `SELECT ` + bracketColumns + ` FROM brackets ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	brackets := make([]models.Bracket, 0)
	for rows.Next() {
		b, err := scanBracket(rows)
		if err != nil {
			return nil, err
		}
		brackets = append(brackets, *b)
	}
	return brackets, rows.Err()
}

// UpdateDocument writes back a mutated bracket. The WHERE clause matches
// the version the caller read; zero affected rows means someone else wrote
// in between and the caller must re-read and retry.
func (r *postgresBracketRepository) UpdateDocument(ctx context.Context, b *models.Bracket) error {
	rounds, err := json.Marshal(b.Rounds)
	if err != nil {
		return fmt.Errorf("failed to encode bracket rounds document: %w", err)
	}

	query := `
		UPDATE brackets SET
			rounds = $1,
			status = $2,
			version = version + 1,
			updated_at = NOW()
		WHERE id = $3 AND version = $4`

	result, err := r.db.ExecContext(ctx, query, rounds, b.Status, b.ID, b.Version)
	if err != nil {
		return err
	}
	if err := checkAffectedRows(result, ErrBracketVersionConflict); err != nil {
		return err
	}
	b.Version++
	return nil
}

func (r *postgresBracketRepository) DeleteByCategoryID(ctx context.Context, categoryID int) error {
	query := `DELETE FROM brackets WHERE category_id = $1`

	result, err := r.db.ExecContext(ctx, query, categoryID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrBracketNotFound)
}

func handleBracketError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "brackets_category_id_key" {
				return ErrBracketCategoryConflict
			}
			// public_token collisions are practically impossible but map
			// to the same conflict class.
			return ErrBracketCategoryConflict
		case "23503":
			return ErrBracketInvalidRef
		}
	}
	return err
}
