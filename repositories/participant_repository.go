package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/copa-samurai/tournament-api/models"
)

var (
	ErrParticipantNotFound     = errors.New("participant not found")
	ErrParticipantNameConflict = errors.New("participant name is already registered")
	ErrParticipantInvalidDojo  = errors.New("invalid dojo reference")
)

// EligibilityFilter selects participants for an Individual category:
// registered for the discipline, inside the age range, matching gender
// unless the category is mixed, and holding a grade from the level band.
type EligibilityFilter struct {
	ModalityColumn string // one of the modality flag columns, validated by the service
	AgeMin         int
	AgeMax         int
	Gender         *models.Gender
	Grades         []string
}

type ParticipantRepository interface {
	Create(ctx context.Context, p *models.Participant) error
	GetByID(ctx context.Context, id int) (*models.Participant, error)
	List(ctx context.Context, dojoID *int) ([]models.Participant, error)
	ListByIDs(ctx context.Context, ids []int) ([]models.Participant, error)
	ListIDsByDojo(ctx context.Context, dojoID int) ([]int, error)
	ListEligible(ctx context.Context, filter EligibilityFilter) ([]models.Participant, error)
	Update(ctx context.Context, p *models.Participant) error
	Delete(ctx context.Context, id int) error
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

const participantColumns = `
	p.id, p.name, p.age, p.gender, p.grade, p.dojo_id, p.created_by_id,
	p.kata_individual, p.kata_team, p.kumite_individual, p.kumite_team, p.kihon_ippon,
	p.created_at,
	d.id, d.name, d.location, d.logo_key, d.created_at`

func scanParticipant(scanner interface{ Scan(...interface{}) error }) (*models.Participant, error) {
	p := &models.Participant{}
	d := models.Dojo{}
	err := scanner.Scan(
		&p.ID, &p.Name, &p.Age, &p.Gender, &p.Grade, &p.DojoID, &p.CreatedByID,
		&p.Modalities.KataIndividual, &p.Modalities.KataTeam,
		&p.Modalities.KumiteIndividual, &p.Modalities.KumiteTeam, &p.Modalities.KihonIppon,
		&p.CreatedAt,
		&d.ID, &d.Name, &d.Location, &d.LogoKey, &d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Dojo = &d
	return p, nil
}

func (r *postgresParticipantRepository) Create(ctx context.Context, p *models.Participant) error {
	query := `
		INSERT INTO participants (
			name, age, gender, grade, dojo_id, created_by_id,
			kata_individual, kata_team, kumite_individual, kumite_team, kihon_ippon
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		p.Name, p.Age, p.Gender, p.Grade, p.DojoID, p.CreatedByID,
		p.Modalities.KataIndividual, p.Modalities.KataTeam,
		p.Modalities.KumiteIndividual, p.Modalities.KumiteTeam, p.Modalities.KihonIppon,
	).Scan(&p.ID, &p.CreatedAt)
	return handleParticipantError(err)
}

func (r *postgresParticipantRepository) GetByID(ctx context.Context, id int) (*models.Participant, error) {
	query := `
		SELECT ` + participantColumns + `
		FROM participants p
		JOIN dojos d ON d.id = p.dojo_id
		WHERE p.id = $1`

	p, err := scanParticipant(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresParticipantRepository) List(ctx context.Context, dojoID *int) ([]models.Participant, error) {
	query := `
		SELECT ` + participantColumns + `
		FROM participants p
		JOIN dojos d ON d.id = p.dojo_id`
	args := []interface{}{}
	if dojoID != nil {
		query += ` WHERE p.dojo_id = $1`
		args = append(args, *dojoID)
	}
	query += ` ORDER BY p.name`

	return r.queryMany(ctx, query, args...)
}

func (r *postgresParticipantRepository) ListByIDs(ctx context.Context, ids []int) ([]models.Participant, error) {
	if len(ids) == 0 {
		return []models.Participant{}, nil
	}
	query := `
		SELECT ` + participantColumns + `
		FROM participants p
		JOIN dojos d ON d.id = p.dojo_id
		WHERE p.id = ANY($1)`

	return r.queryMany(ctx, query, pq.Array(ids))
}

func (r *postgresParticipantRepository) ListIDsByDojo(ctx context.Context, dojoID int) ([]int, error) {
	query := `SELECT id FROM participants WHERE dojo_id = $1`

	rows, err := r.db.QueryContext(ctx, query, dojoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListEligible feeds bracket generation. The modality column name comes
// from a fixed discipline mapping in the service layer, never from user
// input, so interpolating it is safe.
func (r *postgresParticipantRepository) ListEligible(ctx context.Context, filter EligibilityFilter) ([]models.Participant, error) {
	query := `
		SELECT ` + participantColumns + `
		FROM participants p
		JOIN dojos d ON d.id = p.dojo_id
		WHERE p.` + filter.ModalityColumn + ` = TRUE
		  AND p.age BETWEEN $1 AND $2`

	args := []interface{}{filter.AgeMin, filter.AgeMax}
	argID := 3

	if filter.Gender != nil {
		query += ` AND p.gender = $3`
		args = append(args, *filter.Gender)
		argID++
	}
	if len(filter.Grades) > 0 {
		query += fmt.Sprintf(" AND p.grade = ANY($%d)", argID)
		args = append(args, pq.Array(filter.Grades))
	}
	query += ` ORDER BY p.id`

	return r.queryMany(ctx, query, args...)
}

func (r *postgresParticipantRepository) queryMany(ctx context.Context, query string, args ...interface{}) ([]models.Participant, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participants := make([]models.Participant, 0)
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		participants = append(participants, *p)
	}
	return participants, rows.Err()
}

func (r *postgresParticipantRepository) Update(ctx context.Context, p *models.Participant) error {
	query := `
		UPDATE participants SET
			name = $1, age = $2, gender = $3, grade = $4, dojo_id = $5,
			kata_individual = $6, kata_team = $7,
			kumite_individual = $8, kumite_team = $9, kihon_ippon = $10
		WHERE id = $11`

	result, err := r.db.ExecContext(ctx, query,
		p.Name, p.Age, p.Gender, p.Grade, p.DojoID,
		p.Modalities.KataIndividual, p.Modalities.KataTeam,
		p.Modalities.KumiteIndividual, p.Modalities.KumiteTeam, p.Modalities.KihonIppon,
		p.ID,
	)
	if err != nil {
		return handleParticipantError(err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM participants WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func handleParticipantError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			return ErrParticipantNameConflict
		case "23503":
			return ErrParticipantInvalidDojo
		}
	}
	return err
}
