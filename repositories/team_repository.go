package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/copa-samurai/tournament-api/models"
)

var (
	ErrTeamNotFound        = errors.New("team not found")
	ErrTeamNameConflict    = errors.New("team name is already in use for this dojo")
	ErrTeamInvalidRef      = errors.New("invalid dojo or category reference")
	ErrTeamMemberInvalid   = errors.New("team member does not exist")
	ErrTeamMemberDuplicate = errors.New("participant is already on the team")
)

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	List(ctx context.Context, dojoID *int) ([]models.Team, error)
	ListByIDs(ctx context.Context, ids []int) ([]models.Team, error)
	ListIDsByDojo(ctx context.Context, dojoID int) ([]int, error)
	ListActiveByCategory(ctx context.Context, categoryID int) ([]models.Team, error)
	Update(ctx context.Context, team *models.Team) error
	Delete(ctx context.Context, id int) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

const teamColumns = `
	t.id, t.name, t.category_id, t.dojo_id, t.team_number, t.state, t.created_at,
	d.id, d.name, d.location, d.logo_key, d.created_at`

func scanTeam(scanner interface{ Scan(...interface{}) error }) (*models.Team, error) {
	t := &models.Team{}
	d := models.Dojo{}
	err := scanner.Scan(
		&t.ID, &t.Name, &t.CategoryID, &t.DojoID, &t.TeamNumber, &t.State, &t.CreatedAt,
		&d.ID, &d.Name, &d.Location, &d.LogoKey, &d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Dojo = &d
	return t, nil
}

func (r *postgresTeamRepository) Create(ctx context.Context, t *models.Team) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO teams (name, category_id, dojo_id, team_number, state)
		VALUES ($1, $2, $3,
			COALESCE((SELECT MAX(team_number) FROM teams WHERE dojo_id = $3), 0) + 1,
			$4)
		RETURNING id, team_number, created_at`

	err = tx.QueryRowContext(ctx, query, t.Name, t.CategoryID, t.DojoID, t.State).
		Scan(&t.ID, &t.TeamNumber, &t.CreatedAt)
	if err != nil {
		return handleTeamError(err)
	}

	if err := r.replaceMembers(ctx, tx, t.ID, t.MemberIDs); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *postgresTeamRepository) replaceMembers(ctx context.Context, exec SQLExecutor, teamID int, memberIDs []int) error {
	if _, err := exec.ExecContext(ctx, `DELETE FROM team_members WHERE team_id = $1`, teamID); err != nil {
		return err
	}
	for _, pid := range memberIDs {
		_, err := exec.ExecContext(ctx,
			`INSERT INTO team_members (team_id, participant_id) VALUES ($1, $2)`, teamID, pid)
		if err != nil {
			return handleTeamError(err)
		}
	}
	return nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `
		SELECT ` + teamColumns + `
		FROM teams t
		JOIN dojos d ON d.id = t.dojo_id
		WHERE t.id = $1`

	t, err := scanTeam(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	if err := r.loadMembers(ctx, []*models.Team{t}); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *postgresTeamRepository) List(ctx context.Context, dojoID *int) ([]models.Team, error) {
	query := `
		SELECT ` + teamColumns + `
		FROM teams t
		JOIN dojos d ON d.id = t.dojo_id`
	args := []interface{}{}
	if dojoID != nil {
		query += ` WHERE t.dojo_id = $1`
		args = append(args, *dojoID)
	}
	query += ` ORDER BY t.name`

	return r.queryMany(ctx, query, args...)
}

func (r *postgresTeamRepository) ListByIDs(ctx context.Context, ids []int) ([]models.Team, error) {
	if len(ids) == 0 {
		return []models.Team{}, nil
	}
	query := `
		SELECT ` + teamColumns + `
		FROM teams t
		JOIN dojos d ON d.id = t.dojo_id
		WHERE t.id = ANY($1)`

	return r.queryMany(ctx, query, pq.Array(ids))
}

func (r *postgresTeamRepository) ListIDsByDojo(ctx context.Context, dojoID int) ([]int, error) {
	query := `SELECT id FROM teams WHERE dojo_id = $1`

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

func (r *postgresTeamRepository) ListActiveByCategory(ctx context.Context, categoryID int) ([]models.Team, error) {
	query := `
		SELECT ` + teamColumns + `
		FROM teams t
		JOIN dojos d ON d.id = t.dojo_id
		WHERE t.category_id = $1 AND t.state = $2
		ORDER BY t.id`

	return r.queryMany(ctx, query, categoryID, models.TeamStateActive)
}

func (r *postgresTeamRepository) queryMany(ctx context.Context, query string, args ...interface{}) ([]models.Team, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	ptrs := make([]*models.Team, 0)
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, *t)
		ptrs = append(ptrs, &teams[len(teams)-1])
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadMembers(ctx, ptrs); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *postgresTeamRepository) loadMembers(ctx context.Context, teams []*models.Team) error {
	if len(teams) == 0 {
		return nil
	}
	ids := make([]int, len(teams))
	byID := make(map[int]*models.Team, len(teams))
	for i, t := range teams {
		ids[i] = t.ID
		byID[t.ID] = t
		t.MemberIDs = []int{}
		t.Members = []models.Participant{}
	}

	query := `
		SELECT tm.team_id, ` + participantColumns + `
		FROM team_members tm
		JOIN participants p ON p.id = tm.participant_id
		JOIN dojos d ON d.id = p.dojo_id
		WHERE tm.team_id = ANY($1)
		ORDER BY tm.team_id, p.name`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var teamID int
		p := models.Participant{}
		d := models.Dojo{}
		err := rows.Scan(
			&teamID,
			&p.ID, &p.Name, &p.Age, &p.Gender, &p.Grade, &p.DojoID, &p.CreatedByID,
			&p.Modalities.KataIndividual, &p.Modalities.KataTeam,
			&p.Modalities.KumiteIndividual, &p.Modalities.KumiteTeam, &p.Modalities.KihonIppon,
			&p.CreatedAt,
			&d.ID, &d.Name, &d.Location, &d.LogoKey, &d.CreatedAt,
		)
		if err != nil {
			return err
		}
		p.Dojo = &d
		team := byID[teamID]
		team.MemberIDs = append(team.MemberIDs, p.ID)
		team.Members = append(team.Members, p)
	}
	return rows.Err()
}

func (r *postgresTeamRepository) Update(ctx context.Context, t *models.Team) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `UPDATE teams SET name = $1, category_id = $2, state = $3 WHERE id = $4`
	result, err := tx.ExecContext(ctx, query, t.Name, t.CategoryID, t.State, t.ID)
	if err != nil {
		return handleTeamError(err)
	}
	if err := checkAffectedRows(result, ErrTeamNotFound); err != nil {
		return err
	}
	if err := r.replaceMembers(ctx, tx, t.ID, t.MemberIDs); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *postgresTeamRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM teams WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func handleTeamError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "team_members_pkey" {
				return ErrTeamMemberDuplicate
			}
			return ErrTeamNameConflict
		case "23503":
			if pqErr.Constraint == "team_members_participant_id_fkey" {
				return ErrTeamMemberInvalid
			}
			return ErrTeamInvalidRef
		}
	}
	return err
}
