package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/stacking-tournament/models"
	"github.com/lib/pq"
)

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id string) (*models.Team, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]models.Team, error)
	UpdateMembers(ctx context.Context, team *models.Team) error
}

type postgresTeamRepository struct {
	db SQLExecutor
}

func NewPostgresTeamRepository(db SQLExecutor) TeamRepository {
	return &postgresTeamRepository{db: db}
}

const teamColumns = `id, tournament_id, event_id, name, leader_id, members, largest_age, created_at`

func (r *postgresTeamRepository) scanTeam(row rowScanner) (*models.Team, error) {
	var t models.Team
	var members []byte
	if err := row.Scan(&t.ID, &t.TournamentID, &t.EventID, &t.Name, &t.LeaderID, &members, &t.LargestAge, &t.CreatedAt); err != nil {
		return nil, notFound(err, ErrTeamNotFound)
	}
	if err := fromJSONB(members, &t.Members); err != nil {
		return nil, fmt.Errorf("team %s: %w", t.ID, err)
	}
	return &t, nil
}

func (r *postgresTeamRepository) Create(ctx context.Context, t *models.Team) error {
	ensureID(&t.ID)
	members, err := toJSONB(t.Members)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO teams (id, tournament_id, event_id, name, leader_id, members, largest_age)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`
	err = r.db.QueryRowContext(ctx, query,
		t.ID, t.TournamentID, t.EventID, t.Name, t.LeaderID, members, t.LargestAge,
	).Scan(&t.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrTeamNameConflict
		}
		return err
	}
	return nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id string) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`
	return r.scanTeam(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresTeamRepository) ListByTournament(ctx context.Context, tournamentID string) ([]models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE tournament_id = $1 ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for tournament %s: %w", tournamentID, err)
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		t, scanErr := r.scanTeam(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		teams = append(teams, *t)
	}
	return teams, rows.Err()
}

func (r *postgresTeamRepository) UpdateMembers(ctx context.Context, t *models.Team) error {
	members, err := toJSONB(t.Members)
	if err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx,
		`UPDATE teams SET members = $1, largest_age = $2 WHERE id = $3`,
		members, t.LargestAge, t.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}
