package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/stacking-tournament/models"
	"github.com/lib/pq"
)

type RegistrationRepository interface {
	Create(ctx context.Context, reg *models.Registration) error
	GetByID(ctx context.Context, id string) (*models.Registration, error)
	FindByParticipant(ctx context.Context, tournamentID, participantID string) (*models.Registration, error)
	ListByTournament(ctx context.Context, tournamentID string, status *models.RegistrationStatus) ([]models.Registration, error)
	UpdateStatus(ctx context.Context, id string, status models.RegistrationStatus) error
}

type postgresRegistrationRepository struct {
	db SQLExecutor
}

func NewPostgresRegistrationRepository(db SQLExecutor) RegistrationRepository {
	return &postgresRegistrationRepository{db: db}
}

const registrationColumns = `id, tournament_id, participant_id, global_id, name, age, status, events, created_at`

func (r *postgresRegistrationRepository) scanRegistration(row rowScanner) (*models.Registration, error) {
	var reg models.Registration
	err := row.Scan(
		&reg.ID, &reg.TournamentID, &reg.ParticipantID, &reg.GlobalID, &reg.Name,
		&reg.Age, &reg.Status, pq.Array(&reg.Events), &reg.CreatedAt,
	)
	if err != nil {
		return nil, notFound(err, ErrRegistrationNotFound)
	}
	return &reg, nil
}

func (r *postgresRegistrationRepository) Create(ctx context.Context, reg *models.Registration) error {
	ensureID(&reg.ID)
	query := `
		INSERT INTO registrations (id, tournament_id, participant_id, global_id, name, age, status, events)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query,
		reg.ID, reg.TournamentID, reg.ParticipantID, reg.GlobalID, reg.Name, reg.Age, reg.Status, pq.Array(reg.Events),
	).Scan(&reg.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrRegistrationConflict
		}
		return err
	}
	return nil
}

func (r *postgresRegistrationRepository) GetByID(ctx context.Context, id string) (*models.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1`
	return r.scanRegistration(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresRegistrationRepository) FindByParticipant(ctx context.Context, tournamentID, participantID string) (*models.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE tournament_id = $1 AND participant_id = $2`
	return r.scanRegistration(r.db.QueryRowContext(ctx, query, tournamentID, participantID))
}

func (r *postgresRegistrationRepository) ListByTournament(ctx context.Context, tournamentID string, status *models.RegistrationStatus) ([]models.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE tournament_id = $1`
	args := []interface{}{tournamentID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations for tournament %s: %w", tournamentID, err)
	}
	defer rows.Close()

	registrations := make([]models.Registration, 0)
	for rows.Next() {
		reg, scanErr := r.scanRegistration(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		registrations = append(registrations, *reg)
	}
	return registrations, rows.Err()
}

func (r *postgresRegistrationRepository) UpdateStatus(ctx context.Context, id string, status models.RegistrationStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE registrations SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRegistrationNotFound)
}
