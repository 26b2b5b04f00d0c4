package repositories

import (
	"context"
	"fmt"

	"github.com/Dosada05/stacking-tournament/models"
)

type ListRecordsFilter struct {
	EventID *string
	Code    *string
}

type RecordRepository interface {
	Create(ctx context.Context, rec *models.TimingRecord) error
	GetByID(ctx context.Context, id string) (*models.TimingRecord, error)
	ListByTournament(ctx context.Context, tournamentID string, filter ListRecordsFilter) ([]models.TimingRecord, error)
}

type postgresRecordRepository struct {
	db SQLExecutor
}

func NewPostgresRecordRepository(db SQLExecutor) RecordRepository {
	return &postgresRecordRepository{db: db}
}

const recordColumns = `id, tournament_id, event_id, event_type, code, round, participant_id, team_id,
	try1, try2, try3, best_time, classification, submitted_at`

func (r *postgresRecordRepository) scanRecord(row rowScanner) (*models.TimingRecord, error) {
	var rec models.TimingRecord
	err := row.Scan(
		&rec.ID, &rec.TournamentID, &rec.EventID, &rec.EventType, &rec.Code, &rec.Round,
		&rec.ParticipantID, &rec.TeamID,
		&rec.Try1, &rec.Try2, &rec.Try3, &rec.BestTime,
		&rec.Classification, &rec.SubmittedAt,
	)
	if err != nil {
		return nil, notFound(err, ErrRecordNotFound)
	}
	return &rec, nil
}

func (r *postgresRecordRepository) Create(ctx context.Context, rec *models.TimingRecord) error {
	ensureID(&rec.ID)
	query := `
		INSERT INTO timing_records (
			id, tournament_id, event_id, event_type, code, round, participant_id, team_id,
			try1, try2, try3, best_time, classification
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING submitted_at`
	return r.db.QueryRowContext(ctx, query,
		rec.ID, rec.TournamentID, rec.EventID, rec.EventType, rec.Code, rec.Round,
		rec.ParticipantID, rec.TeamID,
		rec.Try1, rec.Try2, rec.Try3, rec.BestTime, rec.Classification,
	).Scan(&rec.SubmittedAt)
}

func (r *postgresRecordRepository) GetByID(ctx context.Context, id string) (*models.TimingRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM timing_records WHERE id = $1`
	return r.scanRecord(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresRecordRepository) ListByTournament(ctx context.Context, tournamentID string, filter ListRecordsFilter) ([]models.TimingRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM timing_records WHERE tournament_id = $1`
	args := []interface{}{tournamentID}
	argID := 2
	if filter.EventID != nil {
		query += fmt.Sprintf(" AND (event_id = $%d OR event_id = '')", argID)
		args = append(args, *filter.EventID)
		argID++
	}
	if filter.Code != nil {
		query += fmt.Sprintf(" AND code = $%d", argID)
		args = append(args, *filter.Code)
	}
	query += " ORDER BY submitted_at, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list records for tournament %s: %w", tournamentID, err)
	}
	defer rows.Close()

	records := make([]models.TimingRecord, 0)
	for rows.Next() {
		rec, scanErr := r.scanRecord(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}
