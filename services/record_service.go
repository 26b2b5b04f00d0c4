package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/stacking-tournament/live"
	"github.com/Dosada05/stacking-tournament/metrics"
	"github.com/Dosada05/stacking-tournament/models"
	"github.com/Dosada05/stacking-tournament/repositories"
)

type RecordService interface {
	SubmitRecord(ctx context.Context, tournamentID string, input SubmitRecordInput) (*models.TimingRecord, error)
	ListRecords(ctx context.Context, tournamentID string, eventID *string) ([]models.TimingRecord, error)
}

// SubmitRecordInput is one judge sheet line: up to three tries for one code.
// A try of 0 means it was not recorded.
type SubmitRecordInput struct {
	EventID        string                `json:"event_id"`
	Code           string                `json:"code"`
	Round          models.Round          `json:"round,omitempty"`
	ParticipantID  string                `json:"participant_id,omitempty"`
	TeamID         string                `json:"team_id,omitempty"`
	Try1           *float64              `json:"try1,omitempty"`
	Try2           *float64              `json:"try2,omitempty"`
	Try3           *float64              `json:"try3,omitempty"`
	Classification models.Classification `json:"classification,omitempty"`
}

// ResultsUpdatedPayload is pushed to spectators after a record is accepted.
type ResultsUpdatedPayload struct {
	TournamentID string `json:"tournament_id"`
	EventID      string `json:"event_id"`
	Code         string `json:"code"`
	RecordID     string `json:"record_id"`
}

type recordService struct {
	recordRepo       repositories.RecordRepository
	tournamentRepo   repositories.TournamentRepository
	registrationRepo repositories.RegistrationRepository
	teamRepo         repositories.TeamRepository
	hub              Broadcaster
	metrics          *metrics.Metrics
	logger           *slog.Logger
}

func NewRecordService(
	recordRepo repositories.RecordRepository,
	tournamentRepo repositories.TournamentRepository,
	registrationRepo repositories.RegistrationRepository,
	teamRepo repositories.TeamRepository,
	hub Broadcaster,
	m *metrics.Metrics,
	logger *slog.Logger,
) RecordService {
	return &recordService{
		recordRepo:       recordRepo,
		tournamentRepo:   tournamentRepo,
		registrationRepo: registrationRepo,
		teamRepo:         teamRepo,
		hub:              hub,
		metrics:          m,
		logger:           logger,
	}
}

func (s *recordService) SubmitRecord(ctx context.Context, tournamentID string, input SubmitRecordInput) (*models.TimingRecord, error) {
	tournament, err := getTournament(ctx, s.tournamentRepo, tournamentID)
	if err != nil {
		return nil, err
	}
	if tournament.Status == models.StatusCanceled {
		return nil, ErrTournamentClosed
	}
	event, ok := tournament.FindEvent(input.EventID)
	if !ok {
		return nil, ErrEventNotFound
	}
	code, ok := canonicalCode(event, input.Code)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrCodeNotInEvent, input.Code)
	}
	classification, err := normalizeClassification(input.Classification)
	if err != nil {
		return nil, err
	}
	round, err := normalizeRound(input.Round)
	if err != nil {
		return nil, err
	}
	best, err := bestAttempt(input.Try1, input.Try2, input.Try3)
	if err != nil {
		return nil, err
	}
	if best == nil {
		return nil, ErrNoValidAttempt
	}

	rec := &models.TimingRecord{
		TournamentID:   tournamentID,
		EventID:        event.ID,
		EventType:      event.Type,
		Code:           code,
		Round:          round,
		Try1:           input.Try1,
		Try2:           input.Try2,
		Try3:           input.Try3,
		BestTime:       best,
		Classification: classification,
	}
	if err := s.resolveEntrant(ctx, event, input, rec); err != nil {
		return nil, err
	}

	if err := s.recordRepo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to save timing record: %w", err)
	}

	s.metrics.RecordSubmitted(string(event.Type))
	broadcast(s.hub, tournamentID, live.MessageResultsUpdated, ResultsUpdatedPayload{
		TournamentID: tournamentID,
		EventID:      event.ID,
		Code:         code,
		RecordID:     rec.ID,
	})
	s.logger.InfoContext(ctx, "timing record submitted",
		slog.String("tournament_id", tournamentID), slog.String("event_id", event.ID),
		slog.String("code", code), slog.String("record_id", rec.ID), slog.Float64("best", *best))
	return rec, nil
}

// resolveEntrant checks that the record names exactly the entrant kind the
// event ranks and that the entrant exists.
func (s *recordService) resolveEntrant(ctx context.Context, event *models.Event, input SubmitRecordInput, rec *models.TimingRecord) error {
	participantID := strings.TrimSpace(input.ParticipantID)
	teamID := strings.TrimSpace(input.TeamID)

	if !event.Type.IsTeam() {
		if participantID == "" || teamID != "" {
			return fmt.Errorf("%w: individual events need participant_id only", ErrEntrantMismatch)
		}
		reg, err := s.registrationRepo.FindByParticipant(ctx, rec.TournamentID, participantID)
		if err != nil {
			if errors.Is(err, repositories.ErrRegistrationNotFound) {
				return ErrParticipantNotFound
			}
			return fmt.Errorf("failed to look up participant %s: %w", participantID, err)
		}
		if reg.Status != models.RegistrationApproved {
			return fmt.Errorf("%w: registration is %s", ErrParticipantNotFound, reg.Status)
		}
		rec.ParticipantID = participantID
		return nil
	}

	if teamID == "" || participantID != "" {
		return fmt.Errorf("%w: team events need team_id only", ErrEntrantMismatch)
	}
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to look up team %s: %w", teamID, err)
	}
	if team.TournamentID != rec.TournamentID || (team.EventID != "" && team.EventID != event.ID) {
		return ErrTeamNotFound
	}
	rec.TeamID = teamID
	return nil
}

func (s *recordService) ListRecords(ctx context.Context, tournamentID string, eventID *string) ([]models.TimingRecord, error) {
	if _, err := getTournament(ctx, s.tournamentRepo, tournamentID); err != nil {
		return nil, err
	}
	records, err := s.recordRepo.ListByTournament(ctx, tournamentID, repositories.ListRecordsFilter{EventID: eventID})
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	if records == nil {
		return []models.TimingRecord{}, nil
	}
	return records, nil
}
