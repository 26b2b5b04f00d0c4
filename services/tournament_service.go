package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/stacking-tournament/live"
	"github.com/Dosada05/stacking-tournament/metrics"
	"github.com/Dosada05/stacking-tournament/models"
	"github.com/Dosada05/stacking-tournament/repositories"
)

type TournamentService interface {
	CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	GetTournamentByID(ctx context.Context, id string) (*models.Tournament, error)
	ListTournaments(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error)
	UpdateTournamentStatus(ctx context.Context, id string, status models.TournamentStatus) (*models.Tournament, error)
	SyncStatusesByDate(ctx context.Context) error
}

type CreateTournamentInput struct {
	Name      string         `json:"name"`
	Venue     *string        `json:"venue,omitempty"`
	StartDate time.Time      `json:"start_date"`
	EndDate   time.Time      `json:"end_date"`
	Events    []models.Event `json:"events"`
}

type ListTournamentsFilter struct {
	Status *models.TournamentStatus
	Limit  int
	Offset int
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	hub            Broadcaster
	metrics        *metrics.Metrics
	logger         *slog.Logger
	now            func() time.Time
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	hub Broadcaster,
	m *metrics.Metrics,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tournamentRepo: tournamentRepo,
		hub:            hub,
		metrics:        m,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *tournamentService) CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTournamentNameRequired
	}
	if err := validateTournamentDates(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}
	events := append([]models.Event(nil), input.Events...)
	if events == nil {
		events = []models.Event{}
	}
	if err := validateEvents(events); err != nil {
		return nil, err
	}

	tournament := &models.Tournament{
		Name:      name,
		Venue:     input.Venue,
		StartDate: input.StartDate.UTC(),
		EndDate:   input.EndDate.UTC(),
		Status:    models.StatusUpcoming,
		Events:    events,
	}
	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}

	s.logger.InfoContext(ctx, "tournament created", slog.String("tournament_id", tournament.ID), slog.Int("events", len(events)))
	return tournament, nil
}

func (s *tournamentService) GetTournamentByID(ctx context.Context, id string) (*models.Tournament, error) {
	return getTournament(ctx, s.tournamentRepo, id)
}

func (s *tournamentService) ListTournaments(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, ErrTournamentInvalidStatus
	}
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, fmt.Errorf("%w: limit and offset must not be negative", ErrValidationFailed)
	}
	tournaments, err := s.tournamentRepo.List(ctx, repositories.ListTournamentsFilter{
		Status: filter.Status,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	if tournaments == nil {
		return []models.Tournament{}, nil
	}
	return tournaments, nil
}

func (s *tournamentService) UpdateTournamentStatus(ctx context.Context, id string, status models.TournamentStatus) (*models.Tournament, error) {
	if !status.IsValid() {
		return nil, ErrTournamentInvalidStatus
	}
	t, err := s.GetTournamentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isValidStatusTransition(t.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrTournamentInvalidStatusTransition, t.Status, status)
	}
	if t.Status == status {
		return t, nil
	}
	if err := s.setStatus(ctx, t, status); err != nil {
		return nil, err
	}
	return t, nil
}

// SyncStatusesByDate moves tournaments along upcoming -> ongoing -> completed
// by their dates. A failure on one tournament does not stop the others.
func (s *tournamentService) SyncStatusesByDate(ctx context.Context) error {
	now := s.now().UTC()
	tournaments, err := s.tournamentRepo.ListForStatusSync(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to load tournaments for status sync: %w", err)
	}

	var errs []error
	for i := range tournaments {
		t := &tournaments[i]
		target := statusByDate(t, now)
		for t.Status != target {
			next := target
			if t.Status == models.StatusUpcoming && target == models.StatusCompleted {
				next = models.StatusOngoing
			}
			if err := s.setStatus(ctx, t, next); err != nil {
				s.logger.ErrorContext(ctx, "status sync failed",
					slog.String("tournament_id", t.ID), slog.String("target", string(next)), slog.Any("error", err))
				errs = append(errs, err)
				break
			}
		}
	}
	return errors.Join(errs...)
}

func (s *tournamentService) setStatus(ctx context.Context, t *models.Tournament, status models.TournamentStatus) error {
	if err := s.tournamentRepo.UpdateStatus(ctx, t.ID, status); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return fmt.Errorf("failed to update status of tournament %s: %w", t.ID, err)
	}
	previous := t.Status
	t.Status = status
	s.metrics.StatusChanged(string(status))
	broadcast(s.hub, t.ID, live.MessageStatusChanged, map[string]string{
		"tournament_id": t.ID,
		"status":        string(status),
	})
	s.logger.InfoContext(ctx, "tournament status changed",
		slog.String("tournament_id", t.ID), slog.String("from", string(previous)), slog.String("to", string(status)))
	return nil
}
