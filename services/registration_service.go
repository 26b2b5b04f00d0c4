package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/Dosada05/stacking-tournament/models"
	"github.com/Dosada05/stacking-tournament/repositories"
)

type RegistrationService interface {
	Register(ctx context.Context, tournamentID string, input RegisterInput) (*models.Registration, error)
	ListRegistrations(ctx context.Context, tournamentID string, status *models.RegistrationStatus) ([]models.Registration, error)
	UpdateRegistrationStatus(ctx context.Context, tournamentID, registrationID string, status models.RegistrationStatus) (*models.Registration, error)
}

type RegisterInput struct {
	ParticipantID string   `json:"participant_id,omitempty"`
	GlobalID      string   `json:"global_id,omitempty"`
	Name          string   `json:"name"`
	Age           int      `json:"age"`
	Events        []string `json:"events,omitempty"`
}

type registrationService struct {
	registrationRepo repositories.RegistrationRepository
	tournamentRepo   repositories.TournamentRepository
	logger           *slog.Logger
}

func NewRegistrationService(
	registrationRepo repositories.RegistrationRepository,
	tournamentRepo repositories.TournamentRepository,
	logger *slog.Logger,
) RegistrationService {
	return &registrationService{
		registrationRepo: registrationRepo,
		tournamentRepo:   tournamentRepo,
		logger:           logger,
	}
}

func (s *registrationService) Register(ctx context.Context, tournamentID string, input RegisterInput) (*models.Registration, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidationFailed)
	}
	if input.Age <= 0 {
		return nil, fmt.Errorf("%w: age must be positive", ErrValidationFailed)
	}

	tournament, err := getTournament(ctx, s.tournamentRepo, tournamentID)
	if err != nil {
		return nil, err
	}
	if tournament.Status == models.StatusCompleted || tournament.Status == models.StatusCanceled {
		return nil, ErrTournamentClosed
	}
	for _, eventID := range input.Events {
		if _, ok := tournament.FindEvent(eventID); !ok {
			return nil, fmt.Errorf("%w: %s", ErrEventNotFound, eventID)
		}
	}

	participantID := strings.TrimSpace(input.ParticipantID)
	if participantID == "" {
		participantID = uuid.NewString()
	} else {
		_, err := s.registrationRepo.FindByParticipant(ctx, tournamentID, participantID)
		if err == nil {
			return nil, ErrRegistrationConflict
		}
		if !errors.Is(err, repositories.ErrRegistrationNotFound) {
			return nil, fmt.Errorf("failed to check existing registration: %w", err)
		}
	}

	reg := &models.Registration{
		TournamentID:  tournamentID,
		ParticipantID: participantID,
		GlobalID:      strings.TrimSpace(input.GlobalID),
		Name:          name,
		Age:           input.Age,
		Status:        models.RegistrationPending,
		Events:        input.Events,
	}
	if err := s.registrationRepo.Create(ctx, reg); err != nil {
		if errors.Is(err, repositories.ErrRegistrationConflict) {
			return nil, ErrRegistrationConflict
		}
		return nil, fmt.Errorf("failed to create registration: %w", err)
	}

	s.logger.InfoContext(ctx, "participant registered",
		slog.String("tournament_id", tournamentID), slog.String("participant_id", participantID))
	return reg, nil
}

func (s *registrationService) ListRegistrations(ctx context.Context, tournamentID string, status *models.RegistrationStatus) ([]models.Registration, error) {
	if status != nil && !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown registration status %q", ErrValidationFailed, *status)
	}
	if _, err := getTournament(ctx, s.tournamentRepo, tournamentID); err != nil {
		return nil, err
	}
	regs, err := s.registrationRepo.ListByTournament(ctx, tournamentID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	if regs == nil {
		return []models.Registration{}, nil
	}
	return regs, nil
}

// UpdateRegistrationStatus approves or rejects a registration. Moving a
// registration back to pending is not allowed.
func (s *registrationService) UpdateRegistrationStatus(ctx context.Context, tournamentID, registrationID string, status models.RegistrationStatus) (*models.Registration, error) {
	if status != models.RegistrationApproved && status != models.RegistrationRejected {
		return nil, fmt.Errorf("%w: status must be approved or rejected", ErrValidationFailed)
	}
	reg, err := s.registrationRepo.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to get registration %s: %w", registrationID, err)
	}
	if reg.TournamentID != tournamentID {
		return nil, ErrRegistrationNotFound
	}
	if reg.Status == status {
		return reg, nil
	}

	if err := s.registrationRepo.UpdateStatus(ctx, registrationID, status); err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to update registration %s: %w", registrationID, err)
	}
	reg.Status = status
	s.logger.InfoContext(ctx, "registration status changed",
		slog.String("registration_id", registrationID), slog.String("status", string(status)))
	return reg, nil
}

func getTournament(ctx context.Context, repo repositories.TournamentRepository, id string) (*models.Tournament, error) {
	t, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %s: %w", id, err)
	}
	return t, nil
}
