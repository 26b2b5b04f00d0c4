package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/stacking-tournament/models"
	"github.com/Dosada05/stacking-tournament/repositories"
)

type TeamService interface {
	CreateTeam(ctx context.Context, tournamentID string, input CreateTeamInput) (*models.Team, error)
	ListTeams(ctx context.Context, tournamentID string) ([]models.Team, error)
	VerifyMember(ctx context.Context, tournamentID, teamID, participantID string) (*models.Team, error)
}

// CreateTeamInput describes a roster. MemberIDs may or may not repeat the leader.
type CreateTeamInput struct {
	EventID   string   `json:"event_id"`
	Name      string   `json:"name"`
	LeaderID  string   `json:"leader_id"`
	MemberIDs []string `json:"member_ids"`
}

type teamService struct {
	teamRepo         repositories.TeamRepository
	registrationRepo repositories.RegistrationRepository
	tournamentRepo   repositories.TournamentRepository
	logger           *slog.Logger
}

func NewTeamService(
	teamRepo repositories.TeamRepository,
	registrationRepo repositories.RegistrationRepository,
	tournamentRepo repositories.TournamentRepository,
	logger *slog.Logger,
) TeamService {
	return &teamService{
		teamRepo:         teamRepo,
		registrationRepo: registrationRepo,
		tournamentRepo:   tournamentRepo,
		logger:           logger,
	}
}

func (s *teamService) CreateTeam(ctx context.Context, tournamentID string, input CreateTeamInput) (*models.Team, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: team name is required", ErrValidationFailed)
	}
	if strings.TrimSpace(input.LeaderID) == "" {
		return nil, fmt.Errorf("%w: leader_id is required", ErrValidationFailed)
	}

	tournament, err := getTournament(ctx, s.tournamentRepo, tournamentID)
	if err != nil {
		return nil, err
	}
	if tournament.Status == models.StatusCompleted || tournament.Status == models.StatusCanceled {
		return nil, ErrTournamentClosed
	}
	event, ok := tournament.FindEvent(input.EventID)
	if !ok {
		return nil, ErrEventNotFound
	}
	if !event.Type.IsTeam() {
		return nil, ErrNotTeamEvent
	}

	team := &models.Team{
		TournamentID: tournamentID,
		EventID:      event.ID,
		Name:         name,
		LeaderID:     strings.TrimSpace(input.LeaderID),
	}
	for _, id := range input.MemberIDs {
		if id = strings.TrimSpace(id); id != "" {
			team.Members = append(team.Members, models.TeamMember{ParticipantID: id})
		}
	}
	roster := team.MemberIDs()
	if len(roster) != event.Type.TeamSize() {
		return nil, fmt.Errorf("%w: %s needs %d members, got %d", ErrTeamSizeInvalid, event.Type, event.Type.TeamSize(), len(roster))
	}

	existing, err := s.teamRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	for _, other := range existing {
		if other.EventID == event.ID && strings.EqualFold(other.Name, name) {
			return nil, ErrTeamNameConflict
		}
	}

	team.Members = make([]models.TeamMember, 0, len(roster))
	for _, id := range roster {
		reg, err := s.registrationRepo.FindByParticipant(ctx, tournamentID, id)
		if err != nil {
			if errors.Is(err, repositories.ErrRegistrationNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrParticipantNotFound, id)
			}
			return nil, fmt.Errorf("failed to look up participant %s: %w", id, err)
		}
		if reg.Status == models.RegistrationRejected {
			return nil, fmt.Errorf("%w: registration of %s was rejected", ErrParticipantNotFound, id)
		}
		if reg.Age > team.LargestAge {
			team.LargestAge = reg.Age
		}
		team.Members = append(team.Members, models.TeamMember{
			ParticipantID: id,
			Name:          reg.Name,
			Verified:      id == team.LeaderID,
		})
	}

	if err := s.teamRepo.Create(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return nil, ErrTeamNameConflict
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	s.logger.InfoContext(ctx, "team created",
		slog.String("tournament_id", tournamentID), slog.String("team_id", team.ID),
		slog.String("event_id", event.ID), slog.Int("largest_age", team.LargestAge))
	return team, nil
}

func (s *teamService) ListTeams(ctx context.Context, tournamentID string) ([]models.Team, error) {
	if _, err := getTournament(ctx, s.tournamentRepo, tournamentID); err != nil {
		return nil, err
	}
	teams, err := s.teamRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	if teams == nil {
		return []models.Team{}, nil
	}
	return teams, nil
}

func (s *teamService) VerifyMember(ctx context.Context, tournamentID, teamID, participantID string) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %s: %w", teamID, err)
	}
	if team.TournamentID != tournamentID {
		return nil, ErrTeamNotFound
	}

	found := false
	for i := range team.Members {
		if team.Members[i].ParticipantID == participantID {
			found = true
			team.Members[i].Verified = true
		}
	}
	if !found {
		return nil, ErrParticipantNotInTeam
	}

	if err := s.teamRepo.UpdateMembers(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to update team %s: %w", teamID, err)
	}
	return team, nil
}
