package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/stacking-tournament/metrics"
	"github.com/Dosada05/stacking-tournament/models"
	"github.com/Dosada05/stacking-tournament/repositories"
	"github.com/Dosada05/stacking-tournament/results"
	"github.com/Dosada05/stacking-tournament/snapshot"
)

type ResultsService interface {
	Leaderboard(ctx context.Context, tournamentID, eventID, bracketID string, opts results.Options) (*LeaderboardView, error)
	EventBoards(ctx context.Context, tournamentID, eventID string, opts results.Options) (*EventBoardsView, error)
	Finalists(ctx context.Context, tournamentID, eventID, bracketID string) (*FinalistsView, error)
	LoadSnapshot(ctx context.Context, tournamentID, eventID string) (*snapshot.Snapshot, error)
}

type LeaderboardView struct {
	TournamentID   string                `json:"tournament_id"`
	Event          models.Event          `json:"event"`
	Bracket        models.AgeBracket     `json:"bracket"`
	Classification models.Classification `json:"classification,omitempty"`
	Round          models.Round          `json:"round,omitempty"`
	Rows           []results.Row         `json:"rows"`
}

type EventBoardsView struct {
	TournamentID string          `json:"tournament_id"`
	Event        models.Event    `json:"event"`
	Boards       []results.Board `json:"boards"`
}

type FinalistsView struct {
	TournamentID string             `json:"tournament_id"`
	EventID      string             `json:"event_id"`
	Bracket      models.AgeBracket  `json:"bracket"`
	Finalists    []results.Finalist `json:"finalists"`
}

type resultsService struct {
	tournamentRepo   repositories.TournamentRepository
	registrationRepo repositories.RegistrationRepository
	teamRepo         repositories.TeamRepository
	recordRepo       repositories.RecordRepository
	metrics          *metrics.Metrics
	logger           *slog.Logger
}

func NewResultsService(
	tournamentRepo repositories.TournamentRepository,
	registrationRepo repositories.RegistrationRepository,
	teamRepo repositories.TeamRepository,
	recordRepo repositories.RecordRepository,
	m *metrics.Metrics,
	logger *slog.Logger,
) ResultsService {
	return &resultsService{
		tournamentRepo:   tournamentRepo,
		registrationRepo: registrationRepo,
		teamRepo:         teamRepo,
		recordRepo:       recordRepo,
		metrics:          m,
		logger:           logger,
	}
}

// LoadSnapshot fetches everything the aggregator needs in parallel. When
// eventID is set only that event's records are loaded.
func (s *resultsService) LoadSnapshot(ctx context.Context, tournamentID, eventID string) (*snapshot.Snapshot, error) {
	snap := &snapshot.Snapshot{}
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		t, err := getTournament(gCtx, s.tournamentRepo, tournamentID)
		if err != nil {
			return err
		}
		snap.Tournament = *t
		return nil
	})
	g.Go(func() error {
		regs, err := s.registrationRepo.ListByTournament(gCtx, tournamentID, nil)
		if err != nil {
			return fmt.Errorf("failed to load registrations: %w", err)
		}
		snap.Registrations = regs
		return nil
	})
	g.Go(func() error {
		teams, err := s.teamRepo.ListByTournament(gCtx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to load teams: %w", err)
		}
		snap.Teams = teams
		return nil
	})
	g.Go(func() error {
		filter := repositories.ListRecordsFilter{}
		if eventID != "" {
			filter.EventID = &eventID
		}
		records, err := s.recordRepo.ListByTournament(gCtx, tournamentID, filter)
		if err != nil {
			return fmt.Errorf("failed to load records: %w", err)
		}
		snap.Records = records
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *resultsService) Leaderboard(ctx context.Context, tournamentID, eventID, bracketID string, opts results.Options) (*LeaderboardView, error) {
	started := time.Now()
	defer s.metrics.ObserveAggregation("leaderboard", started)

	snap, err := s.LoadSnapshot(ctx, tournamentID, eventID)
	if err != nil {
		return nil, err
	}
	event, bracket, err := lookupBracket(snap, eventID, bracketID)
	if err != nil {
		return nil, err
	}

	rows := results.Aggregate(event, bracket, snap.Context(), opts)
	logDuration(ctx, s.logger, "leaderboard computed", started,
		slog.String("tournament_id", tournamentID), slog.String("event_id", eventID),
		slog.String("bracket_id", bracketID), slog.Int("rows", len(rows)))

	return &LeaderboardView{
		TournamentID:   tournamentID,
		Event:          event,
		Bracket:        bracket,
		Classification: opts.Classification,
		Round:          opts.Round,
		Rows:           rows,
	}, nil
}

func (s *resultsService) EventBoards(ctx context.Context, tournamentID, eventID string, opts results.Options) (*EventBoardsView, error) {
	started := time.Now()
	defer s.metrics.ObserveAggregation("event_boards", started)

	snap, err := s.LoadSnapshot(ctx, tournamentID, eventID)
	if err != nil {
		return nil, err
	}
	event, err := lookupEvent(snap, eventID)
	if err != nil {
		return nil, err
	}
	return &EventBoardsView{
		TournamentID: tournamentID,
		Event:        event,
		Boards:       results.AggregateEvent(event, snap.Context(), opts),
	}, nil
}

// Finalists ranks the preliminary round of a bracket and applies its final
// criteria. Events whose records carry no round are ranked over all records.
func (s *resultsService) Finalists(ctx context.Context, tournamentID, eventID, bracketID string) (*FinalistsView, error) {
	started := time.Now()
	defer s.metrics.ObserveAggregation("finalists", started)

	snap, err := s.LoadSnapshot(ctx, tournamentID, eventID)
	if err != nil {
		return nil, err
	}
	event, bracket, err := lookupBracket(snap, eventID, bracketID)
	if err != nil {
		return nil, err
	}

	opts := results.Options{Round: results.QualifyingRound(event.ID, snap.Records)}
	rows := results.Aggregate(event, bracket, snap.Context(), opts)
	return &FinalistsView{
		TournamentID: tournamentID,
		EventID:      event.ID,
		Bracket:      bracket,
		Finalists:    results.SelectFinalists(rows, bracket.FinalCriteria),
	}, nil
}

func lookupEvent(snap *snapshot.Snapshot, eventID string) (models.Event, error) {
	event, err := snap.Event(eventID)
	if errors.Is(err, snapshot.ErrEventNotFound) {
		return models.Event{}, ErrEventNotFound
	}
	return event, err
}

func lookupBracket(snap *snapshot.Snapshot, eventID, bracketID string) (models.Event, models.AgeBracket, error) {
	event, bracket, err := snap.Bracket(eventID, bracketID)
	switch {
	case errors.Is(err, snapshot.ErrEventNotFound):
		return models.Event{}, models.AgeBracket{}, ErrEventNotFound
	case errors.Is(err, snapshot.ErrBracketNotFound):
		return models.Event{}, models.AgeBracket{}, ErrBracketNotFound
	}
	return event, bracket, err
}
