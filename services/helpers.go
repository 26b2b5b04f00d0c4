package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/Dosada05/stacking-tournament/live"
	"github.com/Dosada05/stacking-tournament/models"
	"github.com/Dosada05/stacking-tournament/results"
)

// Broadcaster pushes live messages to websocket rooms. *live.Hub implements it.
type Broadcaster interface {
	BroadcastToRoom(room string, message live.Message)
}

func broadcast(b Broadcaster, tournamentID, msgType string, payload interface{}) {
	if b == nil {
		return
	}
	b.BroadcastToRoom(live.TournamentRoom(tournamentID), live.Message{Type: msgType, Payload: payload})
}

func validateTournamentDates(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return ErrTournamentDatesRequired
	}
	if end.Before(start) {
		return fmt.Errorf("%w: start date (%s), end date (%s)", ErrTournamentInvalidDateRange, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return nil
}

func isValidStatusTransition(current, next models.TournamentStatus) bool {
	if current == next {
		return true
	}
	allowedTransitions := map[models.TournamentStatus][]models.TournamentStatus{
		models.StatusUpcoming:  {models.StatusOngoing, models.StatusCanceled},
		models.StatusOngoing:   {models.StatusCompleted, models.StatusCanceled},
		models.StatusCompleted: {},
		models.StatusCanceled:  {},
	}
	for _, allowedNextStatus := range allowedTransitions[current] {
		if next == allowedNextStatus {
			return true
		}
	}
	return false
}

// statusByDate returns the status a tournament should have at now. Completed
// and canceled tournaments keep their status.
func statusByDate(t *models.Tournament, now time.Time) models.TournamentStatus {
	switch t.Status {
	case models.StatusCompleted, models.StatusCanceled:
		return t.Status
	}
	switch {
	case now.After(t.EndDate):
		return models.StatusCompleted
	case !now.Before(t.StartDate):
		return models.StatusOngoing
	}
	return t.Status
}

// validateEvents checks event definitions and fills in missing ids.
func validateEvents(events []models.Event) error {
	seenEvents := map[string]bool{}
	for i := range events {
		e := &events[i]
		if e.ID == "" {
			e.ID = fmt.Sprintf("event-%d", i+1)
		}
		if seenEvents[e.ID] {
			return fmt.Errorf("%w: duplicate event id %q", ErrValidationFailed, e.ID)
		}
		seenEvents[e.ID] = true

		if !e.Type.IsValid() {
			return fmt.Errorf("%w: event %s has unknown type %q", ErrValidationFailed, e.ID, e.Type)
		}
		if len(results.DisplayCodes(*e)) == 0 {
			return fmt.Errorf("%w: event %s needs at least one code", ErrValidationFailed, e.ID)
		}

		seenBrackets := map[string]bool{}
		for j := range e.AgeBrackets {
			b := &e.AgeBrackets[j]
			if b.ID == "" {
				b.ID = fmt.Sprintf("bracket-%d", j+1)
			}
			if seenBrackets[b.ID] {
				return fmt.Errorf("%w: duplicate bracket id %q in event %s", ErrValidationFailed, b.ID, e.ID)
			}
			seenBrackets[b.ID] = true
			if b.Name == "" {
				b.Name = fmt.Sprintf("%d-%d", b.MinAge, b.MaxAge)
			}
			if b.MinAge < 0 || b.MaxAge < b.MinAge {
				return fmt.Errorf("%w: bracket %s of event %s has invalid age range %d-%d", ErrValidationFailed, b.ID, e.ID, b.MinAge, b.MaxAge)
			}
			for _, c := range b.FinalCriteria {
				if !c.Classification.IsValid() {
					return fmt.Errorf("%w: bracket %s: %q", ErrInvalidClassification, b.ID, c.Classification)
				}
				if c.Count <= 0 {
					return fmt.Errorf("%w: bracket %s: finalist count must be positive", ErrValidationFailed, b.ID)
				}
			}
		}
	}
	return nil
}

// canonicalCode returns the event's spelling of code, or false when the
// event does not have it.
func canonicalCode(event *models.Event, code string) (string, bool) {
	key := results.NormalizeCode(code)
	for _, c := range results.DisplayCodes(*event) {
		if results.NormalizeCode(c) == key {
			return c, true
		}
	}
	return "", false
}

// bestAttempt returns the smallest positive try, or nil. Negative or
// non-finite tries are rejected.
func bestAttempt(tries ...*float64) (*float64, error) {
	var best *float64
	for i, t := range tries {
		if t == nil {
			continue
		}
		v := *t
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return nil, fmt.Errorf("%w: try%d must be a non-negative number", ErrValidationFailed, i+1)
		}
		if v == 0 {
			continue
		}
		if best == nil || v < *best {
			b := v
			best = &b
		}
	}
	return best, nil
}

func normalizeClassification(c models.Classification) (models.Classification, error) {
	c = models.Classification(strings.ToLower(strings.TrimSpace(string(c))))
	if c != "" && !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidClassification, c)
	}
	return c, nil
}

func normalizeRound(r models.Round) (models.Round, error) {
	r = models.Round(strings.ToLower(strings.TrimSpace(string(r))))
	if r != "" && !r.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRound, r)
	}
	return r, nil
}

func logDuration(ctx context.Context, logger *slog.Logger, msg string, started time.Time, attrs ...slog.Attr) {
	if logger == nil {
		return
	}
	attrs = append(attrs, slog.Duration("duration", time.Since(started)))
	logger.LogAttrs(ctx, slog.LevelDebug, msg, attrs...)
}
