package models

import "time"

// TournamentStatus представляет статусы турнира.
type TournamentStatus string

const (
	StatusUpcoming  TournamentStatus = "upcoming"
	StatusOngoing   TournamentStatus = "ongoing"
	StatusCompleted TournamentStatus = "completed"
	StatusCanceled  TournamentStatus = "canceled"
)

func (s TournamentStatus) IsValid() bool {
	switch s {
	case StatusUpcoming, StatusOngoing, StatusCompleted, StatusCanceled:
		return true
	}
	return false
}

// Tournament представляет турнир вместе с определениями его событий.
type Tournament struct {
	ID        string           `json:"id" firestore:"id" yaml:"id"`
	Name      string           `json:"name" firestore:"name" yaml:"name"`
	Venue     *string          `json:"venue,omitempty" firestore:"venue,omitempty" yaml:"venue,omitempty"`
	StartDate time.Time        `json:"start_date" firestore:"start_date" yaml:"start_date"`
	EndDate   time.Time        `json:"end_date" firestore:"end_date" yaml:"end_date"`
	Status    TournamentStatus `json:"status" firestore:"status" yaml:"status"`
	Events    []Event          `json:"events" firestore:"events" yaml:"events"`
	CreatedAt time.Time        `json:"created_at" firestore:"created_at" yaml:"created_at,omitempty"`
}

// FindEvent returns the event with the given id.
func (t *Tournament) FindEvent(eventID string) (*Event, bool) {
	for i := range t.Events {
		if t.Events[i].ID == eventID {
			return &t.Events[i], true
		}
	}
	return nil, false
}
