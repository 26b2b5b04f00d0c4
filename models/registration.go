package models

import "time"

type RegistrationStatus string

const (
	RegistrationPending  RegistrationStatus = "pending"
	RegistrationApproved RegistrationStatus = "approved"
	RegistrationRejected RegistrationStatus = "rejected"
)

func (s RegistrationStatus) IsValid() bool {
	switch s {
	case RegistrationPending, RegistrationApproved, RegistrationRejected:
		return true
	}
	return false
}

// Registration связывает участника с турниром.
type Registration struct {
	ID            string             `json:"id" firestore:"id" yaml:"id"`
	TournamentID  string             `json:"tournament_id" firestore:"tournament_id" yaml:"tournament_id"`
	ParticipantID string             `json:"participant_id" firestore:"participant_id" yaml:"participant_id"`
	GlobalID      string             `json:"global_id,omitempty" firestore:"global_id,omitempty" yaml:"global_id,omitempty"`
	Name          string             `json:"name" firestore:"name" yaml:"name"`
	Age           int                `json:"age" firestore:"age" yaml:"age"`
	Status        RegistrationStatus `json:"status" firestore:"status" yaml:"status"`
	Events        []string           `json:"events,omitempty" firestore:"events,omitempty" yaml:"events,omitempty"`
	CreatedAt     time.Time          `json:"created_at" firestore:"created_at" yaml:"created_at,omitempty"`
}
