package models

import "time"

// TimingRecord is one attempt-set submission for one code of an event.
// Exactly one of ParticipantID and TeamID is set.
type TimingRecord struct {
	ID             string         `json:"id" firestore:"id" yaml:"id"`
	TournamentID   string         `json:"tournament_id" firestore:"tournament_id" yaml:"tournament_id"`
	EventID        string         `json:"event_id,omitempty" firestore:"event_id,omitempty" yaml:"event_id,omitempty"`
	EventType      EventType      `json:"event_type" firestore:"event_type" yaml:"event_type"`
	Code           string         `json:"code" firestore:"code" yaml:"code"`
	Round          Round          `json:"round,omitempty" firestore:"round,omitempty" yaml:"round,omitempty"`
	ParticipantID  string         `json:"participant_id,omitempty" firestore:"participant_id,omitempty" yaml:"participant_id,omitempty"`
	TeamID         string         `json:"team_id,omitempty" firestore:"team_id,omitempty" yaml:"team_id,omitempty"`
	Try1           *float64       `json:"try1,omitempty" firestore:"try1,omitempty" yaml:"try1,omitempty"`
	Try2           *float64       `json:"try2,omitempty" firestore:"try2,omitempty" yaml:"try2,omitempty"`
	Try3           *float64       `json:"try3,omitempty" firestore:"try3,omitempty" yaml:"try3,omitempty"`
	BestTime       *float64       `json:"best_time,omitempty" firestore:"best_time,omitempty" yaml:"best_time,omitempty"`
	Classification Classification `json:"classification,omitempty" firestore:"classification,omitempty" yaml:"classification,omitempty"`
	SubmittedAt    time.Time      `json:"submitted_at" firestore:"submitted_at" yaml:"submitted_at,omitempty"`
}

func (r *TimingRecord) Tries() [3]*float64 {
	return [3]*float64{r.Try1, r.Try2, r.Try3}
}
