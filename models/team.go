package models

import "time"

type TeamMember struct {
	ParticipantID string `json:"participant_id" firestore:"participant_id" yaml:"participant_id"`
	Name          string `json:"name" firestore:"name" yaml:"name"`
	Verified      bool   `json:"verified" firestore:"verified" yaml:"verified"`
}

// Team is a roster entered in a team event. Members includes the leader.
type Team struct {
	ID           string       `json:"id" firestore:"id" yaml:"id"`
	TournamentID string       `json:"tournament_id" firestore:"tournament_id" yaml:"tournament_id"`
	EventID      string       `json:"event_id" firestore:"event_id" yaml:"event_id"`
	Name         string       `json:"name" firestore:"name" yaml:"name"`
	LeaderID     string       `json:"leader_id" firestore:"leader_id" yaml:"leader_id"`
	Members      []TeamMember `json:"members" firestore:"members" yaml:"members"`
	LargestAge   int          `json:"largest_age" firestore:"largest_age" yaml:"largest_age"`
	CreatedAt    time.Time    `json:"created_at" firestore:"created_at" yaml:"created_at,omitempty"`
}

// MemberIDs returns the participant ids of the roster, leader first.
func (t *Team) MemberIDs() []string {
	ids := make([]string, 0, len(t.Members)+1)
	seen := map[string]bool{}
	if t.LeaderID != "" {
		ids = append(ids, t.LeaderID)
		seen[t.LeaderID] = true
	}
	for _, m := range t.Members {
		if m.ParticipantID == "" || seen[m.ParticipantID] {
			continue
		}
		seen[m.ParticipantID] = true
		ids = append(ids, m.ParticipantID)
	}
	return ids
}
