package results

import (
	"sort"
	"strings"

	"github.com/Dosada05/stacking-tournament/models"
)

// Kind tells individual entrants from teams.
type Kind string

const (
	KindIndividual Kind = "individual"
	KindTeam       Kind = "team"
)

// Entrant identifies who a record or row belongs to.
type Entrant struct {
	Kind Kind   `json:"kind"`
	ID   string `json:"id"`
}

// Attempts holds up to three attempt times sorted ascending, absent ones last.
type Attempts [3]Time

func (a Attempts) Best() Time   { return a[0] }
func (a Attempts) Second() Time { return a[1] }
func (a Attempts) Third() Time  { return a[2] }

// CompareAttempts compares the ordered attempts positionally.
func CompareAttempts(a, b Attempts) int {
	for i := range a {
		if c := a[i].Compare(b[i]); c != 0 {
			return c
		}
	}
	return 0
}

// OrderAttempts sorts raw attempts ascending. Field order (try1/try2/try3) is
// irrelevant to ranking.
func OrderAttempts(tries [3]*float64) Attempts {
	var a Attempts
	n := 0
	for _, v := range tries {
		if t := FromAttempt(v); t.Valid {
			a[n] = t
			n++
		}
	}
	sort.SliceStable(a[:n], func(i, j int) bool { return a[i].Seconds < a[j].Seconds })
	return a
}

// Entry is a timing record normalized for aggregation.
type Entry struct {
	RecordID       string
	Entrant        Entrant
	EventID        string
	EventType      models.EventType
	Code           string
	Round          models.Round
	Classification models.Classification
	Attempts       Attempts
}

// NewEntry normalizes a record. It reports false for records without an
// entrant or without any valid attempt.
func NewEntry(rec models.TimingRecord) (Entry, bool) {
	entrant, ok := entrantOf(rec)
	if !ok {
		return Entry{}, false
	}

	attempts := OrderAttempts(rec.Tries())
	if !attempts.Best().Valid {
		best := FromAttempt(rec.BestTime)
		if !best.Valid {
			return Entry{}, false
		}
		attempts = Attempts{best}
	}

	return Entry{
		RecordID:       rec.ID,
		Entrant:        entrant,
		EventID:        rec.EventID,
		EventType:      rec.EventType,
		Code:           NormalizeCode(rec.Code),
		Round:          rec.Round,
		Classification: models.Classification(strings.ToLower(strings.TrimSpace(string(rec.Classification)))),
		Attempts:       attempts,
	}, true
}

func entrantOf(rec models.TimingRecord) (Entrant, bool) {
	switch {
	case rec.EventType.IsTeam():
		if rec.TeamID == "" {
			return Entrant{}, false
		}
		return Entrant{Kind: KindTeam, ID: rec.TeamID}, true
	case rec.EventType == models.EventIndividual:
		if rec.ParticipantID == "" {
			return Entrant{}, false
		}
		return Entrant{Kind: KindIndividual, ID: rec.ParticipantID}, true
	case rec.TeamID != "":
		return Entrant{Kind: KindTeam, ID: rec.TeamID}, true
	case rec.ParticipantID != "":
		return Entrant{Kind: KindIndividual, ID: rec.ParticipantID}, true
	}
	return Entrant{}, false
}

// NormalizeCode makes codes comparable: " 3-6-3 " and "3-6-3" match, as do
// "Cycle" and "cycle".
func NormalizeCode(code string) string {
	return strings.ToLower(strings.Join(strings.Fields(code), ""))
}
