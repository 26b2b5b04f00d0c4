package results

import "github.com/Dosada05/stacking-tournament/models"

// Board is the leaderboard of one age bracket.
type Board struct {
	Bracket models.AgeBracket `json:"bracket"`
	Rows    []Row             `json:"rows"`
}

// AggregateEvent builds one board per age bracket, in definition order.
func AggregateEvent(event models.Event, c *Context, opts Options) []Board {
	boards := make([]Board, 0, len(event.AgeBrackets))
	for _, bracket := range event.AgeBrackets {
		boards = append(boards, Board{
			Bracket: bracket,
			Rows:    Aggregate(event, bracket, c, opts),
		})
	}
	return boards
}

// Finalist is an entrant advancing into a final-round classification.
type Finalist struct {
	Row            Row                   `json:"row"`
	Classification models.Classification `json:"classification"`
}

// SelectFinalists walks a ranked board: the first criterion takes the first
// Count rows, the next criterion the following Count rows, and so on.
// Criteria with an unknown classification or a non-positive count are skipped.
func SelectFinalists(rows []Row, criteria []models.FinalCriterion) []Finalist {
	finalists := []Finalist{}
	next := 0
	for _, criterion := range criteria {
		if !criterion.Classification.IsValid() || criterion.Count <= 0 {
			continue
		}
		for taken := 0; taken < criterion.Count && next < len(rows); taken++ {
			finalists = append(finalists, Finalist{
				Row:            rows[next],
				Classification: criterion.Classification,
			})
			next++
		}
	}
	return finalists
}

// QualifyingRound is the round finalists are ranked on: prelim when the event
// has any prelim record, otherwise every record counts.
func QualifyingRound(eventID string, records []models.TimingRecord) models.Round {
	for _, rec := range records {
		if rec.EventID != "" && rec.EventID != eventID {
			continue
		}
		if rec.Round == models.RoundPrelim {
			return models.RoundPrelim
		}
	}
	return ""
}
