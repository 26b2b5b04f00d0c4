package results

import (
	"sort"
	"strings"

	"github.com/Dosada05/stacking-tournament/models"
)

// Options narrows the records an aggregation looks at. Zero values mean no
// filtering.
type Options struct {
	Classification models.Classification
	Round          models.Round
}

// CodeTimes are an entrant's ordered attempts for one code.
type CodeTimes struct {
	Best   Time `json:"best"`
	Second Time `json:"second"`
	Third  Time `json:"third"`
}

// Row is one ranked line of a leaderboard.
type Row struct {
	Rank           int                   `json:"rank"`
	Entrant        Entrant               `json:"entrant"`
	Name           string                `json:"name"`
	GlobalID       string                `json:"global_id,omitempty"`
	Age            int                   `json:"age"`
	LeaderID       string                `json:"leader_id,omitempty"`
	Members        []string              `json:"members,omitempty"`
	Classification models.Classification `json:"classification,omitempty"`
	Times          map[string]CodeTimes  `json:"times"`
	BestTime       Time                  `json:"best_time"`
	SecondBestTime Time                  `json:"second_best_time"`
	ThirdBestTime  Time                  `json:"third_best_time"`
}

type codeRef struct {
	key     string
	display string
}

// Aggregate ranks the entrants of one event inside one age bracket.
//
// Individual events are keyed by participant and placed by registration age;
// team events are keyed by team and placed by the team's largest age. For a
// multi-code event an entrant is ranked only when every code has a valid best
// time, on the sums of the per-code best, second and third attempts. A
// single-code event is the one-code case of the same rule.
//
// The result is never nil and the inputs are not modified.
func Aggregate(event models.Event, bracket models.AgeBracket, c *Context, opts Options) []Row {
	rows := []Row{}
	if c == nil {
		return rows
	}

	classification := models.Classification(strings.ToLower(strings.TrimSpace(string(opts.Classification))))
	if classification != "" && !classification.IsValid() {
		return rows
	}

	codes := eventCodes(event)
	if len(codes) == 0 {
		return rows
	}
	wanted := make(map[string]bool, len(codes))
	for _, code := range codes {
		wanted[code.key] = true
	}

	kind := KindIndividual
	if event.Type.IsTeam() {
		kind = KindTeam
	}

	chosen := make(map[Entrant]map[string]*Entry)
	var order []Entrant
	for i := range c.entries {
		e := &c.entries[i]
		if e.Entrant.Kind != kind || !wanted[e.Code] {
			continue
		}
		if e.EventType != "" && e.EventType != event.Type {
			continue
		}
		if e.EventID != "" && event.ID != "" && e.EventID != event.ID {
			continue
		}
		if classification != "" && e.Classification != classification {
			continue
		}
		if opts.Round != "" && e.Round != opts.Round {
			continue
		}
		age, ok := c.ageOf(e.Entrant)
		if !ok || !bracket.Contains(age) {
			continue
		}

		perCode, ok := chosen[e.Entrant]
		if !ok {
			perCode = make(map[string]*Entry, len(codes))
			chosen[e.Entrant] = perCode
			order = append(order, e.Entrant)
		}
		if cur, ok := perCode[e.Code]; !ok || CompareAttempts(e.Attempts, cur.Attempts) < 0 {
			perCode[e.Code] = e
		}
	}

	for _, entrant := range order {
		if row, ok := c.buildRow(entrant, codes, chosen[entrant], classification); ok {
			rows = append(rows, row)
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return compareRows(&rows[i], &rows[j]) < 0
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

// DisplayCodes returns the distinct codes of an event as row Times keys,
// in definition order.
func DisplayCodes(event models.Event) []string {
	refs := eventCodes(event)
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.display
	}
	return out
}

func eventCodes(event models.Event) []codeRef {
	codes := make([]codeRef, 0, len(event.Codes))
	seen := make(map[string]bool, len(event.Codes))
	for _, code := range event.Codes {
		key := NormalizeCode(code)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		codes = append(codes, codeRef{key: key, display: strings.TrimSpace(code)})
	}
	return codes
}

func (c *Context) ageOf(e Entrant) (int, bool) {
	switch e.Kind {
	case KindIndividual:
		p, ok := c.participants[e.ID]
		if !ok || p.Age <= 0 {
			return 0, false
		}
		return p.Age, true
	case KindTeam:
		t, ok := c.teams[e.ID]
		if !ok || t.LargestAge <= 0 {
			return 0, false
		}
		return t.LargestAge, true
	}
	return 0, false
}

// buildRow sums the chosen entries over every code; it reports false when a
// code has no valid best time.
func (c *Context) buildRow(entrant Entrant, codes []codeRef, perCode map[string]*Entry, classification models.Classification) (Row, bool) {
	row := Row{
		Entrant:        entrant,
		Classification: classification,
		Times:          make(map[string]CodeTimes, len(codes)),
	}

	mixed := false
	for i, code := range codes {
		e, ok := perCode[code.key]
		if !ok || !e.Attempts.Best().Valid {
			return Row{}, false
		}
		row.Times[code.display] = CodeTimes{
			Best:   e.Attempts.Best(),
			Second: e.Attempts.Second(),
			Third:  e.Attempts.Third(),
		}
		if i == 0 {
			row.BestTime = e.Attempts.Best()
			row.SecondBestTime = e.Attempts.Second()
			row.ThirdBestTime = e.Attempts.Third()
			if classification == "" {
				row.Classification = e.Classification
			}
			continue
		}
		row.BestTime = row.BestTime.Add(e.Attempts.Best())
		row.SecondBestTime = row.SecondBestTime.Add(e.Attempts.Second())
		row.ThirdBestTime = row.ThirdBestTime.Add(e.Attempts.Third())
		if classification == "" && e.Classification != row.Classification {
			mixed = true
		}
	}
	if mixed {
		row.Classification = ""
	}

	c.identify(&row)
	return row, true
}

func (c *Context) identify(row *Row) {
	switch row.Entrant.Kind {
	case KindIndividual:
		p := c.participants[row.Entrant.ID]
		row.Name = p.Name
		row.GlobalID = p.GlobalID
		row.Age = p.Age
	case KindTeam:
		t := c.teams[row.Entrant.ID]
		row.Name = t.Name
		row.LeaderID = t.LeaderID
		row.Age = t.LargestAge
		if len(t.MemberNames) > 0 {
			row.Members = append([]string(nil), t.MemberNames...)
		}
		if lead, ok := c.participants[t.LeaderID]; ok {
			row.GlobalID = lead.GlobalID
		}
	}
}

// compareRows orders by the tie-break cascade; entrant id keeps the order
// total when all three sums are equal.
func compareRows(a, b *Row) int {
	if cmp := a.BestTime.Compare(b.BestTime); cmp != 0 {
		return cmp
	}
	if cmp := a.SecondBestTime.Compare(b.SecondBestTime); cmp != 0 {
		return cmp
	}
	if cmp := a.ThirdBestTime.Compare(b.ThirdBestTime); cmp != 0 {
		return cmp
	}
	return strings.Compare(a.Entrant.ID, b.Entrant.ID)
}
