package results

import (
	"testing"

	"github.com/Dosada05/stacking-tournament/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var openBracket = models.AgeBracket{ID: "open", Name: "Open", MinAge: 0, MaxAge: 99}

func reg(id, name string, age int) models.Registration {
	return models.Registration{ID: "r-" + id, ParticipantID: id, Name: name, Age: age, Status: models.RegistrationApproved}
}

func indiv(id, eventID, code string, tries ...float64) models.TimingRecord {
	rec := models.TimingRecord{
		ID:            id + "-" + code,
		EventID:       eventID,
		EventType:     models.EventIndividual,
		Code:          code,
		ParticipantID: id,
	}
	setTries(&rec, tries)
	return rec
}

func teamRec(teamID, eventID string, eventType models.EventType, code string, tries ...float64) models.TimingRecord {
	rec := models.TimingRecord{
		ID:        teamID + "-" + code,
		EventID:   eventID,
		EventType: eventType,
		Code:      code,
		TeamID:    teamID,
	}
	setTries(&rec, tries)
	return rec
}

func setTries(rec *models.TimingRecord, tries []float64) {
	slots := []**float64{&rec.Try1, &rec.Try2, &rec.Try3}
	for i, v := range tries {
		if i >= len(slots) {
			break
		}
		v := v
		*slots[i] = &v
	}
}

func rowIDs(rows []Row) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.Entrant.ID
	}
	return ids
}

func TestAggregate_MultiCodeDropsIncompleteEntrants(t *testing.T) {
	event := models.Event{ID: "overall", Type: models.EventIndividual, Codes: []string{"3-3-3", "3-6-3", "Cycle"}}
	ctx := NewContext(
		[]models.Registration{reg("p1", "Aina", 11), reg("p2", "Badrul", 12), reg("p3", "Chen", 11)},
		nil,
		[]models.TimingRecord{
			indiv("p1", "overall", "3-3-3", 2.2, 2.0, 2.4),
			indiv("p1", "overall", "3-6-3", 2.5, 2.7, 2.6),
			indiv("p1", "overall", "Cycle", 6.0, 6.5, 6.2),
			indiv("p2", "overall", "3-3-3", 2.1, 2.3),
			indiv("p2", "overall", "3-6-3", 2.6),
			indiv("p2", "overall", "Cycle", 6.1, 6.4, 6.3),
			indiv("p3", "overall", "3-3-3", 1.5, 1.6, 1.7),
			indiv("p3", "overall", "3-6-3", 1.8, 1.9, 2.0),
		},
	)

	rows := Aggregate(event, openBracket, ctx, Options{})

	require.Len(t, rows, 2)
	assert.Equal(t, []string{"p1", "p2"}, rowIDs(rows))
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, 2, rows[1].Rank)

	assert.Equal(t, Seconds(10.5), rows[0].BestTime)
	assert.Equal(t, Seconds(11.0), rows[0].SecondBestTime)
	assert.Equal(t, Seconds(11.6), rows[0].ThirdBestTime)
	assert.Equal(t, CodeTimes{Best: Seconds(2.0), Second: Seconds(2.2), Third: Seconds(2.4)}, rows[0].Times["3-3-3"])
	assert.Len(t, rows[0].Times, 3)

	assert.Equal(t, Seconds(10.8), rows[1].BestTime)
	assert.False(t, rows[1].SecondBestTime.Valid, "3-6-3 has a single attempt so the second sum is absent")
	assert.Equal(t, "Badrul", rows[1].Name)
}

func TestAggregate_TieBrokenBySecondBest(t *testing.T) {
	event := models.Event{ID: "e333", Type: models.EventIndividual, Codes: []string{"3-3-3"}}
	ctx := NewContext(
		[]models.Registration{reg("a", "A", 10), reg("b", "B", 10)},
		nil,
		[]models.TimingRecord{
			indiv("a", "e333", "3-3-3", 4.6, 4.321, 5.0),
			indiv("b", "e333", "3-3-3", 6.0, 4.5, 4.321),
		},
	)

	rows := Aggregate(event, openBracket, ctx, Options{})

	require.Len(t, rows, 2)
	assert.Equal(t, []string{"b", "a"}, rowIDs(rows))
	assert.Equal(t, rows[0].BestTime, rows[1].BestTime)
	assert.Equal(t, Seconds(4.5), rows[0].SecondBestTime)
}

func TestAggregate_MissingAttemptsLoseTieBreaks(t *testing.T) {
	event := models.Event{ID: "cyc", Type: models.EventIndividual, Codes: []string{"Cycle"}}
	ctx := NewContext(
		[]models.Registration{reg("one", "One", 10), reg("three", "Three", 10), reg("none", "None", 10)},
		nil,
		[]models.TimingRecord{
			indiv("one", "cyc", "Cycle", 7.0),
			indiv("three", "cyc", "Cycle", 7.0, 9.9, 9.95),
			indiv("none", "cyc", "Cycle", 0, 0, 0),
		},
	)

	rows := Aggregate(event, openBracket, ctx, Options{})

	assert.Equal(t, []string{"three", "one"}, rowIDs(rows), "zero-attempt entrant is absent")
	assert.Equal(t, Seconds(7.0), rows[1].BestTime, "a single attempt still counts for the primary time")
}

func TestAggregate_TeamSingleCodeUsesLargestAge(t *testing.T) {
	event := models.Event{ID: "relay", Type: models.EventTeamRelay, Codes: []string{"Cycle"}}
	bracket := models.AgeBracket{ID: "u12", MinAge: 10, MaxAge: 12}
	ctx := NewContext(
		[]models.Registration{
			reg("m1", "M1", 10), reg("m2", "M2", 11), reg("m3", "M3", 12),
			reg("n1", "N1", 13), reg("n2", "N2", 14),
		},
		[]models.Team{
			{ID: "t1", Name: "Junior Stackers", LeaderID: "m1", Members: []models.TeamMember{{ParticipantID: "m2"}, {ParticipantID: "m3"}}},
			{ID: "t2", Name: "Teen Stackers", LeaderID: "n1", Members: []models.TeamMember{{ParticipantID: "n2"}}},
		},
		[]models.TimingRecord{
			teamRec("t1", "relay", models.EventTeamRelay, "Cycle", 30.1, 29.9),
			teamRec("t2", "relay", models.EventTeamRelay, "Cycle", 25.0),
		},
	)

	rows := Aggregate(event, bracket, ctx, Options{})

	require.Len(t, rows, 1)
	assert.Equal(t, Entrant{Kind: KindTeam, ID: "t1"}, rows[0].Entrant)
	assert.Equal(t, "Junior Stackers", rows[0].Name)
	assert.Equal(t, "m1", rows[0].LeaderID)
	assert.Equal(t, 12, rows[0].Age)
	assert.Equal(t, []string{"M1", "M2", "M3"}, rows[0].Members)
}

func TestAggregate_TeamMultiCode(t *testing.T) {
	event := models.Event{ID: "dbl", Type: models.EventDouble, Codes: []string{"3-6-3", "Cycle"}}
	ctx := NewContext(
		nil,
		[]models.Team{
			{ID: "t1", Name: "Fast", LeaderID: "x", LargestAge: 20},
			{ID: "t2", Name: "Faster", LeaderID: "y", LargestAge: 21},
			{ID: "t3", Name: "Partial", LeaderID: "z", LargestAge: 22},
		},
		[]models.TimingRecord{
			teamRec("t1", "dbl", models.EventDouble, "3-6-3", 5.0, 5.5, 5.6),
			teamRec("t1", "dbl", models.EventDouble, "Cycle", 12.0, 12.5, 13.0),
			teamRec("t2", "dbl", models.EventDouble, "3-6-3", 4.5, 4.9, 5.1),
			teamRec("t2", "dbl", models.EventDouble, "Cycle", 11.9, 12.1),
			teamRec("t3", "dbl", models.EventDouble, "Cycle", 9.0, 9.1, 9.2),
		},
	)

	rows := Aggregate(event, openBracket, ctx, Options{})

	assert.Equal(t, []string{"t2", "t1"}, rowIDs(rows))
	assert.Equal(t, Seconds(16.4), rows[0].BestTime)
	assert.Equal(t, Seconds(17.0), rows[1].BestTime)
}

func TestAggregate_ClassificationFilter(t *testing.T) {
	event := models.Event{ID: "e", Type: models.EventIndividual, Codes: []string{"3-3-3"}}
	beginner := indiv("a", "e", "3-3-3", 3.0)
	beginner.Classification = models.ClassificationBeginner
	advance := indiv("b", "e", "3-3-3", 2.0)
	advance.Classification = models.ClassificationAdvance
	ctx := NewContext([]models.Registration{reg("a", "A", 9), reg("b", "B", 9)}, nil, []models.TimingRecord{beginner, advance})

	rows := Aggregate(event, openBracket, ctx, Options{Classification: models.ClassificationBeginner})
	assert.Equal(t, []string{"a"}, rowIDs(rows))
	assert.Equal(t, models.ClassificationBeginner, rows[0].Classification)

	rows = Aggregate(event, openBracket, ctx, Options{Classification: "expert"})
	assert.NotNil(t, rows)
	assert.Empty(t, rows, "unknown classification yields an empty board")

	rows = Aggregate(event, openBracket, ctx, Options{})
	assert.Equal(t, []string{"b", "a"}, rowIDs(rows))
}

func TestAggregate_RoundFilterAndBestRecord(t *testing.T) {
	event := models.Event{ID: "e", Type: models.EventIndividual, Codes: []string{"Cycle"}}
	prelim := indiv("a", "e", "Cycle", 8.0, 8.2, 8.4)
	prelim.Round = models.RoundPrelim
	final := indiv("a", "e", "Cycle", 7.5, 9.0)
	final.Round = models.RoundFinal
	final.ID = "a-final"
	ctx := NewContext([]models.Registration{reg("a", "A", 9)}, nil, []models.TimingRecord{prelim, final})

	rows := Aggregate(event, openBracket, ctx, Options{Round: models.RoundPrelim})
	require.Len(t, rows, 1)
	assert.Equal(t, Seconds(8.0), rows[0].BestTime)

	rows = Aggregate(event, openBracket, ctx, Options{})
	require.Len(t, rows, 1, "one row per entrant across rounds")
	assert.Equal(t, Seconds(7.5), rows[0].BestTime)
}

func TestAggregate_RecordMatching(t *testing.T) {
	event := models.Event{ID: "e1", Type: models.EventIndividual, Codes: []string{"3-6-3"}}
	otherEvent := indiv("a", "e2", "3-6-3", 1.0)
	wrongType := indiv("b", "e1", "3-6-3", 1.0)
	wrongType.EventType = models.EventDouble
	wrongType.TeamID = "tt"
	legacy := indiv("c", "", " 3-6-3", 3.0)
	ctx := NewContext(
		[]models.Registration{reg("a", "A", 9), reg("b", "B", 9), reg("c", "C", 9)},
		nil,
		[]models.TimingRecord{otherEvent, wrongType, legacy},
	)

	rows := Aggregate(event, openBracket, ctx, Options{})

	assert.Equal(t, []string{"c"}, rowIDs(rows))
	_, ok := rows[0].Times["3-6-3"]
	assert.True(t, ok, "rows are keyed by the event's spelling of the code")
}

func TestAggregate_BracketAndRegistrationFiltering(t *testing.T) {
	event := models.Event{ID: "e", Type: models.EventIndividual, Codes: []string{"3-3-3"}}
	rejected := reg("r", "Rejected", 10)
	rejected.Status = models.RegistrationRejected
	ctx := NewContext(
		[]models.Registration{reg("young", "Y", 8), reg("in", "I", 10), reg("edge", "E", 12), reg("old", "O", 13), rejected},
		nil,
		[]models.TimingRecord{
			indiv("young", "e", "3-3-3", 2),
			indiv("in", "e", "3-3-3", 3),
			indiv("edge", "e", "3-3-3", 4),
			indiv("old", "e", "3-3-3", 1),
			indiv("r", "e", "3-3-3", 1),
			indiv("ghost", "e", "3-3-3", 1),
		},
	)

	rows := Aggregate(event, models.AgeBracket{MinAge: 10, MaxAge: 12}, ctx, Options{})

	assert.Equal(t, []string{"in", "edge"}, rowIDs(rows))

	// Legacy registrations without an age fit no bracket, not even one from 0.
	ageless := models.Registration{ID: "r-ageless", ParticipantID: "ageless", Name: "A", Status: models.RegistrationApproved}
	ctx = NewContext(
		[]models.Registration{ageless, reg("kid", "K", 5)},
		nil,
		[]models.TimingRecord{indiv("ageless", "e", "3-3-3", 5), indiv("kid", "e", "3-3-3", 6)},
	)
	rows = Aggregate(event, models.AgeBracket{MinAge: 0, MaxAge: 6}, ctx, Options{})
	assert.Equal(t, []string{"kid"}, rowIDs(rows))
}

func TestAggregate_EmptyInputs(t *testing.T) {
	event := models.Event{ID: "e", Type: models.EventIndividual, Codes: []string{"3-3-3"}}

	rows := Aggregate(event, openBracket, NewContext(nil, nil, nil), Options{})
	assert.NotNil(t, rows)
	assert.Empty(t, rows)

	rows = Aggregate(event, openBracket, nil, Options{})
	assert.NotNil(t, rows)

	rows = Aggregate(models.Event{Type: models.EventIndividual}, openBracket, NewContext(nil, nil, nil), Options{})
	assert.NotNil(t, rows)
}

func TestAggregate_DoesNotMutateInputs(t *testing.T) {
	event := models.Event{ID: "e", Type: models.EventIndividual, Codes: []string{"3-3-3", "Cycle"}}
	regs := []models.Registration{reg("a", "A", 9), reg("b", "B", 9)}
	records := []models.TimingRecord{
		indiv("a", "e", "3-3-3", 3, 2, 1),
		indiv("a", "e", "Cycle", 9, 8, 7),
		indiv("b", "e", "3-3-3", 1, 2, 3),
		indiv("b", "e", "Cycle", 7, 8, 9),
	}
	regsBefore := append([]models.Registration(nil), regs...)
	eventBefore := models.Event{ID: "e", Type: models.EventIndividual, Codes: []string{"3-3-3", "Cycle"}}

	ctx := NewContext(regs, nil, records)
	first := Aggregate(event, openBracket, ctx, Options{})
	second := Aggregate(event, openBracket, ctx, Options{})

	assert.Empty(t, cmp.Diff(first, second), "aggregation is idempotent")
	assert.Empty(t, cmp.Diff(regsBefore, regs))
	assert.Empty(t, cmp.Diff(eventBefore, event))
	assert.Equal(t, 3.0, *records[0].Try1)
	assert.Equal(t, 1.0, *records[0].Try3)
}
