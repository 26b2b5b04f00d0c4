package models

// EventType is the kind of competition an event is.
type EventType string

const (
	EventIndividual  EventType = "Individual"
	EventDouble      EventType = "Double"
	EventTeamRelay   EventType = "Team Relay"
	EventParentChild EventType = "Parent & Child"
)

var teamEventTypes = map[EventType]bool{
	EventDouble:      true,
	EventTeamRelay:   true,
	EventParentChild: true,
}

// IsTeam reports whether entries of this type are teams rather than individuals.
func (t EventType) IsTeam() bool {
	return teamEventTypes[t]
}

func (t EventType) IsValid() bool {
	return t == EventIndividual || teamEventTypes[t]
}

// TeamSize returns the required roster size (leader included) for team events, 0 otherwise.
func (t EventType) TeamSize() int {
	switch t {
	case EventDouble, EventParentChild:
		return 2
	case EventTeamRelay:
		return 4
	}
	return 0
}

// Classification is a skill-tier tag used to partition brackets.
type Classification string

const (
	ClassificationBeginner     Classification = "beginner"
	ClassificationIntermediate Classification = "intermediate"
	ClassificationAdvance      Classification = "advance"
)

func (c Classification) IsValid() bool {
	switch c {
	case ClassificationBeginner, ClassificationIntermediate, ClassificationAdvance:
		return true
	}
	return false
}

// Round is the stage of an event a record was set in.
type Round string

const (
	RoundPrelim Round = "prelim"
	RoundFinal  Round = "final"
)

func (r Round) IsValid() bool {
	return r == RoundPrelim || r == RoundFinal
}

// FinalCriterion says how many entrants of a bracket advance into a classification.
type FinalCriterion struct {
	Classification Classification `json:"classification" firestore:"classification" yaml:"classification"`
	Count          int            `json:"count" firestore:"count" yaml:"count"`
}

// AgeBracket is an inclusive age range used for ranking.
type AgeBracket struct {
	ID            string           `json:"id" firestore:"id" yaml:"id"`
	Name          string           `json:"name" firestore:"name" yaml:"name"`
	MinAge        int              `json:"min_age" firestore:"min_age" yaml:"min_age"`
	MaxAge        int              `json:"max_age" firestore:"max_age" yaml:"max_age"`
	FinalCriteria []FinalCriterion `json:"final_criteria,omitempty" firestore:"final_criteria,omitempty" yaml:"final_criteria,omitempty"`
}

// Contains reports whether age lies in [MinAge, MaxAge].
func (b AgeBracket) Contains(age int) bool {
	return age >= b.MinAge && age <= b.MaxAge
}

// Event is one competition of a tournament. An event with more than one code
// is ranked on the sum of its codes' best times.
type Event struct {
	ID          string       `json:"id" firestore:"id" yaml:"id"`
	Type        EventType    `json:"type" firestore:"type" yaml:"type"`
	Codes       []string     `json:"codes" firestore:"codes" yaml:"codes"`
	AgeBrackets []AgeBracket `json:"age_brackets" firestore:"age_brackets" yaml:"age_brackets"`
}

func (e Event) IsMultiCode() bool {
	return len(e.Codes) > 1
}

// FindBracket returns the bracket with the given id.
func (e *Event) FindBracket(bracketID string) (*AgeBracket, bool) {
	for i := range e.AgeBrackets {
		if e.AgeBrackets[i].ID == bracketID {
			return &e.AgeBrackets[i], true
		}
	}
	return nil, false
}
