package results

import "github.com/Dosada05/stacking-tournament/models"

// Participant is the registration data rows need about an individual.
type Participant struct {
	ID       string
	GlobalID string
	Name     string
	Age      int
}

// TeamInfo is the roster data rows need about a team.
type TeamInfo struct {
	ID          string
	Name        string
	LeaderID    string
	LeaderName  string
	MemberNames []string
	LargestAge  int
}

// Context is a read-only snapshot of one tournament's data with the lookup
// maps precomputed. Build it once per data load and share it between calls.
type Context struct {
	participants map[string]Participant
	teams        map[string]TeamInfo
	entries      []Entry
}

// NewContext indexes registrations, teams and records. Rejected and pending
// registrations are ignored; registrations without a status count as approved.
// Records that cannot be normalized are dropped here.
func NewContext(registrations []models.Registration, teams []models.Team, records []models.TimingRecord) *Context {
	c := &Context{
		participants: make(map[string]Participant, len(registrations)),
		teams:        make(map[string]TeamInfo, len(teams)),
		entries:      make([]Entry, 0, len(records)),
	}

	for _, reg := range registrations {
		if reg.ParticipantID == "" {
			continue
		}
		if reg.Status != "" && reg.Status != models.RegistrationApproved {
			continue
		}
		if _, dup := c.participants[reg.ParticipantID]; dup {
			continue
		}
		c.participants[reg.ParticipantID] = Participant{
			ID:       reg.ParticipantID,
			GlobalID: reg.GlobalID,
			Name:     reg.Name,
			Age:      reg.Age,
		}
	}

	for i := range teams {
		t := &teams[i]
		if t.ID == "" {
			continue
		}
		c.teams[t.ID] = c.teamInfo(t)
	}

	for _, rec := range records {
		if e, ok := NewEntry(rec); ok {
			c.entries = append(c.entries, e)
		}
	}
	return c
}

func (c *Context) teamInfo(t *models.Team) TeamInfo {
	info := TeamInfo{
		ID:         t.ID,
		Name:       t.Name,
		LeaderID:   t.LeaderID,
		LargestAge: t.LargestAge,
	}

	derivedAge := 0
	for _, id := range t.MemberIDs() {
		p, ok := c.participants[id]
		name := p.Name
		if n := memberName(t, id); n != "" {
			name = n
		}
		if id == t.LeaderID {
			info.LeaderName = name
		}
		if name != "" {
			info.MemberNames = append(info.MemberNames, name)
		}
		if ok && p.Age > derivedAge {
			derivedAge = p.Age
		}
	}
	if info.LargestAge <= 0 {
		info.LargestAge = derivedAge
	}
	if info.Name == "" {
		info.Name = info.LeaderName
	}
	return info
}

func memberName(t *models.Team, id string) string {
	for _, m := range t.Members {
		if m.ParticipantID == id {
			return m.Name
		}
	}
	return ""
}

// Participant looks up an approved registration by participant id.
func (c *Context) Participant(id string) (Participant, bool) {
	p, ok := c.participants[id]
	return p, ok
}

// Team looks up a team by id.
func (c *Context) Team(id string) (TeamInfo, bool) {
	t, ok := c.teams[id]
	return t, ok
}

// Entries returns the normalized records. Callers must not modify the slice.
func (c *Context) Entries() []Entry {
	return c.entries
}
