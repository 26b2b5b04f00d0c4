package repositories

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Dosada05/stacking-tournament/models"
)

// Documents written by older clients use camelCase keys. The decoders below
// accept both spellings and always produce canonical models.

func lookup(data map[string]interface{}, keys ...string) (interface{}, bool) {
	for _, k := range keys {
		if v, ok := data[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func fieldString(data map[string]interface{}, keys ...string) string {
	v, ok := lookup(data, keys...)
	if !ok {
		return ""
	}
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

// fieldNumber returns nil when the key is missing, empty or not numeric.
func fieldNumber(data map[string]interface{}, keys ...string) *float64 {
	v, ok := lookup(data, keys...)
	if !ok {
		return nil
	}
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case int64:
		f = float64(x)
	case int:
		f = float64(x)
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) {
		return nil
	}
	return &f
}

func fieldInt(data map[string]interface{}, keys ...string) int {
	f := fieldNumber(data, keys...)
	if f == nil || math.IsInf(*f, 0) {
		return 0
	}
	return int(*f)
}

func fieldBool(data map[string]interface{}, keys ...string) bool {
	v, ok := lookup(data, keys...)
	if !ok {
		return false
	}
	switch x := v.(type) {
	case bool:
		return x
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(x))
		return b
	}
	return false
}

func fieldTime(data map[string]interface{}, keys ...string) time.Time {
	v, ok := lookup(data, keys...)
	if !ok {
		return time.Time{}
	}
	switch x := v.(type) {
	case time.Time:
		return x.UTC()
	case string:
		if t, err := time.Parse(time.RFC3339, x); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func fieldStrings(data map[string]interface{}, keys ...string) []string {
	v, ok := lookup(data, keys...)
	if !ok {
		return nil
	}
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func docID(id string, data map[string]interface{}) string {
	if id != "" {
		return id
	}
	return fieldString(data, "id")
}

func registrationFromData(id string, data map[string]interface{}) models.Registration {
	reg := models.Registration{
		ID:            docID(id, data),
		TournamentID:  fieldString(data, "tournament_id", "tournamentId"),
		ParticipantID: fieldString(data, "participant_id", "participantId"),
		GlobalID:      fieldString(data, "global_id", "globalId"),
		Name:          fieldString(data, "name"),
		Age:           fieldInt(data, "age"),
		Status:        models.RegistrationStatus(strings.ToLower(fieldString(data, "status"))),
		Events:        fieldStrings(data, "events"),
		CreatedAt:     fieldTime(data, "created_at", "createdAt"),
	}
	if reg.ParticipantID == "" {
		reg.ParticipantID = reg.ID
	}
	return reg
}

func teamFromData(id string, data map[string]interface{}) models.Team {
	team := models.Team{
		ID:           docID(id, data),
		TournamentID: fieldString(data, "tournament_id", "tournamentId"),
		EventID:      fieldString(data, "event_id", "eventId"),
		Name:         fieldString(data, "name", "team_name", "teamName"),
		LeaderID:     fieldString(data, "leader_id", "leaderId"),
		LargestAge:   fieldInt(data, "largest_age", "largestAge"),
		CreatedAt:    fieldTime(data, "created_at", "createdAt"),
		Members:      []models.TeamMember{},
	}
	if raw, ok := lookup(data, "members"); ok {
		if items, ok := raw.([]interface{}); ok {
			for _, item := range items {
				switch m := item.(type) {
				case string:
					team.Members = append(team.Members, models.TeamMember{ParticipantID: m})
				case map[string]interface{}:
					team.Members = append(team.Members, models.TeamMember{
						ParticipantID: fieldString(m, "participant_id", "participantId", "id"),
						Name:          fieldString(m, "name"),
						Verified:      fieldBool(m, "verified"),
					})
				}
			}
		}
	}
	return team
}

func recordFromData(id string, data map[string]interface{}) models.TimingRecord {
	return models.TimingRecord{
		ID:             docID(id, data),
		TournamentID:   fieldString(data, "tournament_id", "tournamentId"),
		EventID:        fieldString(data, "event_id", "eventId"),
		EventType:      models.EventType(fieldString(data, "event_type", "eventType")),
		Code:           fieldString(data, "code"),
		Round:          models.Round(strings.ToLower(fieldString(data, "round"))),
		ParticipantID:  fieldString(data, "participant_id", "participantId"),
		TeamID:         fieldString(data, "team_id", "teamId"),
		Try1:           fieldNumber(data, "try1"),
		Try2:           fieldNumber(data, "try2"),
		Try3:           fieldNumber(data, "try3"),
		BestTime:       fieldNumber(data, "best_time", "bestTime"),
		Classification: models.Classification(strings.ToLower(fieldString(data, "classification"))),
		SubmittedAt:    fieldTime(data, "submitted_at", "submittedAt"),
	}
}
