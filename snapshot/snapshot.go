// Package snapshot holds one tournament's full data set and reads and writes
// it as YAML for offline ranking.
package snapshot

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Dosada05/stacking-tournament/models"
	"github.com/Dosada05/stacking-tournament/results"
)

var (
	ErrEventNotFound   = errors.New("event not found in snapshot")
	ErrBracketNotFound = errors.New("age bracket not found in event")
)

type Snapshot struct {
	Tournament    models.Tournament     `yaml:"tournament" json:"tournament"`
	Registrations []models.Registration `yaml:"registrations" json:"registrations"`
	Teams         []models.Team         `yaml:"teams" json:"teams"`
	Records       []models.TimingRecord `yaml:"records" json:"records"`
}

// Context indexes the snapshot for the aggregator.
func (s *Snapshot) Context() *results.Context {
	return results.NewContext(s.Registrations, s.Teams, s.Records)
}

func (s *Snapshot) Event(eventID string) (models.Event, error) {
	e, ok := s.Tournament.FindEvent(eventID)
	if !ok {
		return models.Event{}, fmt.Errorf("%w: %s", ErrEventNotFound, eventID)
	}
	return *e, nil
}

func (s *Snapshot) Bracket(eventID, bracketID string) (models.Event, models.AgeBracket, error) {
	e, err := s.Event(eventID)
	if err != nil {
		return models.Event{}, models.AgeBracket{}, err
	}
	b, ok := e.FindBracket(bracketID)
	if !ok {
		return models.Event{}, models.AgeBracket{}, fmt.Errorf("%w: %s/%s", ErrBracketNotFound, eventID, bracketID)
	}
	return e, *b, nil
}

func Decode(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("snapshot is empty")
		}
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &s, nil
}

func Encode(w io.Writer, s *Snapshot) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return enc.Close()
}

func Load(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

func Save(path string, s *Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
