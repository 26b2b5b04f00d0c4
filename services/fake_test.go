package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Dosada05/stacking-tournament/live"
	"github.com/Dosada05/stacking-tournament/models"
	"github.com/Dosada05/stacking-tournament/repositories"
	"github.com/Dosada05/stacking-tournament/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ptr[T any](v T) *T { return &v }

// ------------------------
// Fake Tournament Repository
// ------------------------

type FakeTournamentRepo struct {
	mu          sync.Mutex
	Tournaments map[string]models.Tournament

	GetByIDFunc           func(ctx context.Context, id string) (*models.Tournament, error)
	UpdateStatusFunc      func(ctx context.Context, id string, status models.TournamentStatus) error
	ListForStatusSyncFunc func(ctx context.Context, now time.Time) ([]models.Tournament, error)
}

func NewFakeTournamentRepo(ts ...models.Tournament) *FakeTournamentRepo {
	f := &FakeTournamentRepo{Tournaments: map[string]models.Tournament{}}
	for _, t := range ts {
		f.Tournaments[t.ID] = t
	}
	return f
}

func (f *FakeTournamentRepo) Create(ctx context.Context, t *models.Tournament) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.ID == "" {
		t.ID = fmt.Sprintf("t%d", len(f.Tournaments)+1)
	}
	t.CreatedAt = time.Now().UTC()
	f.Tournaments[t.ID] = *t
	return nil
}

func (f *FakeTournamentRepo) GetByID(ctx context.Context, id string) (*models.Tournament, error) {
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, id)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.Tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	return &t, nil
}

func (f *FakeTournamentRepo) List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Tournament{}
	for _, t := range f.Tournaments {
		if filter.Status == nil || t.Status == *filter.Status {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *FakeTournamentRepo) UpdateStatus(ctx context.Context, id string, status models.TournamentStatus) error {
	if f.UpdateStatusFunc != nil {
		return f.UpdateStatusFunc(ctx, id, status)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.Tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Status = status
	f.Tournaments[id] = t
	return nil
}

func (f *FakeTournamentRepo) ListForStatusSync(ctx context.Context, now time.Time) ([]models.Tournament, error) {
	if f.ListForStatusSyncFunc != nil {
		return f.ListForStatusSyncFunc(ctx, now)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Tournament{}
	for _, t := range f.Tournaments {
		if t.Status != models.StatusCompleted && t.Status != models.StatusCanceled && !t.StartDate.After(now) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ------------------------
// Fake Registration Repository
// ------------------------

type FakeRegistrationRepo struct {
	mu            sync.Mutex
	Registrations []models.Registration

	ListByTournamentFunc func(ctx context.Context, tournamentID string, status *models.RegistrationStatus) ([]models.Registration, error)
}

func NewFakeRegistrationRepo(regs ...models.Registration) *FakeRegistrationRepo {
	return &FakeRegistrationRepo{Registrations: append([]models.Registration(nil), regs...)}
}

func (f *FakeRegistrationRepo) Create(ctx context.Context, reg *models.Registration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.Registrations {
		if r.TournamentID == reg.TournamentID && r.ParticipantID == reg.ParticipantID {
			return repositories.ErrRegistrationConflict
		}
	}
	if reg.ID == "" {
		reg.ID = fmt.Sprintf("reg%d", len(f.Registrations)+1)
	}
	f.Registrations = append(f.Registrations, *reg)
	return nil
}

func (f *FakeRegistrationRepo) GetByID(ctx context.Context, id string) (*models.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.Registrations {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, repositories.ErrRegistrationNotFound
}

func (f *FakeRegistrationRepo) FindByParticipant(ctx context.Context, tournamentID, participantID string) (*models.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.Registrations {
		if r.TournamentID == tournamentID && r.ParticipantID == participantID {
			return &r, nil
		}
	}
	return nil, repositories.ErrRegistrationNotFound
}

func (f *FakeRegistrationRepo) ListByTournament(ctx context.Context, tournamentID string, status *models.RegistrationStatus) ([]models.Registration, error) {
	if f.ListByTournamentFunc != nil {
		return f.ListByTournamentFunc(ctx, tournamentID, status)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Registration{}
	for _, r := range f.Registrations {
		if r.TournamentID == tournamentID && (status == nil || r.Status == *status) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *FakeRegistrationRepo) UpdateStatus(ctx context.Context, id string, status models.RegistrationStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Registrations {
		if f.Registrations[i].ID == id {
			f.Registrations[i].Status = status
			return nil
		}
	}
	return repositories.ErrRegistrationNotFound
}

// ------------------------
// Fake Team Repository
// ------------------------

type FakeTeamRepo struct {
	mu    sync.Mutex
	Teams []models.Team

	CreateFunc func(ctx context.Context, t *models.Team) error
}

func NewFakeTeamRepo(teams ...models.Team) *FakeTeamRepo {
	return &FakeTeamRepo{Teams: append([]models.Team(nil), teams...)}
}

func (f *FakeTeamRepo) Create(ctx context.Context, t *models.Team) error {
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, t)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.ID == "" {
		t.ID = fmt.Sprintf("team%d", len(f.Teams)+1)
	}
	f.Teams = append(f.Teams, *t)
	return nil
}

func (f *FakeTeamRepo) GetByID(ctx context.Context, id string) (*models.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.Teams {
		if t.ID == id {
			t.Members = append([]models.TeamMember(nil), t.Members...)
			return &t, nil
		}
	}
	return nil, repositories.ErrTeamNotFound
}

func (f *FakeTeamRepo) ListByTournament(ctx context.Context, tournamentID string) ([]models.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Team{}
	for _, t := range f.Teams {
		if t.TournamentID == tournamentID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *FakeTeamRepo) UpdateMembers(ctx context.Context, t *models.Team) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Teams {
		if f.Teams[i].ID == t.ID {
			f.Teams[i].Members = append([]models.TeamMember(nil), t.Members...)
			f.Teams[i].LargestAge = t.LargestAge
			return nil
		}
	}
	return repositories.ErrTeamNotFound
}

// ------------------------
// Fake Record Repository
// ------------------------

type FakeRecordRepo struct {
	mu      sync.Mutex
	Records []models.TimingRecord

	ListByTournamentFunc func(ctx context.Context, tournamentID string, filter repositories.ListRecordsFilter) ([]models.TimingRecord, error)
}

func NewFakeRecordRepo(recs ...models.TimingRecord) *FakeRecordRepo {
	return &FakeRecordRepo{Records: append([]models.TimingRecord(nil), recs...)}
}

func (f *FakeRecordRepo) Create(ctx context.Context, rec *models.TimingRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rec.ID == "" {
		rec.ID = fmt.Sprintf("rec%d", len(f.Records)+1)
	}
	rec.SubmittedAt = time.Now().UTC()
	f.Records = append(f.Records, *rec)
	return nil
}

func (f *FakeRecordRepo) GetByID(ctx context.Context, id string) (*models.TimingRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.Records {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, repositories.ErrRecordNotFound
}

func (f *FakeRecordRepo) ListByTournament(ctx context.Context, tournamentID string, filter repositories.ListRecordsFilter) ([]models.TimingRecord, error) {
	if f.ListByTournamentFunc != nil {
		return f.ListByTournamentFunc(ctx, tournamentID, filter)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.TimingRecord{}
	for _, r := range f.Records {
		if r.TournamentID != tournamentID {
			continue
		}
		if filter.EventID != nil && r.EventID != "" && r.EventID != *filter.EventID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// ------------------------
// Fake Broadcaster / Uploader
// ------------------------

type sentMessage struct {
	Room    string
	Message live.Message
}

type FakeBroadcaster struct {
	mu   sync.Mutex
	Sent []sentMessage
}

func (f *FakeBroadcaster) BroadcastToRoom(room string, message live.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Sent = append(f.Sent, sentMessage{Room: room, Message: message})
}

type FakeUploader struct {
	Uploaded map[string][]byte
	Types    map[string]string
	Err      error
}

func NewFakeUploader() *FakeUploader {
	return &FakeUploader{Uploaded: map[string][]byte{}, Types: map[string]string{}}
}

func (f *FakeUploader) Upload(ctx context.Context, key, contentType string, r io.Reader) (*storage.UploadResult, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f.Uploaded[key] = b
	f.Types[key] = contentType
	return &storage.UploadResult{Key: key, Location: f.GetPublicURL(key)}, nil
}

func (f *FakeUploader) Delete(ctx context.Context, key string) error {
	delete(f.Uploaded, key)
	return nil
}

func (f *FakeUploader) GetPublicURL(key string) string {
	return storage.PublicURL("https://cdn.example.com", key)
}

// ------------------------
// Fixtures
// ------------------------

func fixtureTournament() models.Tournament {
	return models.Tournament{
		ID:        "t1",
		Name:      "Spring Open",
		StartDate: time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 4, 2, 18, 0, 0, 0, time.UTC),
		Status:    models.StatusOngoing,
		Events: []models.Event{
			{
				ID:    "ind",
				Type:  models.EventIndividual,
				Codes: []string{"3-3-3", "3-6-3", "Cycle"},
				AgeBrackets: []models.AgeBracket{
					{ID: "u10", Name: "Under 10", MinAge: 0, MaxAge: 9, FinalCriteria: []models.FinalCriterion{
						{Classification: models.ClassificationAdvance, Count: 1},
						{Classification: models.ClassificationIntermediate, Count: 1},
					}},
					{ID: "10-12", Name: "10-12", MinAge: 10, MaxAge: 12},
				},
			},
			{
				ID:          "dbl",
				Type:        models.EventDouble,
				Codes:       []string{"Cycle"},
				AgeBrackets: []models.AgeBracket{{ID: "open", Name: "Open", MinAge: 0, MaxAge: 99}},
			},
		},
	}
}

func approved(id, name string, age int) models.Registration {
	return models.Registration{
		ID: "reg-" + id, TournamentID: "t1", ParticipantID: id,
		Name: name, Age: age, Status: models.RegistrationApproved,
	}
}
