package repositories

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Dosada05/stacking-tournament/models"
)

const (
	tournamentsCollection   = "tournaments"
	registrationsCollection = "registrations"
	teamsCollection         = "teams"
	recordsCollection       = "records"
)

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// collectDocs drains an iterator. Partial results are discarded on error.
func collectDocs(iter *firestore.DocumentIterator) ([]*firestore.DocumentSnapshot, error) {
	defer iter.Stop()
	var docs []*firestore.DocumentSnapshot
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return docs, nil
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
}

// docsByTournament queries both spellings of the tournament key and merges
// the snapshots by document id, ordered by id.
func docsByTournament(ctx context.Context, coll *firestore.CollectionRef, tournamentID string) ([]*firestore.DocumentSnapshot, error) {
	byID := map[string]*firestore.DocumentSnapshot{}
	for _, key := range []string{"tournament_id", "tournamentId"} {
		docs, err := collectDocs(coll.Where(key, "==", tournamentID).Documents(ctx))
		if err != nil {
			return nil, err
		}
		for _, d := range docs {
			byID[d.Ref.ID] = d
		}
	}
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*firestore.DocumentSnapshot, 0, len(ids))
	for _, id := range ids {
		out = append(out, byID[id])
	}
	return out, nil
}

// --- tournaments ---

type firestoreTournamentRepository struct {
	client *firestore.Client
}

func NewFirestoreTournamentRepository(client *firestore.Client) TournamentRepository {
	return &firestoreTournamentRepository{client: client}
}

func tournamentFromSnapshot(doc *firestore.DocumentSnapshot) (*models.Tournament, error) {
	var t models.Tournament
	if err := doc.DataTo(&t); err != nil {
		return nil, fmt.Errorf("failed to decode tournament %s: %w", doc.Ref.ID, err)
	}
	t.ID = doc.Ref.ID
	if t.Events == nil {
		t.Events = []models.Event{}
	}
	return &t, nil
}

func (r *firestoreTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	ensureID(&t.ID)
	t.CreatedAt = time.Now().UTC()
	_, err := r.client.Collection(tournamentsCollection).Doc(t.ID).Create(ctx, t)
	return err
}

func (r *firestoreTournamentRepository) GetByID(ctx context.Context, id string) (*models.Tournament, error) {
	doc, err := r.client.Collection(tournamentsCollection).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return tournamentFromSnapshot(doc)
}

func (r *firestoreTournamentRepository) List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error) {
	q := r.client.Collection(tournamentsCollection).Query
	if filter.Status != nil {
		q = q.Where("status", "==", string(*filter.Status))
	}
	q = q.OrderBy("start_date", firestore.Desc)
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	return r.query(ctx, q)
}

func (r *firestoreTournamentRepository) UpdateStatus(ctx context.Context, id string, st models.TournamentStatus) error {
	_, err := r.client.Collection(tournamentsCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: string(st)},
	})
	if err != nil && isNotFound(err) {
		return ErrTournamentNotFound
	}
	return err
}

func (r *firestoreTournamentRepository) ListForStatusSync(ctx context.Context, now time.Time) ([]models.Tournament, error) {
	q := r.client.Collection(tournamentsCollection).
		Where("status", "in", []string{string(models.StatusUpcoming), string(models.StatusOngoing)}).
		Where("start_date", "<=", now)
	tournaments, err := r.query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournaments for status sync: %w", err)
	}
	return tournaments, nil
}

func (r *firestoreTournamentRepository) query(ctx context.Context, q firestore.Query) ([]models.Tournament, error) {
	docs, err := collectDocs(q.Documents(ctx))
	if err != nil {
		return nil, err
	}
	tournaments := make([]models.Tournament, 0, len(docs))
	for _, d := range docs {
		t, err := tournamentFromSnapshot(d)
		if err != nil {
			return nil, err
		}
		tournaments = append(tournaments, *t)
	}
	return tournaments, nil
}

// --- registrations ---

type firestoreRegistrationRepository struct {
	client *firestore.Client
}

func NewFirestoreRegistrationRepository(client *firestore.Client) RegistrationRepository {
	return &firestoreRegistrationRepository{client: client}
}

func (r *firestoreRegistrationRepository) Create(ctx context.Context, reg *models.Registration) error {
	ensureID(&reg.ID)
	reg.CreatedAt = time.Now().UTC()
	coll := r.client.Collection(registrationsCollection)
	ref := coll.Doc(reg.ID)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		q := coll.Where("tournament_id", "==", reg.TournamentID).
			Where("participant_id", "==", reg.ParticipantID).
			Limit(1)
		existing, err := tx.Documents(q).GetAll()
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return ErrRegistrationConflict
		}
		return tx.Create(ref, reg)
	})
	if errors.Is(err, ErrRegistrationConflict) || status.Code(err) == codes.AlreadyExists {
		return ErrRegistrationConflict
	}
	return err
}

func (r *firestoreRegistrationRepository) GetByID(ctx context.Context, id string) (*models.Registration, error) {
	doc, err := r.client.Collection(registrationsCollection).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}
	reg := registrationFromData(doc.Ref.ID, doc.Data())
	return &reg, nil
}

func (r *firestoreRegistrationRepository) FindByParticipant(ctx context.Context, tournamentID, participantID string) (*models.Registration, error) {
	regs, err := r.ListByTournament(ctx, tournamentID, nil)
	if err != nil {
		return nil, err
	}
	for i := range regs {
		if regs[i].ParticipantID == participantID {
			return &regs[i], nil
		}
	}
	return nil, ErrRegistrationNotFound
}

func (r *firestoreRegistrationRepository) ListByTournament(ctx context.Context, tournamentID string, st *models.RegistrationStatus) ([]models.Registration, error) {
	docs, err := docsByTournament(ctx, r.client.Collection(registrationsCollection), tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations for tournament %s: %w", tournamentID, err)
	}
	regs := make([]models.Registration, 0, len(docs))
	for _, d := range docs {
		reg := registrationFromData(d.Ref.ID, d.Data())
		reg.TournamentID = tournamentID
		if st != nil && reg.Status != *st {
			continue
		}
		regs = append(regs, reg)
	}
	return regs, nil
}

func (r *firestoreRegistrationRepository) UpdateStatus(ctx context.Context, id string, st models.RegistrationStatus) error {
	_, err := r.client.Collection(registrationsCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: string(st)},
	})
	if err != nil && isNotFound(err) {
		return ErrRegistrationNotFound
	}
	return err
}

// --- teams ---

type firestoreTeamRepository struct {
	client *firestore.Client
}

func NewFirestoreTeamRepository(client *firestore.Client) TeamRepository {
	return &firestoreTeamRepository{client: client}
}

func (r *firestoreTeamRepository) Create(ctx context.Context, t *models.Team) error {
	ensureID(&t.ID)
	t.CreatedAt = time.Now().UTC()
	_, err := r.client.Collection(teamsCollection).Doc(t.ID).Create(ctx, t)
	if status.Code(err) == codes.AlreadyExists {
		return ErrTeamNameConflict
	}
	return err
}

func (r *firestoreTeamRepository) GetByID(ctx context.Context, id string) (*models.Team, error) {
	doc, err := r.client.Collection(teamsCollection).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	team := teamFromData(doc.Ref.ID, doc.Data())
	return &team, nil
}

func (r *firestoreTeamRepository) ListByTournament(ctx context.Context, tournamentID string) ([]models.Team, error) {
	docs, err := docsByTournament(ctx, r.client.Collection(teamsCollection), tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for tournament %s: %w", tournamentID, err)
	}
	teams := make([]models.Team, 0, len(docs))
	for _, d := range docs {
		team := teamFromData(d.Ref.ID, d.Data())
		team.TournamentID = tournamentID
		teams = append(teams, team)
	}
	return teams, nil
}

func (r *firestoreTeamRepository) UpdateMembers(ctx context.Context, t *models.Team) error {
	_, err := r.client.Collection(teamsCollection).Doc(t.ID).Update(ctx, []firestore.Update{
		{Path: "members", Value: t.Members},
		{Path: "largest_age", Value: t.LargestAge},
	})
	if err != nil && isNotFound(err) {
		return ErrTeamNotFound
	}
	return err
}

// --- records ---

type firestoreRecordRepository struct {
	client *firestore.Client
}

func NewFirestoreRecordRepository(client *firestore.Client) RecordRepository {
	return &firestoreRecordRepository{client: client}
}

func (r *firestoreRecordRepository) Create(ctx context.Context, rec *models.TimingRecord) error {
	ensureID(&rec.ID)
	rec.SubmittedAt = time.Now().UTC()
	_, err := r.client.Collection(recordsCollection).Doc(rec.ID).Create(ctx, rec)
	return err
}

func (r *firestoreRecordRepository) GetByID(ctx context.Context, id string) (*models.TimingRecord, error) {
	doc, err := r.client.Collection(recordsCollection).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	rec := recordFromData(doc.Ref.ID, doc.Data())
	return &rec, nil
}

// ListByTournament filters by event and code in memory: the alias fields make
// server-side equality filters unreliable for legacy documents.
func (r *firestoreRecordRepository) ListByTournament(ctx context.Context, tournamentID string, filter ListRecordsFilter) ([]models.TimingRecord, error) {
	docs, err := docsByTournament(ctx, r.client.Collection(recordsCollection), tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list records for tournament %s: %w", tournamentID, err)
	}
	return filterRecords(docs, tournamentID, filter), nil
}

func filterRecords(docs []*firestore.DocumentSnapshot, tournamentID string, filter ListRecordsFilter) []models.TimingRecord {
	records := make([]models.TimingRecord, 0, len(docs))
	for _, d := range docs {
		rec := recordFromData(d.Ref.ID, d.Data())
		rec.TournamentID = tournamentID
		if !matchesRecordFilter(rec, filter) {
			continue
		}
		records = append(records, rec)
	}
	return records
}

func matchesRecordFilter(rec models.TimingRecord, filter ListRecordsFilter) bool {
	if filter.EventID != nil && rec.EventID != "" && rec.EventID != *filter.EventID {
		return false
	}
	if filter.Code != nil && rec.Code != *filter.Code {
		return false
	}
	return true
}
