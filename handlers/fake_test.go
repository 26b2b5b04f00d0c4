package handlers

import (
	"context"
	"io"

	"github.com/Dosada05/stacking-tournament/export"
	"github.com/Dosada05/stacking-tournament/models"
	"github.com/Dosada05/stacking-tournament/results"
	"github.com/Dosada05/stacking-tournament/services"
	"github.com/Dosada05/stacking-tournament/snapshot"
	"github.com/Dosada05/stacking-tournament/storage"
)

// ------------------------
// Fake Tournament Service
// ------------------------

type FakeTournamentService struct {
	trace []string

	CreateTournamentFunc       func(ctx context.Context, input services.CreateTournamentInput) (*models.Tournament, error)
	GetTournamentByIDFunc      func(ctx context.Context, id string) (*models.Tournament, error)
	ListTournamentsFunc        func(ctx context.Context, filter services.ListTournamentsFilter) ([]models.Tournament, error)
	UpdateTournamentStatusFunc func(ctx context.Context, id string, status models.TournamentStatus) (*models.Tournament, error)
}

func (f *FakeTournamentService) record(step string) { f.trace = append(f.trace, step) }

func (f *FakeTournamentService) Trace() []string { return f.trace }

func (f *FakeTournamentService) CreateTournament(ctx context.Context, input services.CreateTournamentInput) (*models.Tournament, error) {
	f.record("CreateTournament")
	if f.CreateTournamentFunc != nil {
		return f.CreateTournamentFunc(ctx, input)
	}
	return &models.Tournament{}, nil
}

func (f *FakeTournamentService) GetTournamentByID(ctx context.Context, id string) (*models.Tournament, error) {
	f.record("GetTournamentByID")
	if f.GetTournamentByIDFunc != nil {
		return f.GetTournamentByIDFunc(ctx, id)
	}
	return &models.Tournament{ID: id}, nil
}

func (f *FakeTournamentService) ListTournaments(ctx context.Context, filter services.ListTournamentsFilter) ([]models.Tournament, error) {
	f.record("ListTournaments")
	if f.ListTournamentsFunc != nil {
		return f.ListTournamentsFunc(ctx, filter)
	}
	return []models.Tournament{}, nil
}

func (f *FakeTournamentService) UpdateTournamentStatus(ctx context.Context, id string, status models.TournamentStatus) (*models.Tournament, error) {
	f.record("UpdateTournamentStatus")
	if f.UpdateTournamentStatusFunc != nil {
		return f.UpdateTournamentStatusFunc(ctx, id, status)
	}
	return &models.Tournament{ID: id, Status: status}, nil
}

func (f *FakeTournamentService) SyncStatusesByDate(ctx context.Context) error {
	f.record("SyncStatusesByDate")
	return nil
}

// ------------------------
// Fake Registration Service
// ------------------------

type FakeRegistrationService struct {
	RegisterFunc                 func(ctx context.Context, tournamentID string, input services.RegisterInput) (*models.Registration, error)
	ListRegistrationsFunc        func(ctx context.Context, tournamentID string, status *models.RegistrationStatus) ([]models.Registration, error)
	UpdateRegistrationStatusFunc func(ctx context.Context, tournamentID, registrationID string, status models.RegistrationStatus) (*models.Registration, error)
}

func (f *FakeRegistrationService) Register(ctx context.Context, tournamentID string, input services.RegisterInput) (*models.Registration, error) {
	if f.RegisterFunc != nil {
		return f.RegisterFunc(ctx, tournamentID, input)
	}
	return &models.Registration{TournamentID: tournamentID, Name: input.Name, Age: input.Age}, nil
}

func (f *FakeRegistrationService) ListRegistrations(ctx context.Context, tournamentID string, status *models.RegistrationStatus) ([]models.Registration, error) {
	if f.ListRegistrationsFunc != nil {
		return f.ListRegistrationsFunc(ctx, tournamentID, status)
	}
	return []models.Registration{}, nil
}

func (f *FakeRegistrationService) UpdateRegistrationStatus(ctx context.Context, tournamentID, registrationID string, status models.RegistrationStatus) (*models.Registration, error) {
	if f.UpdateRegistrationStatusFunc != nil {
		return f.UpdateRegistrationStatusFunc(ctx, tournamentID, registrationID, status)
	}
	return &models.Registration{ID: registrationID, TournamentID: tournamentID, Status: status}, nil
}

// ------------------------
// Fake Team Service
// ------------------------

type FakeTeamService struct {
	CreateTeamFunc   func(ctx context.Context, tournamentID string, input services.CreateTeamInput) (*models.Team, error)
	ListTeamsFunc    func(ctx context.Context, tournamentID string) ([]models.Team, error)
	VerifyMemberFunc func(ctx context.Context, tournamentID, teamID, participantID string) (*models.Team, error)
}

func (f *FakeTeamService) CreateTeam(ctx context.Context, tournamentID string, input services.CreateTeamInput) (*models.Team, error) {
	if f.CreateTeamFunc != nil {
		return f.CreateTeamFunc(ctx, tournamentID, input)
	}
	return &models.Team{TournamentID: tournamentID, Name: input.Name}, nil
}

func (f *FakeTeamService) ListTeams(ctx context.Context, tournamentID string) ([]models.Team, error) {
	if f.ListTeamsFunc != nil {
		return f.ListTeamsFunc(ctx, tournamentID)
	}
	return []models.Team{}, nil
}

func (f *FakeTeamService) VerifyMember(ctx context.Context, tournamentID, teamID, participantID string) (*models.Team, error) {
	if f.VerifyMemberFunc != nil {
		return f.VerifyMemberFunc(ctx, tournamentID, teamID, participantID)
	}
	return &models.Team{ID: teamID, TournamentID: tournamentID}, nil
}

// ------------------------
// Fake Record Service
// ------------------------

type FakeRecordService struct {
	SubmitRecordFunc func(ctx context.Context, tournamentID string, input services.SubmitRecordInput) (*models.TimingRecord, error)
	ListRecordsFunc  func(ctx context.Context, tournamentID string, eventID *string) ([]models.TimingRecord, error)
}

func (f *FakeRecordService) SubmitRecord(ctx context.Context, tournamentID string, input services.SubmitRecordInput) (*models.TimingRecord, error) {
	if f.SubmitRecordFunc != nil {
		return f.SubmitRecordFunc(ctx, tournamentID, input)
	}
	return &models.TimingRecord{ID: "rec-1", TournamentID: tournamentID}, nil
}

func (f *FakeRecordService) ListRecords(ctx context.Context, tournamentID string, eventID *string) ([]models.TimingRecord, error) {
	if f.ListRecordsFunc != nil {
		return f.ListRecordsFunc(ctx, tournamentID, eventID)
	}
	return []models.TimingRecord{}, nil
}

// ------------------------
// Fake Results / Export Services
// ------------------------

type FakeResultsService struct {
	LeaderboardFunc  func(ctx context.Context, tournamentID, eventID, bracketID string, opts results.Options) (*services.LeaderboardView, error)
	EventBoardsFunc  func(ctx context.Context, tournamentID, eventID string, opts results.Options) (*services.EventBoardsView, error)
	FinalistsFunc    func(ctx context.Context, tournamentID, eventID, bracketID string) (*services.FinalistsView, error)
	LoadSnapshotFunc func(ctx context.Context, tournamentID, eventID string) (*snapshot.Snapshot, error)
}

func (f *FakeResultsService) Leaderboard(ctx context.Context, tournamentID, eventID, bracketID string, opts results.Options) (*services.LeaderboardView, error) {
	if f.LeaderboardFunc != nil {
		return f.LeaderboardFunc(ctx, tournamentID, eventID, bracketID, opts)
	}
	return &services.LeaderboardView{TournamentID: tournamentID, Rows: []results.Row{}}, nil
}

func (f *FakeResultsService) EventBoards(ctx context.Context, tournamentID, eventID string, opts results.Options) (*services.EventBoardsView, error) {
	if f.EventBoardsFunc != nil {
		return f.EventBoardsFunc(ctx, tournamentID, eventID, opts)
	}
	return &services.EventBoardsView{TournamentID: tournamentID, Boards: []results.Board{}}, nil
}

func (f *FakeResultsService) Finalists(ctx context.Context, tournamentID, eventID, bracketID string) (*services.FinalistsView, error) {
	if f.FinalistsFunc != nil {
		return f.FinalistsFunc(ctx, tournamentID, eventID, bracketID)
	}
	return &services.FinalistsView{TournamentID: tournamentID, Finalists: []results.Finalist{}}, nil
}

func (f *FakeResultsService) LoadSnapshot(ctx context.Context, tournamentID, eventID string) (*snapshot.Snapshot, error) {
	if f.LoadSnapshotFunc != nil {
		return f.LoadSnapshotFunc(ctx, tournamentID, eventID)
	}
	return &snapshot.Snapshot{}, nil
}

type FakeExportService struct {
	RenderFunc  func(ctx context.Context, w io.Writer, tournamentID, eventID string, format export.Format, opts results.Options) error
	PublishFunc func(ctx context.Context, tournamentID, eventID string, format export.Format) (*storage.UploadResult, error)
}

func (f *FakeExportService) Render(ctx context.Context, w io.Writer, tournamentID, eventID string, format export.Format, opts results.Options) error {
	if f.RenderFunc != nil {
		return f.RenderFunc(ctx, w, tournamentID, eventID, format, opts)
	}
	_, err := io.WriteString(w, "sheet")
	return err
}

func (f *FakeExportService) Publish(ctx context.Context, tournamentID, eventID string, format export.Format) (*storage.UploadResult, error) {
	if f.PublishFunc != nil {
		return f.PublishFunc(ctx, tournamentID, eventID, format)
	}
	return &storage.UploadResult{Key: "results/" + tournamentID + "/" + eventID + "." + format.Ext()}, nil
}

// ------------------------
// Fake Auth Service
// ------------------------

type FakeAuthService struct {
	LoginFunc func(ctx context.Context, input models.Credentials) (*models.Account, error)
}

func (f *FakeAuthService) Login(ctx context.Context, input models.Credentials) (*models.Account, error) {
	if f.LoginFunc != nil {
		return f.LoginFunc(ctx, input)
	}
	return &models.Account{Email: input.Email, Role: models.RoleJudge}, nil
}
