package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/stacking-tournament/models"
)

func teamFixtures() (*FakeTournamentRepo, *FakeRegistrationRepo) {
	rejected := approved("p4", "Dee", 13)
	rejected.Status = models.RegistrationRejected
	pending := approved("p3", "Cid", 12)
	pending.Status = models.RegistrationPending

	return NewFakeTournamentRepo(fixtureTournament()),
		NewFakeRegistrationRepo(approved("p1", "Ann", 9), approved("p2", "Bob", 11), pending, rejected)
}

func TestCreateTeam(t *testing.T) {
	tournaments, regs := teamFixtures()
	teams := NewFakeTeamRepo()
	svc := NewTeamService(teams, regs, tournaments, discardLogger())

	team, err := svc.CreateTeam(context.Background(), "t1", CreateTeamInput{
		EventID:   "dbl",
		Name:      "Fast Hands",
		LeaderID:  "p1",
		MemberIDs: []string{"p1", "p3"},
	})
	require.NoError(t, err)

	assert.Equal(t, 12, team.LargestAge, "pending members count toward the team age")
	require.Len(t, team.Members, 2)
	assert.Equal(t, models.TeamMember{ParticipantID: "p1", Name: "Ann", Verified: true}, team.Members[0])
	assert.Equal(t, models.TeamMember{ParticipantID: "p3", Name: "Cid"}, team.Members[1])
	assert.Len(t, teams.Teams, 1)
}

func TestCreateTeamValidation(t *testing.T) {
	existing := models.Team{ID: "team-x", TournamentID: "t1", EventID: "dbl", Name: "Fast Hands", LeaderID: "p2"}

	tests := []struct {
		name    string
		input   CreateTeamInput
		wantErr error
	}{
		{name: "name required", input: CreateTeamInput{EventID: "dbl", LeaderID: "p1", MemberIDs: []string{"p2"}}, wantErr: ErrValidationFailed},
		{name: "leader required", input: CreateTeamInput{EventID: "dbl", Name: "A", MemberIDs: []string{"p2"}}, wantErr: ErrValidationFailed},
		{name: "unknown event", input: CreateTeamInput{EventID: "relay", Name: "A", LeaderID: "p1", MemberIDs: []string{"p2"}}, wantErr: ErrEventNotFound},
		{name: "individual event", input: CreateTeamInput{EventID: "ind", Name: "A", LeaderID: "p1", MemberIDs: []string{"p2"}}, wantErr: ErrNotTeamEvent},
		{name: "too few members", input: CreateTeamInput{EventID: "dbl", Name: "A", LeaderID: "p1", MemberIDs: []string{"p1"}}, wantErr: ErrTeamSizeInvalid},
		{name: "too many members", input: CreateTeamInput{EventID: "dbl", Name: "A", LeaderID: "p1", MemberIDs: []string{"p2", "p3"}}, wantErr: ErrTeamSizeInvalid},
		{name: "name taken in event", input: CreateTeamInput{EventID: "dbl", Name: "fast hands", LeaderID: "p1", MemberIDs: []string{"p3"}}, wantErr: ErrTeamNameConflict},
		{name: "unregistered member", input: CreateTeamInput{EventID: "dbl", Name: "A", LeaderID: "p1", MemberIDs: []string{"ghost"}}, wantErr: ErrParticipantNotFound},
		{name: "rejected member", input: CreateTeamInput{EventID: "dbl", Name: "A", LeaderID: "p1", MemberIDs: []string{"p4"}}, wantErr: ErrParticipantNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tournaments, regs := teamFixtures()
			teams := NewFakeTeamRepo(existing)
			svc := NewTeamService(teams, regs, tournaments, discardLogger())

			_, err := svc.CreateTeam(context.Background(), "t1", tt.input)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Len(t, teams.Teams, 1)
		})
	}
}

func TestCreateTeamClosedTournament(t *testing.T) {
	tour := fixtureTournament()
	tour.Status = models.StatusCanceled
	_, regs := teamFixtures()
	svc := NewTeamService(NewFakeTeamRepo(), regs, NewFakeTournamentRepo(tour), discardLogger())

	_, err := svc.CreateTeam(context.Background(), "t1", CreateTeamInput{EventID: "dbl", Name: "A", LeaderID: "p1", MemberIDs: []string{"p2"}})
	assert.ErrorIs(t, err, ErrTournamentClosed)
}

func TestVerifyMember(t *testing.T) {
	team := models.Team{
		ID: "team-1", TournamentID: "t1", EventID: "dbl", Name: "Duo", LeaderID: "p1",
		Members: []models.TeamMember{{ParticipantID: "p1", Verified: true}, {ParticipantID: "p2"}},
	}

	tests := []struct {
		name          string
		tournamentID  string
		teamID        string
		participantID string
		wantErr       error
	}{
		{name: "verifies member", tournamentID: "t1", teamID: "team-1", participantID: "p2"},
		{name: "not in team", tournamentID: "t1", teamID: "team-1", participantID: "p9", wantErr: ErrParticipantNotInTeam},
		{name: "unknown team", tournamentID: "t1", teamID: "team-9", participantID: "p2", wantErr: ErrTeamNotFound},
		{name: "team of other tournament", tournamentID: "t2", teamID: "team-1", participantID: "p2", wantErr: ErrTeamNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tournaments, regs := teamFixtures()
			teams := NewFakeTeamRepo(team)
			svc := NewTeamService(teams, regs, tournaments, discardLogger())

			got, err := svc.VerifyMember(context.Background(), tt.tournamentID, tt.teamID, tt.participantID)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.False(t, teams.Teams[0].Members[1].Verified)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Members[1].Verified)
			assert.True(t, teams.Teams[0].Members[1].Verified)
		})
	}
}

func TestListTeams(t *testing.T) {
	tournaments, regs := teamFixtures()
	teams := NewFakeTeamRepo(
		models.Team{ID: "a", TournamentID: "t1"},
		models.Team{ID: "b", TournamentID: "t2"},
	)
	svc := NewTeamService(teams, regs, tournaments, discardLogger())

	got, err := svc.ListTeams(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)

	_, err = svc.ListTeams(context.Background(), "t2")
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}
