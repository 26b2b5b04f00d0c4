package repositories

import "errors"

var (
	ErrTournamentNotFound   = errors.New("tournament not found")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrRegistrationConflict = errors.New("participant is already registered for this tournament")
	ErrTeamNotFound         = errors.New("team not found")
	ErrTeamNameConflict     = errors.New("team name already used in this event")
	ErrRecordNotFound       = errors.New("timing record not found")
)
