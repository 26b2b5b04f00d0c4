package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed      = errors.New("validation failed")
	ErrInvalidClassification = errors.New("unknown classification")
	ErrInvalidRound          = errors.New("unknown round")
	ErrCodeNotInEvent        = errors.New("code does not belong to the event")
	ErrNoValidAttempt        = errors.New("at least one positive attempt time is required")
	ErrNotTeamEvent          = errors.New("event is not a team event")
	ErrTeamSizeInvalid       = errors.New("team size does not match the event type")
	ErrParticipantNotInTeam  = errors.New("participant is not a member of the team")
	ErrEntrantMismatch       = errors.New("record entrant does not match the event type")
	ErrTournamentClosed      = errors.New("tournament is completed or canceled")

	// Ошибки конфликтов
	ErrRegistrationConflict = errors.New("participant is already registered for this tournament")
	ErrTeamNameConflict     = errors.New("team name is already in use for this event")

	// Ошибки аутентификации и авторизации
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")

	// Ошибки, специфичные для сущностей
	ErrTournamentNotFound   = errors.New("tournament not found")
	ErrEventNotFound        = errors.New("event not found")
	ErrBracketNotFound      = errors.New("age bracket not found")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrParticipantNotFound  = errors.New("participant is not registered for this tournament")
	ErrTeamNotFound         = errors.New("team not found")

	// Ошибки турниров
	ErrTournamentNameRequired            = errors.New("tournament name is required")
	ErrTournamentDatesRequired           = errors.New("tournament start and end dates are required")
	ErrTournamentInvalidDateRange        = errors.New("tournament end date must not be before start date")
	ErrTournamentInvalidStatus           = errors.New("invalid tournament status provided")
	ErrTournamentInvalidStatusTransition = errors.New("invalid tournament status transition")

	ErrPublishingDisabled = errors.New("result publishing is not configured")
)
