package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/stacking-tournament/models"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Login(ctx context.Context, input models.Credentials) (*models.Account, error)
}

type authService struct {
	accounts map[string]models.Account
}

// NewAuthService builds the login check from configured operator accounts.
// Emails match case-insensitively.
func NewAuthService(accounts []models.Account) AuthService {
	byEmail := make(map[string]models.Account, len(accounts))
	for _, a := range accounts {
		if a.Email == "" || a.PasswordHash == "" {
			continue
		}
		byEmail[strings.ToLower(a.Email)] = a
	}
	return &authService{accounts: byEmail}
}

func (s *authService) Login(ctx context.Context, input models.Credentials) (*models.Account, error) {
	account, ok := s.accounts[strings.ToLower(strings.TrimSpace(input.Email))]
	if !ok {
		return nil, ErrAuthInvalidCredentials
	}

	err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(input.Password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrAuthInvalidCredentials
		}
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}

	account.PasswordHash = ""
	return &account, nil
}
