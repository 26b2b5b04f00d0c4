package models

type UserRole string

const (
	RoleOrganizer UserRole = "organizer"
	RoleJudge     UserRole = "judge"
)

// Account is an operator allowed to sign in. Accounts come from configuration.
type Account struct {
	Email        string   `json:"email"`
	Role         UserRole `json:"role"`
	PasswordHash string   `json:"-"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
