package account

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Account struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	DateOfBirth  time.Time
	Phone        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type CreateAccountRequest struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	DateOfBirth time.Time
	Phone       string
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

/* Verifies every entry field and returns the first violation found. */
func (r CreateAccountRequest) Validate() error {
	if r.Email == "" || strings.TrimSpace(r.FirstName) == "" || strings.TrimSpace(r.LastName) == "" || r.Phone == "" || r.DateOfBirth.IsZero() {
		return ErrResponseAccountEntryBlankFields
	}
	if !emailPattern.MatchString(r.Email) {
		return ErrResponseEmailInvalid
	}
	if len(r.Password) < 5 {
		return ErrResponsePasswordInvalid
	}
	if len(r.FirstName) > 50 || len(r.LastName) > 50 {
		return ErrResponseNameTooLong
	}
	if !phonePattern.MatchString(r.Phone) {
		return ErrResponsePhoneInvalid
	}
	if !r.DateOfBirth.Before(time.Now()) {
		return ErrResponseDobInvalid
	}
	return nil
}
