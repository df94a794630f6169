package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type ServiceAPI interface {
	CreateAccount(ctx context.Context, accountEntry CreateAccountRequest) (Account, error)
	GetAccount(ctx context.Context, id uuid.UUID) (Account, error)
	ListAccounts(ctx context.Context) ([]Account, error)
	Authenticate(ctx context.Context, email, password string) (Token, error)
}

type Repository interface {
	CreateAccount(ctx context.Context, accountEntry Account) (Account, error)
	GetAccountByID(ctx context.Context, id uuid.UUID) (Account, error)
	GetAccountByEmail(ctx context.Context, email string) (Account, error)
	ListAccounts(ctx context.Context) ([]Account, error)
}

type Service struct {
	repo   Repository
	issuer *TokenIssuer
}

func NewService(repo Repository, issuer *TokenIssuer) *Service {
	return &Service{repo: repo, issuer: issuer}
}

/* Validates the entry, hashes the password and stores the new account. */
func (s *Service) CreateAccount(ctx context.Context, accountEntry CreateAccountRequest) (Account, error) {
	if err := accountEntry.Validate(); err != nil {
		return Account{}, fmt.Errorf("creating account: %w", err)
	}

	_, err := s.repo.GetAccountByEmail(ctx, accountEntry.Email)
	if err == nil {
		return Account{}, fmt.Errorf("creating account: %w", ErrResponseAccountConflict)
	}
	if !errors.Is(err, ErrResponseAccountNotFound) {
		return Account{}, fmt.Errorf("creating account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(accountEntry.Password), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, fmt.Errorf("creating account, hashing password: %w", err)
	}

	createdAt := time.Now().UTC().Round(time.Millisecond)
	newAccount := Account{
		ID:           uuid.New(),
		Email:        accountEntry.Email,
		PasswordHash: string(hash),
		FirstName:    accountEntry.FirstName,
		LastName:     accountEntry.LastName,
		DateOfBirth:  accountEntry.DateOfBirth,
		Phone:        accountEntry.Phone,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}

	return s.repo.CreateAccount(ctx, newAccount)
}

func (s *Service) GetAccount(ctx context.Context, id uuid.UUID) (Account, error) {
	return s.repo.GetAccountByID(ctx, id)
}

func (s *Service) ListAccounts(ctx context.Context) ([]Account, error) {
	return s.repo.ListAccounts(ctx)
}

/* Checks the credentials and issues a signed token for the account. A wrong
email answers the same as a wrong password. */
func (s *Service) Authenticate(ctx context.Context, email, password string) (Token, error) {
	storedAccount, err := s.repo.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrResponseAccountNotFound) {
			return Token{}, fmt.Errorf("authenticating: %w", ErrResponseInvalidCredentials)
		}
		return Token{}, fmt.Errorf("authenticating: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedAccount.PasswordHash), []byte(password)); err != nil {
		return Token{}, fmt.Errorf("authenticating: %w", ErrResponseInvalidCredentials)
	}

	return s.issuer.Issue(storedAccount.ID)
}
