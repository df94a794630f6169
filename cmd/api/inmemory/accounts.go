package inmemory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/library-service/cmd/api/account"
)

type AdaptedAccount struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	DateOfBirth  time.Time
	Phone        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func adaptAccountIdToString(acc account.Account) AdaptedAccount {
	return AdaptedAccount{
		ID:           acc.ID.String(),
		Email:        acc.Email,
		PasswordHash: acc.PasswordHash,
		FirstName:    acc.FirstName,
		LastName:     acc.LastName,
		DateOfBirth:  acc.DateOfBirth,
		Phone:        acc.Phone,
		CreatedAt:    acc.CreatedAt,
		UpdatedAt:    acc.UpdatedAt,
	}
}

func adaptAccountIdToUUID(adptAcc AdaptedAccount) account.Account {
	return account.Account{
		ID:           uuid.MustParse(adptAcc.ID),
		Email:        adptAcc.Email,
		PasswordHash: adptAcc.PasswordHash,
		FirstName:    adptAcc.FirstName,
		LastName:     adptAcc.LastName,
		DateOfBirth:  adptAcc.DateOfBirth,
		Phone:        adptAcc.Phone,
		CreatedAt:    adptAcc.CreatedAt,
		UpdatedAt:    adptAcc.UpdatedAt,
	}
}

func (store *InMemoryStore) CreateAccount(ctx context.Context, acc account.Account) (account.Account, error) {
	txn, commit, abort := store.writer()
	defer abort()

	raw, err := txn.First("account", "email", acc.Email)
	if err != nil {
		return account.Account{}, fmt.Errorf("storing account on db: %w", err)
	}
	if raw != nil {
		return account.Account{}, fmt.Errorf("storing account on db: %w", account.ErrResponseAccountConflict)
	}

	if err := txn.Insert("account", adaptAccountIdToString(acc)); err != nil {
		return account.Account{}, fmt.Errorf("storing account on db: %w", err)
	}

	commit()
	return acc, nil
}

func (store *InMemoryStore) GetAccountByID(ctx context.Context, id uuid.UUID) (account.Account, error) {
	txn, done := store.reader()
	defer done()

	raw, err := txn.First("account", "id", id.String())
	if err != nil {
		return account.Account{}, fmt.Errorf("searching account by ID: %w", err)
	}
	if raw == nil {
		return account.Account{}, fmt.Errorf("searching account by ID: %w", account.ErrResponseAccountNotFound)
	}

	return adaptAccountIdToUUID(raw.(AdaptedAccount)), nil
}

func (store *InMemoryStore) GetAccountByEmail(ctx context.Context, email string) (account.Account, error) {
	txn, done := store.reader()
	defer done()

	raw, err := txn.First("account", "email", email)
	if err != nil {
		return account.Account{}, fmt.Errorf("searching account by email: %w", err)
	}
	if raw == nil {
		return account.Account{}, fmt.Errorf("searching account by email: %w", account.ErrResponseAccountNotFound)
	}

	return adaptAccountIdToUUID(raw.(AdaptedAccount)), nil
}

func (store *InMemoryStore) ListAccounts(ctx context.Context) ([]account.Account, error) {
	txn, done := store.reader()
	defer done()

	it, err := txn.Get("account", "id")
	if err != nil {
		return nil, fmt.Errorf("listing accounts from db: %w", err)
	}

	accounts := []account.Account{}
	for obj := it.Next(); obj != nil; obj = it.Next() {
		accounts = append(accounts, adaptAccountIdToUUID(obj.(AdaptedAccount)))
	}

	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
	})

	return accounts, nil
}
