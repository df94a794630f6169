package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/library-service/cmd/api/account"
)

const accountColumns = `id, email, password_hash, first_name, last_name, date_of_birth, phone, created_at, updated_at`

func scanAccount(row interface{ Scan(...any) error }) (account.Account, error) {
	var a account.Account
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.FirstName, &a.LastName, &a.DateOfBirth, &a.Phone, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

/* Stores the account into the database, checks and returns it if succeed. */
func (store *Store) CreateAccount(ctx context.Context, accountEntry account.Account) (account.Account, error) {
	sqlStatement := `
	INSERT INTO accounts (` + accountColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING ` + accountColumns
	createdRow := store.exc.QueryRowContext(ctx, sqlStatement,
		accountEntry.ID, accountEntry.Email, accountEntry.PasswordHash,
		accountEntry.FirstName, accountEntry.LastName, accountEntry.DateOfBirth,
		accountEntry.Phone, accountEntry.CreatedAt, accountEntry.UpdatedAt)
	accountToReturn, err := scanAccount(createdRow)
	if err != nil {
		if isUniqueViolation(err) {
			return account.Account{}, fmt.Errorf("storing account on db: %w", account.ErrResponseAccountConflict)
		}
		return account.Account{}, fmt.Errorf("storing account on db: %w", err)
	}

	return accountToReturn, nil
}

func (store *Store) GetAccountByID(ctx context.Context, id uuid.UUID) (account.Account, error) {
	sqlStatement := `SELECT ` + accountColumns + `
	FROM accounts
	WHERE id=$1;`
	foundRow := store.exc.QueryRowContext(ctx, sqlStatement, id)
	accountToReturn, err := scanAccount(foundRow)
	if err != nil {
		switch err {
		case sql.ErrNoRows:
			return account.Account{}, fmt.Errorf("searching account by ID: %w", account.ErrResponseAccountNotFound)
		default:
			return account.Account{}, fmt.Errorf("searching account by ID: %w", err)
		}
	}

	return accountToReturn, nil
}

func (store *Store) GetAccountByEmail(ctx context.Context, email string) (account.Account, error) {
	sqlStatement := `SELECT ` + accountColumns + `
	FROM accounts
	WHERE email=$1;`
	foundRow := store.exc.QueryRowContext(ctx, sqlStatement, email)
	accountToReturn, err := scanAccount(foundRow)
	if err != nil {
		switch err {
		case sql.ErrNoRows:
			return account.Account{}, fmt.Errorf("searching account by email: %w", account.ErrResponseAccountNotFound)
		default:
			return account.Account{}, fmt.Errorf("searching account by email: %w", err)
		}
	}

	return accountToReturn, nil
}

func (store *Store) ListAccounts(ctx context.Context) ([]account.Account, error) {
	sqlStatement := `SELECT ` + accountColumns + `
	FROM accounts
	ORDER BY created_at ASC;`

	rows, err := store.exc.QueryContext(ctx, sqlStatement)
	if err != nil {
		return nil, fmt.Errorf("listing accounts from db: %w", err)
	}
	defer rows.Close()
	accounts := []account.Account{}
	for rows.Next() {
		accountToReturn, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("listing accounts from db: %w", err)
		}

		accounts = append(accounts, accountToReturn)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("listing accounts from db: %w", err)
	}

	return accounts, nil
}
