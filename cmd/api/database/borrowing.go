package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/library-service/cmd/api/book"
	"github.com/library-service/cmd/api/borrowing"
)

/* Reads the copy counts of a book. FOR UPDATE locks the row for the rest of
the transaction, which is what serializes borrow/return across processes. */
func (store *Store) GetAvailability(ctx context.Context, bookID uuid.UUID) (borrowing.Availability, error) {
	sqlStatement := `SELECT id, total_copies, available_copies
	FROM books
	WHERE id=$1
	FOR UPDATE;`
	foundRow := store.exc.QueryRowContext(ctx, sqlStatement, bookID)
	var availability borrowing.Availability
	err := foundRow.Scan(&availability.BookID, &availability.TotalCopies, &availability.AvailableCopies)
	if err != nil {
		switch err {
		case sql.ErrNoRows:
			return borrowing.Availability{}, fmt.Errorf("reading availability: %w", book.ErrResponseBookNotFound)
		default:
			return borrowing.Availability{}, fmt.Errorf("reading availability: %w", err)
		}
	}

	return availability, nil
}

/* Moves the available count by delta. The WHERE clause refuses any delta that
would leave the count outside [0, total_copies]. */
func (store *Store) AdjustAvailability(ctx context.Context, bookID uuid.UUID, delta int) (borrowing.Availability, error) {
	sqlStatement := `
	UPDATE books
	SET available_copies = available_copies + $2, updated_at = $3
	WHERE id = $1
	AND available_copies + $2 >= 0
	AND available_copies + $2 <= total_copies
	RETURNING id, total_copies, available_copies`
	updatedRow := store.exc.QueryRowContext(ctx, sqlStatement, bookID, delta, time.Now().UTC().Round(time.Millisecond))
	var availability borrowing.Availability
	err := updatedRow.Scan(&availability.BookID, &availability.TotalCopies, &availability.AvailableCopies)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if _, getErr := store.GetAvailability(ctx, bookID); getErr != nil {
				return borrowing.Availability{}, getErr
			}
			return borrowing.Availability{}, fmt.Errorf("adjusting availability: %w", borrowing.ErrResponseInvalidAdjustment)
		}
		return borrowing.Availability{}, fmt.Errorf("adjusting availability: %w", err)
	}

	return availability, nil
}

const loanColumns = `id, account_id, book_id, borrowed_at, returned_at`

func scanLoan(row interface{ Scan(...any) error }) (borrowing.Loan, error) {
	var loan borrowing.Loan
	var returnedAt sql.NullTime
	err := row.Scan(&loan.ID, &loan.AccountID, &loan.BookID, &loan.BorrowedAt, &returnedAt)
	if returnedAt.Valid {
		t := returnedAt.Time
		loan.ReturnedAt = &t
	}
	return loan, err
}

/* Finds the active loan of an account on a book. The partial unique index on
(account_id, book_id) WHERE returned_at IS NULL backs this lookup. */
func (store *Store) GetActiveLoan(ctx context.Context, accountID, bookID uuid.UUID) (borrowing.Loan, error) {
	sqlStatement := `SELECT ` + loanColumns + `
	FROM loans
	WHERE account_id=$1 AND book_id=$2 AND returned_at IS NULL;`
	foundRow := store.exc.QueryRowContext(ctx, sqlStatement, accountID, bookID)
	loanToReturn, err := scanLoan(foundRow)
	if err != nil {
		switch err {
		case sql.ErrNoRows:
			return borrowing.Loan{}, fmt.Errorf("searching active loan: %w", borrowing.ErrResponseBorrowRecordNotFound)
		default:
			return borrowing.Loan{}, fmt.Errorf("searching active loan: %w", err)
		}
	}

	return loanToReturn, nil
}

/* Inserts a new active loan. The partial unique index rejects a second active
loan for the same account and book even if a concurrent writer slipped past
the service checks. */
func (store *Store) CreateLoan(ctx context.Context, loan borrowing.Loan) (borrowing.Loan, error) {
	sqlStatement := `
	INSERT INTO loans (id, account_id, book_id, borrowed_at)
	VALUES ($1, $2, $3, $4)
	RETURNING ` + loanColumns
	createdRow := store.exc.QueryRowContext(ctx, sqlStatement, loan.ID, loan.AccountID, loan.BookID, loan.BorrowedAt)
	loanToReturn, err := scanLoan(createdRow)
	if err != nil {
		if isUniqueViolation(err) {
			return borrowing.Loan{}, fmt.Errorf("storing loan on db: %w", borrowing.ErrResponseAlreadyBorrowed)
		}
		return borrowing.Loan{}, fmt.Errorf("storing loan on db: %w", err)
	}

	return loanToReturn, nil
}

/* Sets the return timestamp of an active loan. A loan already closed fails
with AlreadyReturned instead of moving the timestamp. */
func (store *Store) CloseLoan(ctx context.Context, loanID uuid.UUID, returnedAt time.Time) (borrowing.Loan, error) {
	sqlStatement := `
	UPDATE loans
	SET returned_at = $2
	WHERE id = $1 AND returned_at IS NULL
	RETURNING ` + loanColumns
	updatedRow := store.exc.QueryRowContext(ctx, sqlStatement, loanID, returnedAt)
	loanToReturn, err := scanLoan(updatedRow)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			var exists bool
			checkRow := store.exc.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM loans WHERE id=$1);`, loanID)
			if scanErr := checkRow.Scan(&exists); scanErr != nil {
				return borrowing.Loan{}, fmt.Errorf("closing loan on db: %w", scanErr)
			}
			if exists {
				return borrowing.Loan{}, fmt.Errorf("closing loan on db: %w", borrowing.ErrResponseAlreadyReturned)
			}
			return borrowing.Loan{}, fmt.Errorf("closing loan on db: %w", borrowing.ErrResponseBorrowRecordNotFound)
		}
		return borrowing.Loan{}, fmt.Errorf("closing loan on db: %w", err)
	}

	return loanToReturn, nil
}

/* Lists the whole loan history of an account, most recent first. */
func (store *Store) ListLoansByAccount(ctx context.Context, accountID uuid.UUID) ([]borrowing.Loan, error) {
	sqlStatement := `SELECT ` + loanColumns + `
	FROM loans
	WHERE account_id=$1
	ORDER BY borrowed_at DESC;`

	rows, err := store.exc.QueryContext(ctx, sqlStatement, accountID)
	if err != nil {
		return nil, fmt.Errorf("listing loans from db: %w", err)
	}
	defer rows.Close()
	loans := []borrowing.Loan{}
	for rows.Next() {
		loanToReturn, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("listing loans from db: %w", err)
		}

		loans = append(loans, loanToReturn)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("listing loans from db: %w", err)
	}

	return loans, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
