package inmemory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/library-service/cmd/api/book"
	"github.com/library-service/cmd/api/borrowing"
)

type AdaptedLoan struct {
	ID         string
	AccountID  string
	BookID     string
	BorrowedAt time.Time
	ReturnedAt *time.Time
}

func adaptLoanIdToString(loan borrowing.Loan) AdaptedLoan {
	return AdaptedLoan{
		ID:         loan.ID.String(),
		AccountID:  loan.AccountID.String(),
		BookID:     loan.BookID.String(),
		BorrowedAt: loan.BorrowedAt,
		ReturnedAt: loan.ReturnedAt,
	}
}

func adaptLoanIdToUUID(adptLoan AdaptedLoan) borrowing.Loan {
	return borrowing.Loan{
		ID:         uuid.MustParse(adptLoan.ID),
		AccountID:  uuid.MustParse(adptLoan.AccountID),
		BookID:     uuid.MustParse(adptLoan.BookID),
		BorrowedAt: adptLoan.BorrowedAt,
		ReturnedAt: adptLoan.ReturnedAt,
	}
}

func (store *InMemoryStore) GetAvailability(ctx context.Context, bookID uuid.UUID) (borrowing.Availability, error) {
	txn, done := store.reader()
	defer done()

	raw, err := txn.First("book", "id", bookID.String())
	if err != nil {
		return borrowing.Availability{}, fmt.Errorf("reading availability: %w", err)
	}
	if raw == nil {
		return borrowing.Availability{}, fmt.Errorf("reading availability: %w", book.ErrResponseBookNotFound)
	}

	b := raw.(AdaptedBook)
	return borrowing.Availability{
		BookID:          bookID,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
	}, nil
}

func (store *InMemoryStore) AdjustAvailability(ctx context.Context, bookID uuid.UUID, delta int) (borrowing.Availability, error) {
	txn, commit, abort := store.writer()
	defer abort()

	raw, err := txn.First("book", "id", bookID.String())
	if err != nil {
		return borrowing.Availability{}, fmt.Errorf("adjusting availability: %w", err)
	}
	if raw == nil {
		return borrowing.Availability{}, fmt.Errorf("adjusting availability: %w", book.ErrResponseBookNotFound)
	}

	updatedBook := raw.(AdaptedBook)
	next := updatedBook.AvailableCopies + delta
	if next < 0 || next > updatedBook.TotalCopies {
		return borrowing.Availability{}, fmt.Errorf("adjusting availability: %w", borrowing.ErrResponseInvalidAdjustment)
	}
	updatedBook.AvailableCopies = next

	if err := txn.Insert("book", updatedBook); err != nil {
		return borrowing.Availability{}, fmt.Errorf("adjusting availability: %w", err)
	}

	commit()
	return borrowing.Availability{
		BookID:          bookID,
		TotalCopies:     updatedBook.TotalCopies,
		AvailableCopies: updatedBook.AvailableCopies,
	}, nil
}

func (store *InMemoryStore) GetActiveLoan(ctx context.Context, accountID, bookID uuid.UUID) (borrowing.Loan, error) {
	txn, done := store.reader()
	defer done()

	it, err := txn.Get("loan", "account_book", accountID.String(), bookID.String())
	if err != nil {
		return borrowing.Loan{}, fmt.Errorf("searching active loan: %w", err)
	}

	for obj := it.Next(); obj != nil; obj = it.Next() {
		loan := obj.(AdaptedLoan)
		if loan.ReturnedAt == nil {
			return adaptLoanIdToUUID(loan), nil
		}
	}

	return borrowing.Loan{}, fmt.Errorf("searching active loan: %w", borrowing.ErrResponseBorrowRecordNotFound)
}

func (store *InMemoryStore) CreateLoan(ctx context.Context, loan borrowing.Loan) (borrowing.Loan, error) {
	txn, commit, abort := store.writer()
	defer abort()

	// Only one active loan per account and book.
	it, err := txn.Get("loan", "account_book", loan.AccountID.String(), loan.BookID.String())
	if err != nil {
		return borrowing.Loan{}, fmt.Errorf("storing loan on db: %w", err)
	}
	for obj := it.Next(); obj != nil; obj = it.Next() {
		if obj.(AdaptedLoan).ReturnedAt == nil {
			return borrowing.Loan{}, fmt.Errorf("storing loan on db: %w", borrowing.ErrResponseAlreadyBorrowed)
		}
	}

	if err := txn.Insert("loan", adaptLoanIdToString(loan)); err != nil {
		return borrowing.Loan{}, fmt.Errorf("storing loan on db: %w", err)
	}

	commit()
	return loan, nil
}

func (store *InMemoryStore) CloseLoan(ctx context.Context, loanID uuid.UUID, returnedAt time.Time) (borrowing.Loan, error) {
	txn, commit, abort := store.writer()
	defer abort()

	raw, err := txn.First("loan", "id", loanID.String())
	if err != nil {
		return borrowing.Loan{}, fmt.Errorf("closing loan on db: %w", err)
	}
	if raw == nil {
		return borrowing.Loan{}, fmt.Errorf("closing loan on db: %w", borrowing.ErrResponseBorrowRecordNotFound)
	}

	closedLoan := raw.(AdaptedLoan)
	if closedLoan.ReturnedAt != nil {
		return borrowing.Loan{}, fmt.Errorf("closing loan on db: %w", borrowing.ErrResponseAlreadyReturned)
	}
	ts := returnedAt
	closedLoan.ReturnedAt = &ts

	if err := txn.Insert("loan", closedLoan); err != nil {
		return borrowing.Loan{}, fmt.Errorf("closing loan on db: %w", err)
	}

	commit()
	return adaptLoanIdToUUID(closedLoan), nil
}

func (store *InMemoryStore) ListLoansByAccount(ctx context.Context, accountID uuid.UUID) ([]borrowing.Loan, error) {
	txn, done := store.reader()
	defer done()

	it, err := txn.Get("loan", "account_id", accountID.String())
	if err != nil {
		return nil, fmt.Errorf("listing loans from db: %w", err)
	}

	loans := []borrowing.Loan{}
	for obj := it.Next(); obj != nil; obj = it.Next() {
		loans = append(loans, adaptLoanIdToUUID(obj.(AdaptedLoan)))
	}

	sort.Slice(loans, func(i, j int) bool {
		return loans[i].BorrowedAt.After(loans[j].BorrowedAt)
	})

	return loans, nil
}
