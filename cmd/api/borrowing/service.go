package borrowing

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/library-service/cmd/api/book"
)

type ServiceAPI interface {
	BorrowBook(ctx context.Context, accountID, bookID uuid.UUID) (Loan, error)
	ReturnBook(ctx context.Context, accountID, bookID uuid.UUID) (Loan, error)
	ListLoans(ctx context.Context, accountID uuid.UUID) ([]Loan, error)
}

type Repository interface {
	GetAvailability(ctx context.Context, bookID uuid.UUID) (Availability, error)
	AdjustAvailability(ctx context.Context, bookID uuid.UUID, delta int) (Availability, error)
	GetActiveLoan(ctx context.Context, accountID, bookID uuid.UUID) (Loan, error)
	CreateLoan(ctx context.Context, loan Loan) (Loan, error)
	CloseLoan(ctx context.Context, loanID uuid.UUID, returnedAt time.Time) (Loan, error)
	ListLoansByAccount(ctx context.Context, accountID uuid.UUID) ([]Loan, error)
	BeginTx(ctx context.Context, opts *sql.TxOptions) (Repository, driver.Tx, error)
}

// Catalog is the boundary to the catalog service. The engine only needs to
// know whether a book exists.
type Catalog interface {
	BookExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service enforces the borrowing invariants: available copies always equal
// total copies minus active loans, and an account holds at most one active
// loan per book. Every mutation of a book runs under that book's lock and
// inside a repository transaction, so a failed call leaves nothing behind.
type Service struct {
	repo     Repository
	catalog  Catalog
	locks    *BookLocks
	lockWait time.Duration
}

func NewService(repo Repository, catalog Catalog, lockWait time.Duration) *Service {
	return &Service{
		repo:     repo,
		catalog:  catalog,
		locks:    NewBookLocks(),
		lockWait: lockWait,
	}
}

/* Borrows one copy of a book for an account. Fails when the book does not
exist, the account already holds the book, or no copy is available. */
func (s *Service) BorrowBook(ctx context.Context, accountID, bookID uuid.UUID) (Loan, error) {
	exists, err := s.catalog.BookExists(ctx, bookID)
	if err != nil {
		return Loan{}, fmt.Errorf("borrowing book: %w", err)
	}
	if !exists {
		return Loan{}, fmt.Errorf("borrowing book: %w", book.ErrResponseBookNotFound)
	}

	release, err := s.locks.Acquire(ctx, bookID, s.lockWait)
	if err != nil {
		return Loan{}, fmt.Errorf("borrowing book: %w", err)
	}
	defer release()

	txRepo, tx, err := s.repo.BeginTx(ctx, nil)
	if err != nil {
		return Loan{}, fmt.Errorf("borrowing book: %w", err)
	}
	defer tx.Rollback()

	availability, err := txRepo.GetAvailability(ctx, bookID)
	if err != nil {
		return Loan{}, fmt.Errorf("borrowing book: %w", err)
	}

	_, err = txRepo.GetActiveLoan(ctx, accountID, bookID)
	if err == nil {
		return Loan{}, fmt.Errorf("borrowing book: %w", ErrResponseAlreadyBorrowed)
	}
	if !errors.Is(err, ErrResponseBorrowRecordNotFound) {
		return Loan{}, fmt.Errorf("borrowing book: %w", err)
	}

	if availability.AvailableCopies <= 0 {
		return Loan{}, fmt.Errorf("borrowing book: %w", ErrResponseNotAvailable)
	}

	if _, err := txRepo.AdjustAvailability(ctx, bookID, -1); err != nil {
		return Loan{}, fmt.Errorf("borrowing book: %w", err)
	}

	newLoan := Loan{
		ID:         uuid.New(),
		AccountID:  accountID,
		BookID:     bookID,
		BorrowedAt: time.Now().UTC().Round(time.Millisecond),
	}
	createdLoan, err := txRepo.CreateLoan(ctx, newLoan)
	if err != nil {
		return Loan{}, fmt.Errorf("borrowing book: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Loan{}, fmt.Errorf("borrowing book: %w", err)
	}

	return createdLoan, nil
}

/* Returns a borrowed book. Closes the active loan and gives the copy back,
clamped so the available count never exceeds the total. */
func (s *Service) ReturnBook(ctx context.Context, accountID, bookID uuid.UUID) (Loan, error) {
	release, err := s.locks.Acquire(ctx, bookID, s.lockWait)
	if err != nil {
		return Loan{}, fmt.Errorf("returning book: %w", err)
	}
	defer release()

	txRepo, tx, err := s.repo.BeginTx(ctx, nil)
	if err != nil {
		return Loan{}, fmt.Errorf("returning book: %w", err)
	}
	defer tx.Rollback()

	// Locks the books row before touching the loan, the same order BorrowBook
	// takes, so two processes working the same book cannot deadlock.
	availability, err := txRepo.GetAvailability(ctx, bookID)
	if err != nil {
		return Loan{}, fmt.Errorf("returning book: %w", err)
	}

	activeLoan, err := txRepo.GetActiveLoan(ctx, accountID, bookID)
	if err != nil {
		return Loan{}, fmt.Errorf("returning book: %w", err)
	}

	returnedAt := time.Now().UTC().Round(time.Millisecond)
	closedLoan, err := txRepo.CloseLoan(ctx, activeLoan.ID, returnedAt)
	if err != nil {
		return Loan{}, fmt.Errorf("returning book: %w", err)
	}

	if availability.AvailableCopies < availability.TotalCopies {
		if _, err := txRepo.AdjustAvailability(ctx, bookID, 1); err != nil {
			return Loan{}, fmt.Errorf("returning book: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Loan{}, fmt.Errorf("returning book: %w", err)
	}

	return closedLoan, nil
}

/* Lists the whole borrowing history of an account, most recent first. */
func (s *Service) ListLoans(ctx context.Context, accountID uuid.UUID) ([]Loan, error) {
	loans, err := s.repo.ListLoansByAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("timeout on call to ListLoansByAccount: %w", err)
		}
		return nil, fmt.Errorf("listing loans: %w", err)
	}
	return loans, nil
}
