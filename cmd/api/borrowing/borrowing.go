package borrowing

import (
	"time"

	"github.com/google/uuid"
)

// Loan is one borrowing of a book by an account. A nil ReturnedAt means the
// loan is still active. Loan records are never deleted, the ledger is the
// audit trail.
type Loan struct {
	ID         uuid.UUID
	AccountID  uuid.UUID
	BookID     uuid.UUID
	BorrowedAt time.Time
	ReturnedAt *time.Time
}

func (l Loan) Active() bool {
	return l.ReturnedAt == nil
}

// Availability is the per-title copy count pair. The engine keeps
// AvailableCopies equal to TotalCopies minus the active loans on the book.
type Availability struct {
	BookID          uuid.UUID
	TotalCopies     int
	AvailableCopies int
}
