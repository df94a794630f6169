package http

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/library-service/cmd/api/borrowing"
	"github.com/rs/zerolog/log"
)

type BorrowingHandler struct {
	borrowingService borrowing.ServiceAPI
	requestTimeout   time.Duration
}

func NewBorrowingHandler(borrowingService borrowing.ServiceAPI, requestTimeout time.Duration) *BorrowingHandler {
	return &BorrowingHandler{borrowingService: borrowingService, requestTimeout: requestTimeout}
}

/* Addresses a call to "/borrowing/borrow". */
func (h *BorrowingHandler) borrow(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()
	r = r.WithContext(ctx)

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	accountID, bookID, err := extractIdsParams(r.URL.Query())
	if err != nil {
		responseJSON(w, http.StatusBadRequest, err)
		return
	}

	loan, err := h.borrowingService.BorrowBook(r.Context(), accountID, bookID)
	if err != nil {
		handleError(err, w, r)
		return
	}

	responseJSON(w, http.StatusOK, BorrowingResponse{
		Result: "Book borrowed successfully!",
		Loan:   loanToResponse(loan),
	})
}

/* Addresses a call to "/borrowing/return". */
func (h *BorrowingHandler) returnBook(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()
	r = r.WithContext(ctx)

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	accountID, bookID, err := extractIdsParams(r.URL.Query())
	if err != nil {
		responseJSON(w, http.StatusBadRequest, err)
		return
	}

	loan, err := h.borrowingService.ReturnBook(r.Context(), accountID, bookID)
	if err != nil {
		handleError(err, w, r)
		return
	}

	responseJSON(w, http.StatusOK, BorrowingResponse{
		Result: "Book returned successfully!",
		Loan:   loanToResponse(loan),
	})
}

/* Addresses a call to "/borrowing/loans". Lists the loans of an account,
most recent first. */
func (h *BorrowingHandler) loans(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()
	r = r.WithContext(ctx)

	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	accountIDStr := r.URL.Query().Get("accountId")
	accountID, err := uuid.Parse(accountIDStr)
	if err != nil {
		log.Error().Err(err).Msg("parsing accountId query param")
		responseJSON(w, http.StatusBadRequest, borrowing.ErrResponseQueryIdsInvalid)
		return
	}

	loans, err := h.borrowingService.ListLoans(r.Context(), accountID)
	if err != nil {
		handleError(err, w, r)
		return
	}

	results := []LoanResponse{}
	for _, loan := range loans {
		results = append(results, loanToResponse(loan))
	}

	responseJSON(w, http.StatusOK, results)
}

/* Isolates and validates the accountId and bookId query parameters. */
func extractIdsParams(query url.Values) (accountID, bookID uuid.UUID, err error) {
	accountID, err = uuid.Parse(query.Get("accountId"))
	if err != nil {
		log.Error().Err(err).Msg("parsing accountId query param")
		return uuid.Nil, uuid.Nil, borrowing.ErrResponseQueryIdsInvalid
	}

	bookID, err = uuid.Parse(query.Get("bookId"))
	if err != nil {
		log.Error().Err(err).Msg("parsing bookId query param")
		return uuid.Nil, uuid.Nil, borrowing.ErrResponseQueryIdsInvalid
	}

	return accountID, bookID, nil
}

type BorrowingResponse struct {
	Result string       `json:"result"`
	Loan   LoanResponse `json:"loan"`
}

type LoanResponse struct {
	ID         uuid.UUID  `json:"id"`
	AccountID  uuid.UUID  `json:"account_id"`
	BookID     uuid.UUID  `json:"book_id"`
	BorrowedAt time.Time  `json:"borrowed_at"`
	ReturnedAt *time.Time `json:"returned_at,omitempty"`
}

/*Copy the fields of a loan object to an http layer struct with json tags*/
func loanToResponse(l borrowing.Loan) LoanResponse {
	return LoanResponse{
		ID:         l.ID,
		AccountID:  l.AccountID,
		BookID:     l.BookID,
		BorrowedAt: l.BorrowedAt,
		ReturnedAt: l.ReturnedAt,
	}
}
