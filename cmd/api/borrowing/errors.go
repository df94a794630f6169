package borrowing

import (
	"net/http"

	"github.com/library-service/cmd/api/pkgerrors"
)

type ErrResponse = pkgerrors.ErrResponse

var ErrResponseAlreadyBorrowed = ErrResponse{Code: 200, Message: "you have already borrowed this book!", Status: http.StatusConflict}
var ErrResponseNotAvailable = ErrResponse{Code: 201, Message: "no copies of the book are available!", Status: http.StatusConflict}
var ErrResponseBorrowRecordNotFound = ErrResponse{Code: 202, Message: "no borrowing record found for this account and book!", Status: http.StatusNotFound}
var ErrResponseAlreadyReturned = ErrResponse{Code: 203, Message: "this borrowing record was already returned!", Status: http.StatusConflict}
var ErrResponseInvalidAdjustment = ErrResponse{Code: 204, Message: "adjustment would leave available copies outside of [0, total_copies].", Status: http.StatusConflict}
var ErrResponseBusy = ErrResponse{Code: 205, Message: "book is busy with another borrow or return, try again.", Status: http.StatusServiceUnavailable}
var ErrResponseQueryIdsInvalid = ErrResponse{Code: 206, Message: "query parameters 'accountId' and 'bookId' must be valid uuids.", Status: http.StatusBadRequest}
