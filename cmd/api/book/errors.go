package book

import (
	"net/http"

	"github.com/library-service/cmd/api/pkgerrors"
)

type ErrResponse = pkgerrors.ErrResponse

var ErrResponseBookEntryBlankFields = ErrResponse{Code: 100, Message: "all the fields - title, author, category and total_copies - must be filled correctly.", Status: http.StatusBadRequest}
var ErrResponseBookNotFound = ErrResponse{Code: 101, Message: "book not found", Status: http.StatusNotFound}
var ErrResponseEntryInvalidJSON = ErrResponse{Code: 102, Message: "invalid json request.", Status: http.StatusBadRequest}
var ErrResponseIdInvalidFormat = ErrResponse{Code: 103, Message: "the endpoint is not a valid format ID. Must be /books/{uuid}", Status: http.StatusBadRequest}
var ErrResponseQuerySortByInvalid = ErrResponse{Code: 104, Message: "query parameter 'sort_by' must be: title, author, category, created_at or updated_at. 'sort_direction' must be asc or desc.", Status: http.StatusBadRequest}
var ErrResponseQueryPageInvalid = ErrResponse{Code: 105, Message: "query parameter 'page' must be an int starting in 1. 'page_size' must be an int beetween 1 and 30.", Status: http.StatusBadRequest}
var ErrResponseQueryPageOutOfRange = ErrResponse{Code: 106, Message: "page out of range.", Status: http.StatusBadRequest}
var ErrResponseBookConflict = ErrResponse{Code: 107, Message: "there is already a book with this title on database.", Status: http.StatusConflict}
var ErrResponseInvalidCSVFormat = ErrResponse{Code: 108, Message: "file must be a csv with columns: title, author, category, total_copies, available_copies.", Status: http.StatusBadRequest}
var ErrResponseCSVImportFailed = ErrResponse{Code: 109, Message: "csv import failed: ", Status: http.StatusBadRequest}
var ErrResponseFromRespository = ErrResponse{Code: 110, Message: "error from repository: ", Status: http.StatusInternalServerError}
var ErrResponseRequestTimeout = ErrResponse{Code: 111, Message: "context deadline exceeded", Status: http.StatusGatewayTimeout}
var ErrResponseBookImageNotFound = ErrResponse{Code: 112, Message: "book has no image attached", Status: http.StatusNotFound}
