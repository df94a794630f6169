package account

import (
	"net/http"

	"github.com/library-service/cmd/api/pkgerrors"
)

type ErrResponse = pkgerrors.ErrResponse

var ErrResponseAccountConflict = ErrResponse{Code: 300, Message: "there is already an account with this email on database.", Status: http.StatusConflict}
var ErrResponseAccountNotFound = ErrResponse{Code: 301, Message: "account not found", Status: http.StatusNotFound}
var ErrResponseInvalidCredentials = ErrResponse{Code: 302, Message: "email or password is incorrect.", Status: http.StatusUnauthorized}
var ErrResponseUnauthenticated = ErrResponse{Code: 303, Message: "unauthenticated.", Status: http.StatusUnauthorized}
var ErrResponseAccountEntryBlankFields = ErrResponse{Code: 304, Message: "all the fields - email, password, first_name, last_name, phone and dob - must be filled correctly.", Status: http.StatusBadRequest}
var ErrResponseEmailInvalid = ErrResponse{Code: 305, Message: "email is invalid.", Status: http.StatusBadRequest}
var ErrResponsePasswordInvalid = ErrResponse{Code: 306, Message: "password must be at least 5 characters.", Status: http.StatusBadRequest}
var ErrResponseNameTooLong = ErrResponse{Code: 307, Message: "first and last name must not exceed 50 characters.", Status: http.StatusBadRequest}
var ErrResponsePhoneInvalid = ErrResponse{Code: 308, Message: "phone must contain exactly 10 digits.", Status: http.StatusBadRequest}
var ErrResponseDobInvalid = ErrResponse{Code: 309, Message: "date of birth must be in the past.", Status: http.StatusBadRequest}
