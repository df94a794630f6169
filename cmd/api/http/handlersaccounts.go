package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/library-service/cmd/api/account"
	"github.com/rs/zerolog/log"
)

type AccountHandler struct {
	accountService account.ServiceAPI
	requestTimeout time.Duration
}

func NewAccountHandler(accountService account.ServiceAPI, requestTimeout time.Duration) *AccountHandler {
	return &AccountHandler{accountService: accountService, requestTimeout: requestTimeout}
}

/* Addresses a call to "/accounts" according to the requested action.  */
func (h *AccountHandler) accounts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()
	r = r.WithContext(ctx)

	method := r.Method
	switch method {
	case http.MethodPost:
		h.createAccount(w, r)
		return
	case http.MethodGet:
		h.listAccounts(w, r)
		return
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
}

/* Addresses a call to "/accounts/(expected id here)". */
func (h *AccountHandler) accountById(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()
	r = r.WithContext(ctx)

	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	justId, _ := strings.CutPrefix(r.URL.Path, "/accounts/")
	id, err := uuid.Parse(justId)
	if err != nil {
		log.Error().Err(err).Msg("parsing account id")
		responseJSON(w, http.StatusBadRequest, account.ErrResponseAccountNotFound)
		return
	}

	returnedAccount, err := h.accountService.GetAccount(r.Context(), id)
	if err != nil {
		handleError(err, w, r)
		return
	}

	responseJSON(w, http.StatusOK, accountToResponse(returnedAccount))
}

type AccountEntry struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Dob       string `json:"dob"`
	Phone     string `json:"phone"`
}

/* Validates the entry, then stores the entry as a new account. */
func (h *AccountHandler) createAccount(w http.ResponseWriter, r *http.Request) {
	var accountEntry AccountEntry
	err := json.NewDecoder(r.Body).Decode(&accountEntry)
	if err != nil {
		log.Error().Err(err).Msg("decoding account entry")
		responseJSON(w, http.StatusBadRequest, account.ErrResponseAccountEntryBlankFields)
		return
	}

	dob, err := time.Parse("2006-01-02", accountEntry.Dob)
	if err != nil {
		log.Error().Err(err).Msg("parsing date of birth")
		responseJSON(w, http.StatusBadRequest, account.ErrResponseDobInvalid)
		return
	}

	reqAccount := account.CreateAccountRequest{
		Email:       accountEntry.Email,
		Password:    accountEntry.Password,
		FirstName:   accountEntry.FirstName,
		LastName:    accountEntry.LastName,
		DateOfBirth: dob,
		Phone:       accountEntry.Phone,
	}

	storedAccount, err := h.accountService.CreateAccount(r.Context(), reqAccount)
	if err != nil {
		handleError(err, w, r)
		return
	}

	responseJSON(w, http.StatusCreated, accountToResponse(storedAccount))
}

/* Returns a list of the stored accounts. */
func (h *AccountHandler) listAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountService.ListAccounts(r.Context())
	if err != nil {
		handleError(err, w, r)
		return
	}

	results := []AccountResponse{}
	for _, acc := range accounts {
		results = append(results, accountToResponse(acc))
	}

	responseJSON(w, http.StatusOK, results)
}

type CredentialsEntry struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccountID   uuid.UUID `json:"account_id"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

/* Addresses a call to "/auth/token". Checks the credentials and answers
with a signed access token. */
func (h *AccountHandler) token(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()
	r = r.WithContext(ctx)

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var credentials CredentialsEntry
	err := json.NewDecoder(r.Body).Decode(&credentials)
	if err != nil {
		log.Error().Err(err).Msg("decoding credentials entry")
		responseJSON(w, http.StatusBadRequest, account.ErrResponseInvalidCredentials)
		return
	}

	issuedToken, err := h.accountService.Authenticate(r.Context(), credentials.Email, credentials.Password)
	if err != nil {
		handleError(err, w, r)
		return
	}

	responseJSON(w, http.StatusOK, TokenResponse{
		AccountID:   issuedToken.AccountID,
		AccessToken: issuedToken.AccessToken,
		ExpiresAt:   issuedToken.ExpiresAt,
	})
}

type AccountResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Dob       string    `json:"dob"`
	Phone     string    `json:"phone"`
}

/*Copy the fields of an account object to an http layer struct with json tags.
The password hash never leaves the service. */
func accountToResponse(acc account.Account) AccountResponse {
	return AccountResponse{
		ID:        acc.ID,
		Email:     acc.Email,
		FirstName: acc.FirstName,
		LastName:  acc.LastName,
		Dob:       acc.DateOfBirth.Format("2006-01-02"),
		Phone:     acc.Phone,
	}
}
