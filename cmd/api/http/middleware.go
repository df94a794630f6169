package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/library-service/cmd/api/account"
	"github.com/library-service/cmd/api/pkgerrors"
	"github.com/rs/zerolog/log"
)

// TokenParser validates an access token and tells which account owns it.
type TokenParser interface {
	Parse(tokenString string) (uuid.UUID, error)
}

/* Wraps a handler and rejects requests without a valid bearer token. */
func AuthMiddleware(parser TokenParser, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			responseJSON(w, http.StatusUnauthorized, account.ErrResponseUnauthenticated)
			return
		}

		_, err := parser.Parse(tokenString)
		if err != nil {
			log.Error().Err(err).Str("path", r.URL.Path).Msg("rejecting token")
			responseJSON(w, http.StatusUnauthorized, account.ErrResponseUnauthenticated)
			return
		}

		next.ServeHTTP(w, r)
	})
}

var ErrResponseMaintenance = pkgerrors.ErrResponse{Code: 900, Message: "service is under maintenance, try again later.", Status: http.StatusServiceUnavailable}

// Maintenance gates the whole api behind a switch the admin endpoints flip.
// While on, only the admin routes keep answering.
type Maintenance struct {
	on atomic.Bool
}

func NewMaintenance() *Maintenance {
	return &Maintenance{}
}

func (m *Maintenance) Enabled() bool {
	return m.on.Load()
}

/* Wraps a handler and answers 503 to everything but the admin routes while
maintenance mode is on. */
func (m *Maintenance) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.on.Load() && !strings.HasPrefix(r.URL.Path, "/admin/") {
			responseJSON(w, ErrResponseMaintenance.Status, ErrResponseMaintenance)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type MaintenanceEntry struct {
	MaintenanceMode *bool `json:"maintenance_mode"`
}

/* Addresses a call to "/admin/maintenance". GET reads the switch, POST
flips it. */
func (m *Maintenance) Handler(w http.ResponseWriter, r *http.Request) {
	method := r.Method
	switch method {
	case http.MethodGet:
		responseJSON(w, http.StatusOK, map[string]bool{"maintenance_mode": m.on.Load()})
		return
	case http.MethodPost:
		var entry MaintenanceEntry
		err := json.NewDecoder(r.Body).Decode(&entry)
		if err != nil || entry.MaintenanceMode == nil {
			responseJSON(w, http.StatusBadRequest, pkgerrors.ErrResponse{Code: 901, Message: "body must be a json with the boolean field maintenance_mode.", Status: http.StatusBadRequest})
			return
		}
		m.on.Store(*entry.MaintenanceMode)
		log.Info().Bool("maintenance_mode", *entry.MaintenanceMode).Msg("maintenance mode switched")
		responseJSON(w, http.StatusOK, map[string]bool{"maintenance_mode": m.on.Load()})
		return
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
}
