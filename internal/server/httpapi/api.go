// Package httpapi exposes the token lifecycle over JSON/HTTP under
// /api/v1/auth, routed with gorilla/mux.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/dmitrijs2005/authkeeper/internal/server/services"
	"github.com/gorilla/mux"
)

// PathPrefix is the mount point of every endpoint.
const PathPrefix = "/api/v1/auth"

// MaxBodyBytes caps the size of a JSON request body.
const MaxBodyBytes = 1 << 16

type AuthService interface {
	Register(ctx context.Context, email, password string) (*services.TokenPair, error)
	Authenticate(ctx context.Context, email, password string) (*services.TokenPair, error)
	RefreshFromHeader(ctx context.Context, header string) (*services.TokenPair, error)
	Logout(ctx context.Context, userID string) (int64, error)
	GetInfo(ctx context.Context, email string) (*models.User, error)
}

type Gate interface {
	Admit(ctx context.Context, header string) (*models.User, error)
}

type API struct {
	auth   AuthService
	gate   Gate
	logger logging.Logger
}

func New(a AuthService, g Gate, l logging.Logger) *API {
	return &API{auth: a, gate: g, logger: l.With("module", "http_api")}
}

// Router returns the HTTP handler for all endpoints.
func (a *API) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(a.logRequests)

	s := r.PathPrefix(PathPrefix).Subrouter()
	s.HandleFunc("/register", a.Register).Methods(http.MethodPost)
	s.HandleFunc("/authenticate", a.Authenticate).Methods(http.MethodPost)
	s.HandleFunc("/refresh-token", a.RefreshToken).Methods(http.MethodPost)

	s.Handle("/logout", a.RequireAuth(http.HandlerFunc(a.Logout))).Methods(http.MethodPost)
	s.Handle("/getInfo", a.RequireAuth(http.HandlerFunc(a.GetInfo))).Methods(http.MethodGet)
	s.Handle("/me", a.RequireAuth(http.HandlerFunc(a.Me))).Methods(http.MethodGet)

	return r
}

func decodeRequest[T any](req *T, w http.ResponseWriter, r *http.Request) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad json request"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
