package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/dmitrijs2005/authkeeper/internal/server/services"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type logoutResponse struct {
	Revoked int64 `json:"revoked"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (a *API) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if ok := decodeRequest(&req, w, r); !ok {
		return
	}

	pair, err := a.auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	a.logger.Info(r.Context(), "Registered", "email", strings.TrimSpace(req.Email))
	writeJSON(w, http.StatusCreated, toTokenResponse(pair))
}

func (a *API) Authenticate(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if ok := decodeRequest(&req, w, r); !ok {
		return
	}

	pair, err := a.auth.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTokenResponse(pair))
}

// RefreshToken reads the refresh token from "Authorization: Bearer <t>".
func (a *API) RefreshToken(w http.ResponseWriter, r *http.Request) {
	pair, err := a.auth.RefreshFromHeader(r.Context(), r.Header.Get(common.AuthorizationHeaderName))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTokenResponse(pair))
}

func (a *API) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := services.PrincipalFromContext(r.Context())
	if !ok {
		a.fail(w, r, errors.New("no principal in context"))
		return
	}

	n, err := a.auth.Logout(r.Context(), user.ID)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	a.logger.Info(r.Context(), "Logged out", "user_id", user.ID, "revoked", n)
	writeJSON(w, http.StatusOK, logoutResponse{Revoked: n})
}

func (a *API) GetInfo(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		a.fail(w, r, common.ErrInvalidRequest)
		return
	}

	user, err := a.auth.GetInfo(r.Context(), email)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// Me describes the authenticated principal.
func (a *API) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := services.PrincipalFromContext(r.Context())
	if !ok {
		a.fail(w, r, errors.New("no principal in context"))
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func toTokenResponse(p *services.TokenPair) tokenResponse {
	return tokenResponse{AccessToken: p.AccessToken, RefreshToken: p.RefreshToken}
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Role: string(u.Role), CreatedAt: u.CreatedAt.UTC()}
}
