package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/authkeeper/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps a service error to an HTTP status and a client-safe
// message. Order matters: gate rejections wrap their cause, and so does an
// authentication failure for an unknown account.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, common.ErrInvalidRefreshToken):
		return http.StatusUnauthorized, "invalid refresh token"
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, common.ErrInvalidRequest), errors.Is(err, common.ErrMalformedAuthHeader):
		return http.StatusBadRequest, "invalid request"
	case errors.Is(err, common.ErrDuplicateAccount):
		return http.StatusConflict, "account already exists"
	case errors.Is(err, common.ErrAccountNotFound):
		return http.StatusNotFound, "account not found"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func (a *API) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		a.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err.Error())
	} else {
		a.logger.Warn(r.Context(), "request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "cause", err.Error())
	}
	writeJSON(w, status, errorResponse{Error: msg})
}
