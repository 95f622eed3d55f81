package httpapi

import (
	"errors"
	"net/http"

	"optitrack-data/internal/domain"
	"optitrack-data/internal/service"
)

// requireUser resolves the caller's session or writes the rejection itself.
// Expired sessions get HTTP 401 with code 60401 so the client interceptor
// sends the user back to login.
func requireUser(w http.ResponseWriter, r *http.Request, auth service.AuthService) (*domain.User, bool) {
	user, err := auth.UserFromToken(r.Context(), bearerToken(r))
	if errors.Is(err, service.ErrUnauthorized) {
		writeJSON(w, http.StatusUnauthorized, TokenExpired())
		return nil, false
	}
	if err != nil {
		writeJSON(w, http.StatusOK, Fail("failed to resolve session"))
		return nil, false
	}
	return user, true
}
