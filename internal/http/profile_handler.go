package httpapi

import (
	"net/http"

	"optitrack-data/internal/service"

	"go.uber.org/zap"
)

const maxPictureBytes = 5 << 20

// ProfileHandler serves the account profile screen.
type ProfileHandler struct {
	authService service.AuthService
	logger      *zap.Logger
}

func NewProfileHandler(authService service.AuthService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		authService: authService,
		logger:      logger,
	}
}

func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.authService)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, Ok(user))
}

func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.authService)
	if !ok {
		return
	}

	var req service.UpdateProfileRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}

	updated, err := h.authService.UpdateProfile(r.Context(), user.UserID, req)
	if err != nil {
		h.logger.Warn("UpdateProfile failed", zap.String("user_id", user.UserID), zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(updated))
}

// UploadPicture accepts a multipart form with a "picture" file field.
func (h *ProfileHandler) UploadPicture(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.authService)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxPictureBytes); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid upload"))
		return
	}
	file, header, err := r.FormFile("picture")
	if err != nil {
		writeJSON(w, http.StatusOK, Fail("picture file is required"))
		return
	}
	defer file.Close()

	updated, err := h.authService.UploadProfilePicture(r.Context(), user.UserID, header.Filename, file)
	if err != nil {
		h.logger.Warn("UploadPicture failed", zap.String("user_id", user.UserID), zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(updated))
}
