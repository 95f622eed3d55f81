package httpapi

import (
	"errors"
	"net/http"

	"optitrack-data/internal/service"

	"go.uber.org/zap"
)

// ChecklistHandler serves the daily tire check screen.
type ChecklistHandler struct {
	checklist   service.ChecklistService
	authService service.AuthService
	logger      *zap.Logger
}

func NewChecklistHandler(checklist service.ChecklistService, authService service.AuthService, logger *zap.Logger) *ChecklistHandler {
	return &ChecklistHandler{
		checklist:   checklist,
		authService: authService,
		logger:      logger,
	}
}

func (h *ChecklistHandler) DueToday(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r, h.authService); !ok {
		return
	}

	items, err := h.checklist.DueToday(r.Context())
	if err != nil {
		h.logger.Error("DueToday failed", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(items))
}

func (h *ChecklistHandler) ConfirmCheck(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.authService)
	if !ok {
		return
	}

	var payload struct {
		TireNo string `json:"tireNo"`
	}
	if err := readBodyJSON(r, 1<<20, &payload); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}

	item, err := h.checklist.ConfirmCheck(r.Context(), payload.TireNo)
	if errors.Is(err, service.ErrNoData) {
		writeJSON(w, http.StatusOK, NoData())
		return
	}
	if err != nil {
		h.logger.Warn("ConfirmCheck failed",
			zap.String("user_id", user.UserID),
			zap.String("tire_no", payload.TireNo),
			zap.Error(err),
		)
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(item))
}
