package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"optitrack-data/internal/domain"
	"optitrack-data/internal/service"

	"go.uber.org/zap"
)

// ReadingsHandler serves reading entry and the status/history screens.
type ReadingsHandler struct {
	readings    service.ReadingService
	authService service.AuthService
	logger      *zap.Logger
}

func NewReadingsHandler(readings service.ReadingService, authService service.AuthService, logger *zap.Logger) *ReadingsHandler {
	return &ReadingsHandler{
		readings:    readings,
		authService: authService,
		logger:      logger,
	}
}

// SubmitReading records one tire measurement from the entry form.
func (h *ReadingsHandler) SubmitReading(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.authService)
	if !ok {
		return
	}

	var reading domain.Reading
	if err := readBodyJSON(r, 1<<20, &reading); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}

	if err := h.readings.SubmitReading(r.Context(), reading); err != nil {
		h.logger.Warn("SubmitReading rejected",
			zap.String("user_id", user.UserID),
			zap.Error(err),
		)
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"saved": true}))
}

// SearchTires returns the latest reading per tire matching the q fragment.
func (h *ReadingsHandler) SearchTires(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r, h.authService); !ok {
		return
	}

	results, err := h.readings.SearchTires(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(results))
}

// TireHistory returns every reading of one tire, newest first.
func (h *ReadingsHandler) TireHistory(w http.ResponseWriter, r *http.Request, tireNo string) {
	if _, ok := requireUser(w, r, h.authService); !ok {
		return
	}

	history, err := h.readings.TireHistory(r.Context(), tireNo)
	if err != nil {
		h.writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(history))
}

// VehicleStatus returns the latest reading per wheel position of one vehicle.
func (h *ReadingsHandler) VehicleStatus(w http.ResponseWriter, r *http.Request, vehicleNo string) {
	if _, ok := requireUser(w, r, h.authService); !ok {
		return
	}

	statuses, err := h.readings.VehicleStatus(r.Context(), vehicleNo)
	if err != nil {
		h.writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(statuses))
}

// ExportReadings streams tire readings as an Excel workbook: the current
// state of every tire by default, or the full history within [from, to]
// when both query params are given.
func (h *ReadingsHandler) ExportReadings(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r, h.authService); !ok {
		return
	}

	var results []service.ReadingStatus
	var err error
	from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	if from != "" || to != "" {
		results, err = h.readings.ReadingsBetween(r.Context(), from, to)
	} else {
		results, err = h.readings.SearchTires(r.Context(), "")
	}
	if errors.Is(err, service.ErrNoData) {
		results = nil
		err = nil
	}
	if err != nil {
		h.logger.Error("ExportReadings query failed", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail("export failed"))
		return
	}

	data, err := GenerateReadingsExport(results, h.readings.Thresholds())
	if err != nil {
		h.logger.Error("ExportReadings failed", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail("export failed"))
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="tire-readings.xlsx"`)
	w.Header().Set("Content-Length", fmt.Sprint(len(data)))
	_, _ = w.Write(data)
}

func (h *ReadingsHandler) writeQueryError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrNoData) {
		writeJSON(w, http.StatusOK, NoData())
		return
	}
	h.logger.Error("Readings query failed", zap.Error(err))
	writeJSON(w, http.StatusOK, Fail(err.Error()))
}
