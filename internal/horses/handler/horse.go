package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"paddock/internal/horses/service"
	apperrors "paddock/pkg/errors"
	httputil "paddock/pkg/http"
	"paddock/pkg/logger"
	"paddock/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type HorseHandler struct {
	service service.HorseService
	log     *logger.Logger
}

func NewHorseHandler(service service.HorseService, log *logger.Logger) *HorseHandler {
	return &HorseHandler{
		service: service,
		log:     log,
	}
}

func (h *HorseHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var horse model.Horse
	if err := json.NewDecoder(r.Body).Decode(&horse); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), &horse); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, horse); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *HorseHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	horse, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, horse); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *HorseHandler) GetByStable(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	stableID := r.URL.Query().Get("stable_id")
	if stableID == "" {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "The 'stable_id' query parameter is required",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "GetByStable", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByStable", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	horses, total, err := h.service.GetByStable(r.Context(), stableID, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByStable", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, horses, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetByStable", "operation", "WritePaginated", "error", err)
	}
}

func (h *HorseHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var updates model.HorseUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Update(r.Context(), id, &updates); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *HorseHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *HorseHandler) AddVaccination(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var vaccination model.Vaccination
	if err := json.NewDecoder(r.Body).Decode(&vaccination); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "AddVaccination", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.AddVaccination(r.Context(), id, &vaccination); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "AddVaccination", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, vaccination); err != nil {
		h.log.Error("failed to write created response", "handler", "AddVaccination", "operation", "WriteCreated", "error", err)
	}
}

func (h *HorseHandler) AddTransport(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var entry model.TransportEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "AddTransport", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.AddTransport(r.Context(), id, &entry); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "AddTransport", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, entry); err != nil {
		h.log.Error("failed to write created response", "handler", "AddTransport", "operation", "WriteCreated", "error", err)
	}
}

// VaccinationsDue lists horses with vaccinations expiring by the cutoff.
// The cutoff defaults to 30 days from now when absent.
func (h *HorseHandler) VaccinationsDue(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	stableID := r.URL.Query().Get("stable_id")
	if stableID == "" {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "The 'stable_id' query parameter is required",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "VaccinationsDue", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	cutoff := time.Now().AddDate(0, 0, 30)
	if s := r.URL.Query().Get("cutoff"); s != "" {
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			if writeErr := httputil.WriteError(w, apperrors.InvalidInput("invalid cutoff format, must be RFC3339")); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "VaccinationsDue", "operation", "WriteError", "error", writeErr)
			}
			return
		}
		cutoff = parsed
	}

	horses, err := h.service.GetVaccinationsDue(r.Context(), stableID, cutoff)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "VaccinationsDue", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, horses); err != nil {
		h.log.Error("failed to write success response", "handler", "VaccinationsDue", "operation", "WriteSuccess", "error", err)
	}
}

func (h *HorseHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/horses", h.Create)
	router.GET("/api/v1/horses", h.GetByStable)
	router.GET("/api/v1/horses/id/:id", h.GetByID)
	router.PATCH("/api/v1/horses/id/:id", h.Update)
	router.DELETE("/api/v1/horses/id/:id", h.Delete)
	router.POST("/api/v1/horses/id/:id/vaccinations", h.AddVaccination)
	router.POST("/api/v1/horses/id/:id/transport", h.AddTransport)
	router.GET("/api/v1/horses/vaccinations/due", h.VaccinationsDue)
}
