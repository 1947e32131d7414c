package handler

import (
	"encoding/json"
	"net/http"

	"paddock/internal/facilities/service"
	"paddock/pkg/config"
	httputil "paddock/pkg/http"
	"paddock/pkg/logger"
	"paddock/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type FacilityHandler struct {
	service service.FacilityService
	log     *logger.Logger
}

func NewFacilityHandler(service service.FacilityService, log *logger.Logger) *FacilityHandler {
	return &FacilityHandler{
		service: service,
		log:     log,
	}
}

func (h *FacilityHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var facility model.Facility
	if err := json.NewDecoder(r.Body).Decode(&facility); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), &facility); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, facility); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *FacilityHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	facility, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, facility); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *FacilityHandler) GetByStable(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
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

	facilities, total, err := h.service.GetByStable(r.Context(), stableID, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByStable", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, facilities, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetByStable", "operation", "WritePaginated", "error", err)
	}
}

func (h *FacilityHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var updates model.FacilityUpdate
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

// UpdateDaySchedule replaces a single weekday's open blocks. An empty array
// closes the facility for that day.
func (h *FacilityHandler) UpdateDaySchedule(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	day := config.Weekday(ps.ByName("day"))

	var blocks []model.TimeBlock
	if err := json.NewDecoder(r.Body).Decode(&blocks); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "UpdateDaySchedule", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.UpdateDaySchedule(r.Context(), id, day, blocks); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpdateDaySchedule", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *FacilityHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *FacilityHandler) CreateBookingLink(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	token, err := h.service.CreateBookingLink(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CreateBookingLink", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, map[string]string{"token": token}); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateBookingLink", "operation", "WriteCreated", "error", err)
	}
}

func (h *FacilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/facilities", h.Create)
	router.GET("/api/v1/facilities", h.GetByStable)
	router.GET("/api/v1/facilities/id/:id", h.GetByID)
	router.PATCH("/api/v1/facilities/id/:id", h.Update)
	router.DELETE("/api/v1/facilities/id/:id", h.Delete)
	router.PUT("/api/v1/facilities/id/:id/schedule/:day", h.UpdateDaySchedule)
	router.POST("/api/v1/facilities/id/:id/booking-link", h.CreateBookingLink)
}
