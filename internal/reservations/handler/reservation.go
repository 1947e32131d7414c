package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"paddock/internal/reservations/capacity"
	"paddock/internal/reservations/service"
	apperrors "paddock/pkg/errors"
	httputil "paddock/pkg/http"
	"paddock/pkg/logger"
	"paddock/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// HeaderActorPhone identifies the acting stable member on authenticated
// routes. Upstream gateways set it after verifying the caller.
const HeaderActorPhone = "X-Member-Phone"

type ReservationHandler struct {
	service service.ReservationService
	log     *logger.Logger
}

func NewReservationHandler(service service.ReservationService, log *logger.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		log:     log,
	}
}

type checkRequest struct {
	FacilityID           string    `json:"facility_id"`
	StartTime            time.Time `json:"start_time"`
	EndTime              time.Time `json:"end_time"`
	HorseCount           int       `json:"horse_count"`
	ExcludeReservationID string    `json:"exclude_reservation_id,omitempty"`
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var reservation model.FacilityReservation
	if err := json.NewDecoder(r.Body).Decode(&reservation); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	actorPhone := r.Header.Get(HeaderActorPhone)
	if _, err := h.service.Create(r.Context(), &reservation, actorPhone); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, reservation); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

// CreatePublic books through an opaque facility link token. No member
// identity, no overrides.
func (h *ReservationHandler) CreatePublic(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	token := ps.ByName("token")

	var reservation model.FacilityReservation
	if err := json.NewDecoder(r.Body).Decode(&reservation); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "CreatePublic", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if _, err := h.service.CreateFromBookingToken(r.Context(), token, &reservation); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CreatePublic", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, reservation); err != nil {
		h.log.Error("failed to write created response", "handler", "CreatePublic", "operation", "WriteCreated", "error", err)
	}
}

func (h *ReservationHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	reservation, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) GetByStable(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
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

	reservations, total, err := h.service.GetByStable(r.Context(), stableID, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByStable", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, reservations, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetByStable", "operation", "WritePaginated", "error", err)
	}
}

func (h *ReservationHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	facilityID := r.URL.Query().Get("facility_id")
	if facilityID == "" {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "The 'facility_id' query parameter is required",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Search", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	start, err := httputil.ExtractTimeParam(r, "start_time")
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Search", "operation", "WriteError", "error", writeErr)
		}
		return
	}
	end, err := httputil.ExtractTimeParam(r, "end_time")
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Search", "operation", "WriteError", "error", writeErr)
		}
		return
	}
	if start == nil || end == nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Both 'start_time' and 'end_time' are required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Search", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	reservations, err := h.service.Search(r.Context(), facilityID, *start, *end)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Search", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, reservations); err != nil {
		h.log.Error("failed to write success response", "handler", "Search", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var updates model.FacilityReservationUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	actorPhone := r.Header.Get(HeaderActorPhone)
	if _, err := h.service.Update(r.Context(), id, &updates, actorPhone); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	if err := h.service.Cancel(r.Context(), id); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Cancel", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

// Check evaluates a candidate window without booking it.
func (h *ReservationHandler) Check(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Check", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	evaluation, err := h.service.Check(r.Context(), req.FacilityID, capacity.Request{
		Start:                req.StartTime,
		End:                  req.EndTime,
		HorseCount:           req.HorseCount,
		ExcludeReservationID: req.ExcludeReservationID,
	})
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Check", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, evaluation); err != nil {
		h.log.Error("failed to write success response", "handler", "Check", "operation", "WriteSuccess", "error", err)
	}
}

// Availability returns the slot grid for a facility on one date (YYYY-MM-DD).
func (h *ReservationHandler) Availability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	facilityID := r.URL.Query().Get("facility_id")
	dateStr := r.URL.Query().Get("date")
	if facilityID == "" || dateStr == "" {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Both 'facility_id' and 'date' query parameters are required",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Availability", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("invalid date format, must be YYYY-MM-DD")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Availability", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	grid, err := h.service.Availability(r.Context(), facilityID, date)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Availability", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, grid); err != nil {
		h.log.Error("failed to write success response", "handler", "Availability", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/reservations", h.Create)
	router.GET("/api/v1/reservations", h.GetByStable)
	router.GET("/api/v1/reservations/id/:id", h.GetByID)
	router.PATCH("/api/v1/reservations/id/:id", h.Update)
	router.DELETE("/api/v1/reservations/id/:id", h.Cancel)
	router.GET("/api/v1/reservations/search", h.Search)
	router.POST("/api/v1/reservations/check", h.Check)
	router.GET("/api/v1/reservations/availability", h.Availability)
	router.POST("/api/v1/reservations/book/:token", h.CreatePublic)
}
