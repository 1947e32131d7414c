package handler

import (
	"encoding/json"
	"net/http"

	"paddock/internal/activities/service"
	httputil "paddock/pkg/http"
	"paddock/pkg/logger"
	"paddock/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ActivityHandler struct {
	service service.ActivityService
	log     *logger.Logger
}

func NewActivityHandler(service service.ActivityService, log *logger.Logger) *ActivityHandler {
	return &ActivityHandler{
		service: service,
		log:     log,
	}
}

type completeRequest struct {
	CompletedBy string `json:"completed_by"`
}

func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var activity model.Activity
	if err := json.NewDecoder(r.Body).Decode(&activity); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), &activity); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, activity); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *ActivityHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	activity, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, activity); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ActivityHandler) GetByStable(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
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

	status := r.URL.Query().Get("status")

	activities, total, err := h.service.GetByStable(r.Context(), stableID, status, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByStable", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, activities, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetByStable", "operation", "WritePaginated", "error", err)
	}
}

func (h *ActivityHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var updates model.ActivityUpdate
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

func (h *ActivityHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ActivityHandler) Complete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var req completeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Complete", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	activity, err := h.service.Complete(r.Context(), id, req.CompletedBy)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Complete", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, activity); err != nil {
		h.log.Error("failed to write success response", "handler", "Complete", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ActivityHandler) Fairness(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	stableID := r.URL.Query().Get("stable_id")
	if stableID == "" {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "The 'stable_id' query parameter is required",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Fairness", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	from, err := httputil.ExtractTimeParam(r, "from")
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Fairness", "operation", "WriteError", "error", writeErr)
		}
		return
	}
	to, err := httputil.ExtractTimeParam(r, "to")
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Fairness", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	report, err := h.service.FairnessReport(r.Context(), stableID, from, to)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Fairness", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, report); err != nil {
		h.log.Error("failed to write success response", "handler", "Fairness", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ActivityHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/activities", h.Create)
	router.GET("/api/v1/activities", h.GetByStable)
	router.GET("/api/v1/activities/id/:id", h.GetByID)
	router.PATCH("/api/v1/activities/id/:id", h.Update)
	router.DELETE("/api/v1/activities/id/:id", h.Delete)
	router.POST("/api/v1/activities/id/:id/complete", h.Complete)
	router.GET("/api/v1/activities/fairness", h.Fairness)
}
