package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"paddock/internal/stables/service"
	httputil "paddock/pkg/http"
	"paddock/pkg/logger"
	"paddock/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type StableHandler struct {
	service service.StableService
	log     *logger.Logger
}

func NewStableHandler(service service.StableService, log *logger.Logger) *StableHandler {
	return &StableHandler{
		service: service,
		log:     log,
	}
}

func (h *StableHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var stable model.Stable
	if err := json.NewDecoder(r.Body).Decode(&stable); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), &stable); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, stable); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *StableHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	stable, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, stable); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *StableHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	stables, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, stables, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *StableHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var updates model.StableUpdate
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

func (h *StableHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

// Search filters stables by city and label. Both parameters take
// comma-separated lists; at least one of the two must be present.
func (h *StableHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	var cities, labels []string
	if s := query.Get("cities"); s != "" {
		cities = strings.Split(s, ",")
	}
	if s := query.Get("labels"); s != "" {
		labels = strings.Split(s, ",")
	}

	stables, err := h.service.Search(r.Context(), cities, labels)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Search", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, stables); err != nil {
		h.log.Error("failed to write success response", "handler", "Search", "operation", "WriteSuccess", "error", err)
	}
}

func (h *StableHandler) GetByMemberPhone(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	phone := r.URL.Query().Get("phone")
	if phone == "" {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "The 'phone' query parameter is required",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "GetByMemberPhone", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	stables, err := h.service.GetByMemberPhone(r.Context(), phone)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByMemberPhone", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, stables); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByMemberPhone", "operation", "WriteSuccess", "error", err)
	}
}

func (h *StableHandler) AddMember(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var member model.StableMember
	if err := json.NewDecoder(r.Body).Decode(&member); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "AddMember", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.AddMember(r.Context(), id, &member); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "AddMember", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, member); err != nil {
		h.log.Error("failed to write created response", "handler", "AddMember", "operation", "WriteCreated", "error", err)
	}
}

func (h *StableHandler) RemoveMember(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	phone := ps.ByName("phone")

	if err := h.service.RemoveMember(r.Context(), id, phone); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "RemoveMember", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *StableHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/stables", h.Create)
	router.GET("/api/v1/stables", h.GetAll)
	router.GET("/api/v1/stables/id/:id", h.GetByID)
	router.PATCH("/api/v1/stables/id/:id", h.Update)
	router.DELETE("/api/v1/stables/id/:id", h.Delete)
	router.GET("/api/v1/stables/search", h.Search)
	router.GET("/api/v1/stables/membership", h.GetByMemberPhone)
	router.POST("/api/v1/stables/id/:id/members", h.AddMember)
	router.DELETE("/api/v1/stables/id/:id/members/:phone", h.RemoveMember)
}
