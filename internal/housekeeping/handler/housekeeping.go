package handler

import (
	"net/http"

	"ginhawa/internal/housekeeping/service"
	"ginhawa/pkg/auth"
	httputil "ginhawa/pkg/http"
	"ginhawa/pkg/logger"
	"ginhawa/pkg/middleware"
	"ginhawa/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type HousekeepingHandler struct {
	service service.HousekeepingService
	guard   *middleware.Guard
	log     *logger.Logger
}

func NewHousekeepingHandler(service service.HousekeepingService, guard *middleware.Guard, log *logger.Logger) *HousekeepingHandler {
	return &HousekeepingHandler{
		service: service,
		guard:   guard,
		log:     log,
	}
}

func (h *HousekeepingHandler) Submit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var request model.HousekeepingRequest
	if err := httputil.DecodeJSON(r, &request); err != nil {
		h.writeError(w, "Submit", err)
		return
	}

	if err := h.service.Submit(r.Context(), &request); err != nil {
		h.writeError(w, "Submit", err)
		return
	}

	if err := httputil.WriteCreated(w, request); err != nil {
		h.log.Error("failed to write created response", "handler", "Submit", "operation", "WriteCreated", "error", err)
	}
}

func (h *HousekeepingHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	status := model.HousekeepingStatus(r.URL.Query().Get("status"))
	requests, total, err := h.service.List(r.Context(), status, limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, requests, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *HousekeepingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	request, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, request); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *HousekeepingHandler) Counts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	counts, err := h.service.Counts(r.Context())
	if err != nil {
		h.writeError(w, "Counts", err)
		return
	}

	if err := httputil.WriteSuccess(w, counts); err != nil {
		h.log.Error("failed to write success response", "handler", "Counts", "operation", "WriteSuccess", "error", err)
	}
}

// Assign takes the request for the staff member named in the body, or for
// the signed-in caller when the body leaves it out.
func (h *HousekeepingHandler) Assign(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req model.HousekeepingAssignment
	if r.ContentLength != 0 {
		if err := httputil.DecodeJSON(r, &req); err != nil {
			h.writeError(w, "Assign", err)
			return
		}
	}
	if req.AssignedTo == "" {
		if claims, ok := auth.FromContext(r.Context()); ok {
			req.AssignedTo = claims.Subject
		}
	}

	request, err := h.service.Assign(r.Context(), ps.ByName("id"), req.AssignedTo)
	if err != nil {
		h.writeError(w, "Assign", err)
		return
	}

	if err := httputil.WriteSuccess(w, request); err != nil {
		h.log.Error("failed to write success response", "handler", "Assign", "operation", "WriteSuccess", "error", err)
	}
}

func (h *HousekeepingHandler) Complete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	request, err := h.service.Complete(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Complete", err)
		return
	}

	if err := httputil.WriteSuccess(w, request); err != nil {
		h.log.Error("failed to write success response", "handler", "Complete", "operation", "WriteSuccess", "error", err)
	}
}

func (h *HousekeepingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *HousekeepingHandler) RegisterRoutes(router *httprouter.Router) {
	crew := model.DepartmentHousekeeping

	router.POST("/api/v1/housekeeping", h.Submit)
	router.GET("/api/v1/housekeeping", h.guard.Staff(h.GetAll, crew))
	router.GET("/api/v1/housekeeping/counts", h.guard.Staff(h.Counts, crew))
	router.GET("/api/v1/housekeeping/id/:id", h.guard.Staff(h.GetByID, crew))
	router.POST("/api/v1/housekeeping/id/:id/assign", h.guard.Staff(h.Assign, crew))
	router.POST("/api/v1/housekeeping/id/:id/complete", h.guard.Staff(h.Complete, crew))
}
