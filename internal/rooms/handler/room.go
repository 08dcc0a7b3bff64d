package handler

import (
	"net/http"

	"ginhawa/internal/rooms/service"
	httputil "ginhawa/pkg/http"
	"ginhawa/pkg/logger"
	"ginhawa/pkg/middleware"
	"ginhawa/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type RoomHandler struct {
	service service.RoomService
	guard   *middleware.Guard
	log     *logger.Logger
}

func NewRoomHandler(service service.RoomService, guard *middleware.Guard, log *logger.Logger) *RoomHandler {
	return &RoomHandler{
		service: service,
		guard:   guard,
		log:     log,
	}
}

type statusRequest struct {
	Status model.RoomStatus `json:"status"`
}

func (h *RoomHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	query := r.URL.Query()
	filter := model.RoomFilter{
		Status:         model.RoomStatus(query.Get("status")),
		Type:           model.RoomType(query.Get("type")),
		NumberContains: query.Get("number"),
	}

	rooms, total, err := h.service.List(r.Context(), filter, limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, rooms, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *RoomHandler) GetByNumber(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	number, err := httputil.PathInt(ps, "number")
	if err != nil {
		h.writeError(w, "GetByNumber", err)
		return
	}

	room, err := h.service.GetByNumber(r.Context(), number)
	if err != nil {
		h.writeError(w, "GetByNumber", err)
		return
	}

	if err := httputil.WriteSuccess(w, room); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByNumber", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RoomHandler) Stats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.writeError(w, "Stats", err)
		return
	}

	if err := httputil.WriteSuccess(w, stats); err != nil {
		h.log.Error("failed to write success response", "handler", "Stats", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RoomHandler) Types(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteSuccess(w, h.service.Catalog()); err != nil {
		h.log.Error("failed to write success response", "handler", "Types", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RoomHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	number, err := httputil.PathInt(ps, "number")
	if err != nil {
		h.writeError(w, "UpdateStatus", err)
		return
	}

	var req statusRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "UpdateStatus", err)
		return
	}

	room, err := h.service.UpdateStatus(r.Context(), number, req.Status)
	if err != nil {
		h.writeError(w, "UpdateStatus", err)
		return
	}

	if err := httputil.WriteSuccess(w, room); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateStatus", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RoomHandler) ToggleStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	number, err := httputil.PathInt(ps, "number")
	if err != nil {
		h.writeError(w, "ToggleStatus", err)
		return
	}

	room, err := h.service.ToggleStatus(r.Context(), number)
	if err != nil {
		h.writeError(w, "ToggleStatus", err)
		return
	}

	if err := httputil.WriteSuccess(w, room); err != nil {
		h.log.Error("failed to write success response", "handler", "ToggleStatus", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RoomHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *RoomHandler) RegisterRoutes(router *httprouter.Router) {
	viewers := []string{model.DepartmentFrontOffice, model.DepartmentRoomFacilities, model.DepartmentHousekeeping}

	router.GET("/api/v1/rooms/types", h.Types)
	router.GET("/api/v1/rooms", h.guard.Staff(h.GetAll, viewers...))
	router.GET("/api/v1/rooms/stats", h.guard.Staff(h.Stats, viewers...))
	router.GET("/api/v1/rooms/number/:number", h.guard.Staff(h.GetByNumber, viewers...))
	router.PATCH("/api/v1/rooms/number/:number/status", h.guard.Staff(h.UpdateStatus, model.DepartmentRoomFacilities, model.DepartmentHousekeeping))
	router.POST("/api/v1/rooms/number/:number/toggle", h.guard.Staff(h.ToggleStatus, model.DepartmentRoomFacilities, model.DepartmentHousekeeping))
}
