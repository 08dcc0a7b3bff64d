package handler

import (
	"net/http"

	"ginhawa/internal/frontoffice/service"
	httputil "ginhawa/pkg/http"
	"ginhawa/pkg/logger"
	"ginhawa/pkg/middleware"
	"ginhawa/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type FrontOfficeHandler struct {
	service service.FrontOfficeService
	guard   *middleware.Guard
	log     *logger.Logger
}

func NewFrontOfficeHandler(service service.FrontOfficeService, guard *middleware.Guard, log *logger.Logger) *FrontOfficeHandler {
	return &FrontOfficeHandler{
		service: service,
		guard:   guard,
		log:     log,
	}
}

func (h *FrontOfficeHandler) Dashboard(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	day, err := httputil.QueryDate(r, "date")
	if err != nil {
		h.writeError(w, "Dashboard", err)
		return
	}

	dashboard, err := h.service.Dashboard(r.Context(), day)
	if err != nil {
		h.writeError(w, "Dashboard", err)
		return
	}

	if err := httputil.WriteSuccess(w, dashboard); err != nil {
		h.log.Error("failed to write success response", "handler", "Dashboard", "operation", "WriteSuccess", "error", err)
	}
}

func (h *FrontOfficeHandler) ListBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	day, err := httputil.QueryDate(r, "date")
	if err != nil {
		h.writeError(w, "ListBookings", err)
		return
	}

	tab := model.FrontOfficeTab(r.URL.Query().Get("tab"))
	if tab == "" {
		tab = model.TabArrivals
	}

	bookings, err := h.service.ListByTab(r.Context(), tab, day)
	if err != nil {
		h.writeError(w, "ListBookings", err)
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "ListBookings", "operation", "WriteSuccess", "error", err)
	}
}

func (h *FrontOfficeHandler) CheckIn(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.CheckIn(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "CheckIn", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "CheckIn", "operation", "WriteSuccess", "error", err)
	}
}

func (h *FrontOfficeHandler) CheckOut(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.CheckOut(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "CheckOut", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "CheckOut", "operation", "WriteSuccess", "error", err)
	}
}

func (h *FrontOfficeHandler) AssignWalkIn(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	number, err := httputil.PathInt(ps, "number")
	if err != nil {
		h.writeError(w, "AssignWalkIn", err)
		return
	}

	var req model.WalkInRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "AssignWalkIn", err)
		return
	}

	booking, err := h.service.AssignWalkIn(r.Context(), number, &req)
	if err != nil {
		h.writeError(w, "AssignWalkIn", err)
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "AssignWalkIn", "operation", "WriteCreated", "error", err)
	}
}

func (h *FrontOfficeHandler) RoomDetails(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	number, err := httputil.PathInt(ps, "number")
	if err != nil {
		h.writeError(w, "RoomDetails", err)
		return
	}

	details, err := h.service.RoomDetails(r.Context(), number)
	if err != nil {
		h.writeError(w, "RoomDetails", err)
		return
	}

	if err := httputil.WriteSuccess(w, details); err != nil {
		h.log.Error("failed to write success response", "handler", "RoomDetails", "operation", "WriteSuccess", "error", err)
	}
}

func (h *FrontOfficeHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *FrontOfficeHandler) RegisterRoutes(router *httprouter.Router) {
	desk := model.DepartmentFrontOffice

	router.GET("/api/v1/front-office/dashboard", h.guard.Staff(h.Dashboard, desk))
	router.GET("/api/v1/front-office/bookings", h.guard.Staff(h.ListBookings, desk))
	router.POST("/api/v1/front-office/bookings/:id/check-in", h.guard.Staff(h.CheckIn, desk))
	router.POST("/api/v1/front-office/bookings/:id/check-out", h.guard.Staff(h.CheckOut, desk))
	router.POST("/api/v1/rooms/number/:number/assign", h.guard.Staff(h.AssignWalkIn, desk, model.DepartmentRoomFacilities))
	router.GET("/api/v1/rooms/number/:number/details", h.guard.Staff(h.RoomDetails, desk, model.DepartmentRoomFacilities))
}
