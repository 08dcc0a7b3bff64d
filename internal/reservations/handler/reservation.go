package handler

import (
	"net/http"

	"ginhawa/internal/reservations/service"
	httputil "ginhawa/pkg/http"
	"ginhawa/pkg/logger"
	"ginhawa/pkg/middleware"
	"ginhawa/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ReservationHandler struct {
	service service.ReservationService
	guard   *middleware.Guard
	log     *logger.Logger
}

func NewReservationHandler(service service.ReservationService, guard *middleware.Guard, log *logger.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		guard:   guard,
		log:     log,
	}
}

func (h *ReservationHandler) Options(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteSuccess(w, h.service.Options()); err != nil {
		h.log.Error("failed to write success response", "handler", "Options", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var reservation model.Reservation
	if err := httputil.DecodeJSON(r, &reservation); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := h.service.Create(r.Context(), &reservation); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, reservation); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *ReservationHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}
	day, err := httputil.QueryDate(r, "date")
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	filter := model.ReservationFilter{
		Date:   day,
		Status: model.ReservationStatus(r.URL.Query().Get("status")),
	}
	reservations, total, err := h.service.List(r.Context(), filter, limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, reservations, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *ReservationHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	reservation, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err == nil {
		err = middleware.AuthorizeCustomer(r.Context(), reservation.CustomerEmail)
	}
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) ListByCustomer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	email := ps.ByName("email")
	if err := middleware.AuthorizeCustomer(r.Context(), email); err != nil {
		h.writeError(w, "ListByCustomer", err)
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListByCustomer", err)
		return
	}

	reservations, total, err := h.service.ListByCustomer(r.Context(), email, limit, offset)
	if err != nil {
		h.writeError(w, "ListByCustomer", err)
		return
	}

	if err := httputil.WritePaginated(w, reservations, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListByCustomer", "operation", "WritePaginated", "error", err)
	}
}

func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	existing, err := h.service.GetByID(r.Context(), id)
	if err == nil {
		err = middleware.AuthorizeCustomer(r.Context(), existing.CustomerEmail)
	}
	if err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	reservation, err := h.service.Cancel(r.Context(), id)
	if err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req model.ReservationStatusUpdate
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "UpdateStatus", err)
		return
	}

	reservation, err := h.service.UpdateStatus(r.Context(), ps.ByName("id"), req.Status)
	if err != nil {
		h.writeError(w, "UpdateStatus", err)
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateStatus", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	hosts := []string{model.DepartmentCustomerGuest, model.DepartmentFrontOffice}

	router.GET("/api/v1/reservations/options", h.Options)
	router.POST("/api/v1/reservations", h.Create)
	router.GET("/api/v1/reservations", h.guard.Staff(h.GetAll, hosts...))
	router.GET("/api/v1/reservations/id/:id", h.guard.Authenticated(h.GetByID))
	router.POST("/api/v1/reservations/id/:id/cancel", h.guard.Authenticated(h.Cancel))
	router.PATCH("/api/v1/reservations/id/:id/status", h.guard.Staff(h.UpdateStatus, hosts...))
	router.GET("/api/v1/reservations/customer/:email", h.guard.Authenticated(h.ListByCustomer))
}
