package handler

import (
	"net/http"
	"strconv"

	"ginhawa/internal/bookings/service"
	apperrors "ginhawa/pkg/errors"
	httputil "ginhawa/pkg/http"
	"ginhawa/pkg/logger"
	"ginhawa/pkg/middleware"
	"ginhawa/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service service.BookingService
	guard   *middleware.Guard
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, guard *middleware.Guard, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		guard:   guard,
		log:     log,
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var booking model.Booking
	if err := httputil.DecodeJSON(r, &booking); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := h.service.Create(r.Context(), &booking); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) Quote(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	checkIn, err := httputil.QueryDate(r, "check_in")
	if err != nil {
		h.writeError(w, "Quote", err)
		return
	}
	checkOut, err := httputil.QueryDate(r, "check_out")
	if err != nil {
		h.writeError(w, "Quote", err)
		return
	}

	guests := 1
	if s := r.URL.Query().Get("guests"); s != "" {
		guests, err = strconv.Atoi(s)
		if err != nil {
			h.writeError(w, "Quote", apperrors.InvalidInput("invalid guests parameter: "+s))
			return
		}
	}

	quotes, err := h.service.Quote(checkIn, checkOut, guests)
	if err != nil {
		h.writeError(w, "Quote", err)
		return
	}

	if err := httputil.WriteSuccess(w, quotes); err != nil {
		h.log.Error("failed to write success response", "handler", "Quote", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err == nil {
		err = middleware.AuthorizeCustomer(r.Context(), booking.CustomerEmail)
	}
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) GetByReference(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByReference(r.Context(), ps.ByName("reference"))
	if err != nil {
		h.writeError(w, "GetByReference", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByReference", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	bookings, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *BookingHandler) ListByCustomer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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

	bookings, total, err := h.service.ListByCustomer(r.Context(), email, limit, offset)
	if err != nil {
		h.writeError(w, "ListByCustomer", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListByCustomer", "operation", "WritePaginated", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	existing, err := h.service.GetByID(r.Context(), id)
	if err == nil {
		err = middleware.AuthorizeCustomer(r.Context(), existing.CustomerEmail)
	}
	if err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	booking, err := h.service.Cancel(r.Context(), id)
	if err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings/quote", h.Quote)
	router.GET("/api/v1/bookings/reference/:reference", h.GetByReference)
	router.GET("/api/v1/bookings", h.guard.Staff(h.GetAll, model.DepartmentFrontOffice, model.DepartmentCustomerGuest))
	router.GET("/api/v1/bookings/id/:id", h.guard.Authenticated(h.GetByID))
	router.POST("/api/v1/bookings/id/:id/cancel", h.guard.Authenticated(h.Cancel))
	router.GET("/api/v1/bookings/customer/:email", h.guard.Authenticated(h.ListByCustomer))
}
