package handler

import (
	"net/http"

	"ginhawa/internal/orders/service"
	httputil "ginhawa/pkg/http"
	"ginhawa/pkg/logger"
	"ginhawa/pkg/middleware"
	"ginhawa/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type OrderHandler struct {
	service service.OrderService
	guard   *middleware.Guard
	log     *logger.Logger
}

func NewOrderHandler(service service.OrderService, guard *middleware.Guard, log *logger.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		guard:   guard,
		log:     log,
	}
}

func (h *OrderHandler) Menu(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	items, err := h.service.Menu(model.MenuCategory(r.URL.Query().Get("category")))
	if err != nil {
		h.writeError(w, "Menu", err)
		return
	}

	if err := httputil.WriteSuccess(w, items); err != nil {
		h.log.Error("failed to write success response", "handler", "Menu", "operation", "WriteSuccess", "error", err)
	}
}

func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var order model.Order
	if err := httputil.DecodeJSON(r, &order); err != nil {
		h.writeError(w, "Place", err)
		return
	}

	if err := h.service.Place(r.Context(), &order); err != nil {
		h.writeError(w, "Place", err)
		return
	}

	if err := httputil.WriteCreated(w, order); err != nil {
		h.log.Error("failed to write created response", "handler", "Place", "operation", "WriteCreated", "error", err)
	}
}

func (h *OrderHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	query := r.URL.Query()
	filter := model.OrderFilter{
		Category: model.MenuCategory(query.Get("category")),
		Status:   model.OrderStatus(query.Get("status")),
	}

	orders, total, err := h.service.List(r.Context(), filter, limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, orders, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	order, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err == nil {
		err = middleware.AuthorizeCustomer(r.Context(), order.CustomerEmail)
	}
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, order); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *OrderHandler) ListByCustomer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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

	orders, total, err := h.service.ListByCustomer(r.Context(), email, limit, offset)
	if err != nil {
		h.writeError(w, "ListByCustomer", err)
		return
	}

	if err := httputil.WritePaginated(w, orders, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListByCustomer", "operation", "WritePaginated", "error", err)
	}
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req model.OrderStatusUpdate
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "UpdateStatus", err)
		return
	}

	order, err := h.service.AdvanceStatus(r.Context(), ps.ByName("id"), req.Status)
	if err != nil {
		h.writeError(w, "UpdateStatus", err)
		return
	}

	if err := httputil.WriteSuccess(w, order); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateStatus", "operation", "WriteSuccess", "error", err)
	}
}

func (h *OrderHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *OrderHandler) RegisterRoutes(router *httprouter.Router) {
	kitchenAndBar := []string{model.DepartmentKitchen, model.DepartmentBar}

	router.GET("/api/v1/menu", h.Menu)
	router.POST("/api/v1/orders", h.Place)
	router.GET("/api/v1/orders", h.guard.Staff(h.GetAll, kitchenAndBar...))
	router.GET("/api/v1/orders/id/:id", h.guard.Authenticated(h.GetByID))
	router.PATCH("/api/v1/orders/id/:id/status", h.guard.Staff(h.UpdateStatus, kitchenAndBar...))
	router.GET("/api/v1/orders/customer/:email", h.guard.Authenticated(h.ListByCustomer))
}
