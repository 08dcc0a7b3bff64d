package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"ginhawa/internal/billing/service"
	httputil "ginhawa/pkg/http"
	"ginhawa/pkg/logger"
	"ginhawa/pkg/middleware"
	"ginhawa/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type InvoiceHandler struct {
	service service.BillingService
	guard   *middleware.Guard
	log     *logger.Logger
}

func NewInvoiceHandler(service service.BillingService, guard *middleware.Guard, log *logger.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		service: service,
		guard:   guard,
		log:     log,
	}
}

func (h *InvoiceHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}
	from, err := httputil.QueryDate(r, "from")
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}
	to, err := httputil.QueryDate(r, "to")
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	query := r.URL.Query()
	filter := model.InvoiceFilter{
		PaymentStatus: model.PaymentStatus(query.Get("payment_status")),
		Source:        model.InvoiceSource(query.Get("source")),
		From:          from,
		To:            to,
	}

	invoices, total, err := h.service.List(r.Context(), filter, limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, invoices, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *InvoiceHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	invoice, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, invoice); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *InvoiceHandler) Pay(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req model.PaymentRequest
	if r.ContentLength != 0 {
		if err := httputil.DecodeJSON(r, &req); err != nil {
			h.writeError(w, "Pay", err)
			return
		}
	}

	invoice, err := h.service.Pay(r.Context(), ps.ByName("id"), &req)
	if err != nil {
		h.writeError(w, "Pay", err)
		return
	}

	if err := httputil.WriteSuccess(w, invoice); err != nil {
		h.log.Error("failed to write success response", "handler", "Pay", "operation", "WriteSuccess", "error", err)
	}
}

// Revenue totals paid invoices, only today's when ?today=true.
func (h *InvoiceHandler) Revenue(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	revenue, err := h.service.Revenue(r.Context(), httputil.QueryBool(r, "today"))
	if err != nil {
		h.writeError(w, "Revenue", err)
		return
	}

	if err := httputil.WriteSuccess(w, revenue); err != nil {
		h.log.Error("failed to write success response", "handler", "Revenue", "operation", "WriteSuccess", "error", err)
	}
}

// Export renders the workbook in memory first so a failure still gets a
// JSON error instead of a truncated download.
func (h *InvoiceHandler) Export(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	from, err := httputil.QueryDate(r, "from")
	if err != nil {
		h.writeError(w, "Export", err)
		return
	}
	to, err := httputil.QueryDate(r, "to")
	if err != nil {
		h.writeError(w, "Export", err)
		return
	}

	var buf bytes.Buffer
	if err := h.service.ExportXLSX(r.Context(), from, to, &buf); err != nil {
		h.writeError(w, "Export", err)
		return
	}

	filename := "invoices.xlsx"
	if !from.IsZero() && !to.IsZero() {
		filename = fmt.Sprintf("invoices_%s_%s.xlsx", from, to)
	}
	err = httputil.WriteAttachment(w, filename, service.ContentType, func(w http.ResponseWriter) error {
		_, err := buf.WriteTo(w)
		return err
	})
	if err != nil {
		h.log.Error("failed to write attachment", "handler", "Export", "operation", "WriteAttachment", "error", err)
	}
}

func (h *InvoiceHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *InvoiceHandler) RegisterRoutes(router *httprouter.Router) {
	billing := model.DepartmentBilling

	router.GET("/api/v1/invoices", h.guard.Staff(h.GetAll, billing))
	router.GET("/api/v1/invoices/id/:id", h.guard.Staff(h.GetByID, billing))
	router.POST("/api/v1/invoices/id/:id/pay", h.guard.Staff(h.Pay, billing, model.DepartmentFrontOffice))
	router.GET("/api/v1/billing/revenue", h.guard.Staff(h.Revenue, billing))
	router.GET("/api/v1/billing/export", h.guard.Staff(h.Export, billing))
}
