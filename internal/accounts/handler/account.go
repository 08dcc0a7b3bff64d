package handler

import (
	"net/http"

	"ginhawa/internal/accounts/service"
	httputil "ginhawa/pkg/http"
	"ginhawa/pkg/logger"
	"ginhawa/pkg/middleware"
	"ginhawa/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type AccountHandler struct {
	service service.AccountService
	guard   *middleware.Guard
	log     *logger.Logger
}

func NewAccountHandler(service service.AccountService, guard *middleware.Guard, log *logger.Logger) *AccountHandler {
	return &AccountHandler{
		service: service,
		guard:   guard,
		log:     log,
	}
}

func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var reg model.Registration
	if err := httputil.DecodeJSON(r, &reg); err != nil {
		h.writeError(w, "Register", err)
		return
	}

	account, err := h.service.Register(r.Context(), &reg)
	if err != nil {
		h.writeError(w, "Register", err)
		return
	}

	if err := httputil.WriteCreated(w, account); err != nil {
		h.log.Error("failed to write created response", "handler", "Register", "operation", "WriteCreated", "error", err)
	}
}

func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Login", err)
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Login", err)
		return
	}

	if err := httputil.WriteSuccess(w, resp); err != nil {
		h.log.Error("failed to write success response", "handler", "Login", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	account, err := h.service.Me(r.Context())
	if err != nil {
		h.writeError(w, "Me", err)
		return
	}

	if err := httputil.WriteSuccess(w, account); err != nil {
		h.log.Error("failed to write success response", "handler", "Me", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AccountHandler) CreateStaff(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var reg model.StaffRegistration
	if err := httputil.DecodeJSON(r, &reg); err != nil {
		h.writeError(w, "CreateStaff", err)
		return
	}

	account, err := h.service.CreateStaff(r.Context(), &reg)
	if err != nil {
		h.writeError(w, "CreateStaff", err)
		return
	}

	if err := httputil.WriteCreated(w, account); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateStaff", "operation", "WriteCreated", "error", err)
	}
}

func (h *AccountHandler) ListStaff(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListStaff", err)
		return
	}

	staff, total, err := h.service.ListStaff(r.Context(), r.URL.Query().Get("department"), limit, offset)
	if err != nil {
		h.writeError(w, "ListStaff", err)
		return
	}

	if err := httputil.WritePaginated(w, staff, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListStaff", "operation", "WritePaginated", "error", err)
	}
}

func (h *AccountHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *AccountHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/accounts/register", h.Register)
	router.POST("/api/v1/accounts/login", h.Login)
	router.GET("/api/v1/accounts/me", h.guard.Authenticated(h.Me))

	router.POST("/api/v1/staff", h.guard.Staff(h.CreateStaff, model.DepartmentManager))
	router.GET("/api/v1/staff", h.guard.Staff(h.ListStaff, model.DepartmentManager))
}
