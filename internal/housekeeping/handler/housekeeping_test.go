package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ginhawa/pkg/auth"
	apperrors "ginhawa/pkg/errors"
	"ginhawa/pkg/logger"
	"ginhawa/pkg/middleware"
	"ginhawa/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockHousekeepingService struct {
	gotAssignee string
}

func (m *mockHousekeepingService) Submit(ctx context.Context, request *model.HousekeepingRequest) error {
	if len(request.RequestTypes) == 0 {
		return apperrors.Validation("Housekeeping request validation failed", map[string]any{"request_types": "request_types is required"})
	}
	request.Reference = "HK-ABCDEF1234"
	return nil
}

func (m *mockHousekeepingService) GetByID(ctx context.Context, id string) (*model.HousekeepingRequest, error) {
	return &model.HousekeepingRequest{ID: id}, nil
}

func (m *mockHousekeepingService) List(ctx context.Context, status model.HousekeepingStatus, limit int, offset int64) ([]*model.HousekeepingRequest, int64, error) {
	return []*model.HousekeepingRequest{}, 0, nil
}

func (m *mockHousekeepingService) Counts(ctx context.Context) (*model.HousekeepingCounts, error) {
	return &model.HousekeepingCounts{Pending: 1}, nil
}

func (m *mockHousekeepingService) Assign(ctx context.Context, id, staffEmail string) (*model.HousekeepingRequest, error) {
	m.gotAssignee = staffEmail
	return &model.HousekeepingRequest{ID: id, Status: model.HousekeepingInProgress, AssignedTo: staffEmail}, nil
}

func (m *mockHousekeepingService) Complete(ctx context.Context, id string) (*model.HousekeepingRequest, error) {
	return &model.HousekeepingRequest{ID: id, Status: model.HousekeepingCompleted}, nil
}

const testSecret = "0123456789abcdef0123"

func newServer(svc *mockHousekeepingService) (http.Handler, string) {
	log := logger.Discard()
	issuer := auth.NewTokenIssuer(testSecret, time.Hour)
	guard := middleware.NewGuard(issuer, log)

	router := httprouter.New()
	NewHousekeepingHandler(svc, guard, log).RegisterRoutes(router)

	tok, _, _ := issuer.Issue("maria@hotel.com", string(model.AccountStaff), model.DepartmentHousekeeping, "Maria")
	return guard.Authenticate(router), "Bearer " + tok
}

func TestSubmit_Public(t *testing.T) {
	server, _ := newServer(&mockHousekeepingService{})

	w := httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/housekeeping", strings.NewReader(`{"room_number":"104","request_types":["Towels"]}`)))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/housekeeping", strings.NewReader(`{"room_number":"104"}`)))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestAssign_DefaultsToCaller(t *testing.T) {
	svc := &mockHousekeepingService{}
	server, bearer := newServer(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/housekeeping/id/65f000000000000000000030/assign", nil)
	req.Header.Set("Authorization", bearer)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "maria@hotel.com", svc.gotAssignee)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/housekeeping/id/65f000000000000000000030/assign", strings.NewReader(`{"assigned_to":"jose@hotel.com"}`))
	req.Header.Set("Authorization", bearer)
	w = httptest.NewRecorder()
	server.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "jose@hotel.com", svc.gotAssignee)
}

func TestCounts_RequiresStaff(t *testing.T) {
	server, bearer := newServer(&mockHousekeepingService{})

	w := httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/housekeeping/counts", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/housekeeping/counts", nil)
	req.Header.Set("Authorization", bearer)
	w = httptest.NewRecorder()
	server.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
