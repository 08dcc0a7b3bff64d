package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "ginhawa/pkg/errors"
	"ginhawa/pkg/logger"
	"ginhawa/pkg/middleware"
	"ginhawa/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockFrontOfficeService struct {
	gotTab  model.FrontOfficeTab
	gotDay  model.Date
	gotRoom int
	gotReq  *model.WalkInRequest
}

func (m *mockFrontOfficeService) Dashboard(_ context.Context, today model.Date) (*model.FrontOfficeDashboard, error) {
	m.gotDay = today
	return &model.FrontOfficeDashboard{Date: today, Arrivals: 3}, nil
}

func (m *mockFrontOfficeService) ListByTab(_ context.Context, tab model.FrontOfficeTab, today model.Date) ([]*model.Booking, error) {
	m.gotTab, m.gotDay = tab, today
	if tab == "lobby" {
		return nil, apperrors.InvalidInput("Unknown tab")
	}
	return []*model.Booking{}, nil
}

func (m *mockFrontOfficeService) CheckIn(_ context.Context, id string) (*model.Booking, error) {
	if id == "missing" {
		return nil, apperrors.NotFoundWithID("Booking", id)
	}
	return &model.Booking{ID: id, Status: model.BookingCheckedIn}, nil
}

func (m *mockFrontOfficeService) CheckOut(_ context.Context, id string) (*model.Booking, error) {
	return nil, apperrors.InvalidTransition("Booking", string(model.BookingConfirmed), string(model.BookingCheckedOut))
}

func (m *mockFrontOfficeService) AssignWalkIn(_ context.Context, number int, req *model.WalkInRequest) (*model.Booking, error) {
	m.gotRoom, m.gotReq = number, req
	return &model.Booking{RoomNumber: &number, Status: model.BookingCheckedIn, WalkIn: true}, nil
}

func (m *mockFrontOfficeService) RoomDetails(_ context.Context, number int) (*model.RoomDetails, error) {
	return &model.RoomDetails{Room: &model.Room{Number: number}}, nil
}

func newRouter(svc *mockFrontOfficeService) *httprouter.Router {
	log := logger.Discard()
	router := httprouter.New()
	NewFrontOfficeHandler(svc, middleware.NewGuard(nil, log), log).RegisterRoutes(router)
	return router
}

func TestListBookings(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		want    int
		wantTab model.FrontOfficeTab
	}{
		{"defaults to arrivals", "/api/v1/front-office/bookings", http.StatusOK, model.TabArrivals},
		{"explicit tab and date", "/api/v1/front-office/bookings?tab=inhouse&date=2026-03-10", http.StatusOK, model.TabInHouse},
		{"unknown tab", "/api/v1/front-office/bookings?tab=lobby", http.StatusBadRequest, "lobby"},
		{"bad date", "/api/v1/front-office/bookings?date=10-03-2026", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockFrontOfficeService{}
			w := httptest.NewRecorder()
			newRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if w.Code != tt.want {
				t.Fatalf("expected status %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
			if svc.gotTab != tt.wantTab {
				t.Errorf("expected tab %q, got %q", tt.wantTab, svc.gotTab)
			}
		})
	}
}

func TestDashboard_PassesDate(t *testing.T) {
	svc := &mockFrontOfficeService{}
	w := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/front-office/dashboard?date=2026-03-10", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if svc.gotDay.String() != "2026-03-10" {
		t.Errorf("expected date 2026-03-10, got %s", svc.gotDay)
	}
}

func TestCheckInAndOut(t *testing.T) {
	tests := []struct {
		path string
		want int
	}{
		{"/api/v1/front-office/bookings/65f000000000000000000001/check-in", http.StatusOK},
		{"/api/v1/front-office/bookings/missing/check-in", http.StatusNotFound},
		{"/api/v1/front-office/bookings/65f000000000000000000001/check-out", http.StatusConflict},
	}

	router := newRouter(&mockFrontOfficeService{})
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, tt.path, nil))
			if w.Code != tt.want {
				t.Errorf("expected status %d, got %d", tt.want, w.Code)
			}
		})
	}
}

func TestAssignWalkIn(t *testing.T) {
	svc := &mockFrontOfficeService{}
	body := `{"check_out":"2026-03-12","guests":2,"customer_email":"walkin@test.com","customer_name":"Maria Santos","payment_method":"Cash"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rooms/number/202/assign", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	if svc.gotRoom != 202 {
		t.Errorf("expected room 202, got %d", svc.gotRoom)
	}
	if svc.gotReq == nil || svc.gotReq.CheckOut.String() != "2026-03-12" || svc.gotReq.Guests != 2 {
		t.Errorf("unexpected request: %+v", svc.gotReq)
	}
}

func TestAssignWalkIn_BadRoomNumber(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rooms/number/abc/assign", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	newRouter(&mockFrontOfficeService{}).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}
