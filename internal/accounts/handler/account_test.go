package handler

import (
	"context"
	"encoding/json"
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

type mockAccountService struct{}

func (m *mockAccountService) Register(_ context.Context, reg *model.Registration) (*model.Account, error) {
	if reg.Email == "taken@test.com" {
		return nil, apperrors.Conflict("An account with this email already exists")
	}
	return &model.Account{ID: "a1", Kind: model.AccountCustomer, Email: reg.Email, PasswordHash: "$2a$04$secret"}, nil
}

func (m *mockAccountService) CreateStaff(_ context.Context, reg *model.StaffRegistration) (*model.Account, error) {
	return &model.Account{ID: "s1", Kind: model.AccountStaff, Email: reg.Email, Department: reg.Department}, nil
}

func (m *mockAccountService) Login(_ context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	if req.Password != "ginhawa-demo" {
		return nil, apperrors.Unauthorized("Invalid email or password")
	}
	return &model.LoginResponse{Token: "tok", Account: &model.Account{Email: req.Email}}, nil
}

func (m *mockAccountService) Me(ctx context.Context) (*model.Account, error) {
	claims, ok := auth.FromContext(ctx)
	if !ok {
		return nil, apperrors.Unauthorized("Authentication required")
	}
	return &model.Account{Email: claims.Subject}, nil
}

func (m *mockAccountService) ListStaff(context.Context, string, int, int64) ([]*model.Account, int64, error) {
	return []*model.Account{}, 0, nil
}

const testSecret = "0123456789abcdef0123"

func newServer() (http.Handler, *auth.TokenIssuer) {
	log := logger.Discard()
	issuer := auth.NewTokenIssuer(testSecret, time.Hour)
	guard := middleware.NewGuard(issuer, log)

	router := httprouter.New()
	NewAccountHandler(&mockAccountService{}, guard, log).RegisterRoutes(router)
	return guard.Authenticate(router), issuer
}

func TestRegister_NeverReturnsHash(t *testing.T) {
	server, _ := newServer()

	w := httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/accounts/register", strings.NewReader(`{"email":"guest@test.com","password":"ginhawa-demo","name":"Juan"}`)))

	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "secret")
	assert.NotContains(t, w.Body.String(), "password")

	w = httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/accounts/register", strings.NewReader(`{"email":"taken@test.com","password":"ginhawa-demo","name":"Juan"}`)))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogin(t *testing.T) {
	server, _ := newServer()

	w := httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/accounts/login", strings.NewReader(`{"kind":"customer","email":"guest@test.com","password":"ginhawa-demo"}`)))
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data model.LoginResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "tok", response.Data.Token)

	w = httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/accounts/login", strings.NewReader(`{"kind":"customer","email":"guest@test.com","password":"nope"}`)))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMe(t *testing.T) {
	server, issuer := newServer()

	w := httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/accounts/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	tok, _, err := issuer.Issue("guest@test.com", string(model.AccountCustomer), "", "Juan")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w = httptest.NewRecorder()
	server.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "guest@test.com")
}

func TestCreateStaff_ManagerOnly(t *testing.T) {
	server, issuer := newServer()
	body := `{"email":"chef@hotel.com","password":"ginhawa-demo","name":"Chef","department":"Kitchen"}`

	tests := []struct {
		department string
		want       int
	}{
		{model.DepartmentFrontOffice, http.StatusForbidden},
		{model.DepartmentManager, http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.department, func(t *testing.T) {
			tok, _, err := issuer.Issue("boss@hotel.com", string(model.AccountStaff), tt.department, "")
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/staff", strings.NewReader(body))
			req.Header.Set("Authorization", "Bearer "+tok)
			w := httptest.NewRecorder()
			server.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
