package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"ginhawa/pkg/auth"
	"ginhawa/pkg/logger"
	"ginhawa/pkg/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdempotency_ReplaysSuccessfulResponse(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Minute)
	defer store.Stop()

	var calls atomic.Int32
	h := Idempotency(store, logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"reference":"GIN-1"}`))
	}))

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil)
		req.Header.Set(IdempotencyHeader, "abc")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, `{"reference":"GIN-1"}`, w.Body.String())
	}
	assert.Equal(t, int32(1), calls.Load())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", nil)
	req.Header.Set(IdempotencyHeader, "abc")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, int32(2), calls.Load(), "same key on another path must not replay")
}

func TestIdempotency_DoesNotCacheFailures(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Minute)
	defer store.Stop()

	var calls atomic.Int32
	h := Idempotency(store, logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusConflict)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/frontoffice/checkin/1", nil)
		req.Header.Set(IdempotencyHeader, "k")
		h.ServeHTTP(httptest.NewRecorder(), req)
	}
	assert.Equal(t, int32(2), calls.Load())
}

func TestIdempotency_RejectsKeyReuseWithDifferentBody(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Minute)
	defer store.Stop()

	var calls atomic.Int32
	h := Idempotency(store, logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"password":"right"`) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"token":"signed-token"}`))
	}))

	login := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts/login", strings.NewReader(body))
		req.Header.Set(IdempotencyHeader, "k1")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	w := login(`{"email":"guest@test.com","password":"right"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = login(`{"email":"guest@test.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.NotContains(t, w.Body.String(), "signed-token")
	assert.Equal(t, int32(1), calls.Load())

	w = login(`{"email":"guest@test.com","password":"right"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", w.Header().Get("Idempotent-Replayed"))
	assert.Equal(t, int32(1), calls.Load())
}

func TestIdempotency_ScopedToCaller(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Minute)
	defer store.Stop()

	var calls atomic.Int32
	h := Idempotency(store, logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		claims, _ := auth.FromContext(r.Context())
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(claims.Subject))
	}))

	for _, subject := range []string{"alice@test.com", "bob@test.com"} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(`{}`))
		req.Header.Set(IdempotencyHeader, "same")
		req = req.WithContext(auth.WithClaims(req.Context(), &auth.Claims{Kind: "customer", RegisteredClaims: jwt.RegisteredClaims{Subject: subject}}))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, subject, w.Body.String())
	}
	assert.Equal(t, int32(2), calls.Load())
}

func TestClientRateLimiter(t *testing.T) {
	rl := NewClientRateLimiter(2, time.Minute)
	defer rl.Stop()
	ctx := context.Background()

	assert.True(t, rl.Allow(ctx, "1.2.3.4"))
	assert.True(t, rl.Allow(ctx, "1.2.3.4"))
	assert.False(t, rl.Allow(ctx, "1.2.3.4"))
	assert.True(t, rl.Allow(ctx, "5.6.7.8"))
	assert.True(t, rl.Allow(ctx, ""))
}

func TestRateLimit_Rejects(t *testing.T) {
	rl := NewClientRateLimiter(1, time.Minute)
	defer rl.Stop()
	h := RateLimit(rl, nil, logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms", nil)
	req.RemoteAddr = "10.0.0.1:5555"

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", ClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", ClientIP(req))
}

func TestContentTypeValidation(t *testing.T) {
	h := ContentTypeValidation(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	tests := []struct {
		name        string
		body        string
		contentType string
		want        int
	}{
		{"json body", `{}`, "application/json; charset=utf-8", http.StatusOK},
		{"form body", `a=b`, "application/x-www-form-urlencoded", http.StatusUnsupportedMediaType},
		{"missing header", `{}`, "", http.StatusUnsupportedMediaType},
		{"bodyless command", ``, "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/frontoffice/checkin/x", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestMaxRequestSize(t *testing.T) {
	var readErr error
	h := MaxRequestSize(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 64)))
	h.ServeHTTP(httptest.NewRecorder(), req)

	var maxErr *http.MaxBytesError
	assert.ErrorAs(t, readErr, &maxErr)
}

func TestRecovery(t *testing.T) {
	h := Recovery(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestRequestTimeout(t *testing.T) {
	h := RequestTimeout(20 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		time.Sleep(10 * time.Millisecond)
		_, _ = w.Write([]byte("late"))
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.NotContains(t, w.Body.String(), "late")
}

func TestRequestLogging_PropagatesRequestID(t *testing.T) {
	var seen string
	h := RequestLogging(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "req-42", seen)
	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
}

func TestGuard(t *testing.T) {
	issuer := auth.NewTokenIssuer("0123456789abcdef0123", time.Hour)
	guard := NewGuard(issuer, logger.Discard())

	router := httprouter.New()
	router.GET("/billing", guard.Staff(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
	}, model.DepartmentBilling))
	h := guard.Authenticate(router)

	token := func(kind, dept string) string {
		raw, _, err := issuer.Issue("x@hotel.com", kind, dept, "")
		require.NoError(t, err)
		return "Bearer " + raw
	}

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
		{"customer", token(string(model.AccountCustomer), ""), http.StatusForbidden},
		{"wrong department", token(string(model.AccountStaff), model.DepartmentKitchen), http.StatusForbidden},
		{"billing staff", token(string(model.AccountStaff), model.DepartmentBilling), http.StatusOK},
		{"manager", token(string(model.AccountStaff), model.DepartmentManager), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/billing", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestGuard_DisabledLetsEverythingThrough(t *testing.T) {
	guard := NewGuard(nil, logger.Discard())
	called := false
	handle := guard.Staff(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		called = true
	}, model.DepartmentBilling)

	handle(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), nil)
	assert.True(t, called)
}

func TestAuthorizeCustomer(t *testing.T) {
	assert.NoError(t, AuthorizeCustomer(context.Background(), "guest@test.com"))

	customer := &auth.Claims{Kind: string(model.AccountCustomer)}
	customer.Subject = "guest@test.com"
	ctx := auth.WithClaims(context.Background(), customer)
	assert.NoError(t, AuthorizeCustomer(ctx, "guest@test.com"))
	assert.Error(t, AuthorizeCustomer(ctx, "someone@test.com"))

	staff := auth.WithClaims(context.Background(), &auth.Claims{Kind: string(model.AccountStaff)})
	assert.NoError(t, AuthorizeCustomer(staff, "someone@test.com"))
}
