package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "ginhawa/pkg/errors"

	"github.com/julienschmidt/httprouter"
)

func TestWriteError_AppError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", apperrors.NotFoundWithID("Booking", "abc"), http.StatusNotFound, apperrors.CodeNotFound},
		{"validation", apperrors.Validation("bad", nil), http.StatusUnprocessableEntity, apperrors.CodeValidation},
		{"conflict", apperrors.NoRoomAvailable("Suite"), http.StatusConflict, apperrors.CodeUnavailableRoom},
		{"transition", apperrors.InvalidTransition("Order", "Served", "Pending"), http.StatusConflict, apperrors.CodeInvalidTransition},
		{"forbidden", apperrors.Forbidden("staff only"), http.StatusForbidden, apperrors.CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			if err := WriteError(w, tt.err); err != nil {
				t.Fatalf("unexpected write error: %v", err)
			}
			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			var resp ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if resp.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestWriteError_PlainErrorIsGeneric(t *testing.T) {
	w := httptest.NewRecorder()
	_ = WriteError(w, errors.New("mongo: server selection timeout"))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "mongo") {
		t.Errorf("internal cause leaked: %s", w.Body.String())
	}
}

func TestWritePaginated(t *testing.T) {
	w := httptest.NewRecorder()
	_ = WritePaginated(w, []string{"101", "102"}, 30, 2, 4)

	var resp PaginatedResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.TotalCount != 30 || resp.Limit != 2 || resp.Offset != 4 {
		t.Errorf("unexpected pagination: %+v", resp)
	}
}

func TestExtractLimitOffset(t *testing.T) {
	tests := []struct {
		query      string
		wantLimit  int
		wantOffset int64
		wantErr    bool
	}{
		{"", 10, 0, false},
		{"?limit=5&offset=10", 5, 10, false},
		{"?limit=1000", 100, 0, false},
		{"?offset=-4", 10, 0, false},
		{"?limit=abc", 0, 0, true},
		{"?offset=xyz", 0, 0, true},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/rooms"+tt.query, nil)
		limit, offset, err := ExtractLimitOffset(r)
		if (err != nil) != tt.wantErr {
			t.Errorf("%q: wantErr=%v, got %v", tt.query, tt.wantErr, err)
			continue
		}
		if tt.wantErr {
			continue
		}
		if limit != tt.wantLimit || offset != tt.wantOffset {
			t.Errorf("%q: got (%d, %d), want (%d, %d)", tt.query, limit, offset, tt.wantLimit, tt.wantOffset)
		}
	}
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Ana"}`))
	if err := DecodeJSON(r, &dst); err != nil || dst.Name != "Ana" {
		t.Fatalf("expected decode to succeed, got %v (%+v)", err, dst)
	}

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	if err := DecodeJSON(r, &dst); !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Errorf("expected invalid input for malformed JSON, got %v", err)
	}

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	if err := DecodeJSON(r, &dst); !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Errorf("expected invalid input for empty body, got %v", err)
	}
}

func TestPathInt(t *testing.T) {
	ps := httprouter.Params{{Key: "number", Value: "101"}}
	n, err := PathInt(ps, "number")
	if err != nil || n != 101 {
		t.Fatalf("expected 101, got %d (%v)", n, err)
	}

	ps = httprouter.Params{{Key: "number", Value: "one"}}
	if _, err := PathInt(ps, "number"); err == nil {
		t.Error("expected error for non-numeric room number")
	}
}

func TestQueryDate(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?date=2026-10-14", nil)
	d, err := QueryDate(r, "date")
	if err != nil || d.String() != "2026-10-14" {
		t.Fatalf("expected 2026-10-14, got %s (%v)", d, err)
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	d, err = QueryDate(r, "date")
	if err != nil || !d.IsZero() {
		t.Errorf("expected zero date when absent, got %s (%v)", d, err)
	}

	r = httptest.NewRequest(http.MethodGet, "/?date=14/10/2026", nil)
	if _, err := QueryDate(r, "date"); err == nil {
		t.Error("expected error for malformed date")
	}
}
