package kafka

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"nil", nil, ErrorTypeUnknown},
		{"deadline", context.DeadlineExceeded, ErrorTypeTransient},
		{"connection refused mixed case", errors.New("dial tcp: Connection Refused"), ErrorTypeTransient},
		{"wrapped transient", fmt.Errorf("insert invoice: %w", NewTransientError("mongo down", nil)), ErrorTypeTransient},
		{"business", NewBusinessError("unknown booking", nil), ErrorTypeBusiness},
		{"unclassified", errors.New("duplicate key"), ErrorTypePermanent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err); got != tt.want {
				t.Errorf("ClassifyError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestShouldRetry(t *testing.T) {
	transient := errors.New("i/o timeout")

	if !ShouldRetry(transient, 0, 3) {
		t.Error("expected retry for transient error under the limit")
	}
	if ShouldRetry(transient, 3, 3) {
		t.Error("expected no retry once the limit is reached")
	}
	if ShouldRetry(errors.New("schema mismatch"), 0, 3) {
		t.Error("expected no retry for permanent error")
	}
}
