package auth

import (
	"context"
	"strings"
)

type contextKey struct{}

// WithClaims stores the authenticated caller on ctx.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// FromContext returns the authenticated caller, if any.
func FromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(contextKey{}).(*Claims)
	return c, ok && c != nil
}

// CanAccessCustomer reports whether the caller may read data belonging to
// the customer with the given email. Staff may read any customer.
func (c *Claims) CanAccessCustomer(email string) bool {
	return c.Kind == "staff" || strings.EqualFold(c.Subject, email)
}
