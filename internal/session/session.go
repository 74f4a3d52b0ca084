// Package session resolves the current user of a request.
package session

import (
	"context"

	"github.com/kailas-cloud/homesearch/internal/domain"
)

type ctxKey struct{}

// WithUser stores the authenticated user in the context.
func WithUser(ctx context.Context, u domain.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// FromContext extracts the user stored by WithUser.
func FromContext(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(domain.User)
	if !ok || u.ID == "" {
		return domain.User{}, false
	}
	return u, true
}

// Context reads the user from the request context.
type Context struct{}

// CurrentUser returns the user stored in ctx.
func (Context) CurrentUser(ctx context.Context) (domain.User, bool) {
	return FromContext(ctx)
}

// Static always reports the same user; single-user deployments and the CLI use it.
// A context user takes precedence.
type Static struct {
	User domain.User
}

// CurrentUser returns the context user if present, otherwise the static one.
func (s Static) CurrentUser(ctx context.Context) (domain.User, bool) {
	if u, ok := FromContext(ctx); ok {
		return u, true
	}
	if s.User.ID == "" {
		return domain.User{}, false
	}
	return s.User, true
}
