// Package authctx carries the authenticated principal in a context.Context.
// There is deliberately no process-global "current user": identity is
// explicit in every call chain, and "clearing the security context" is just
// dropping the derived context.
package authctx

import "context"

// Principal identifies an authenticated account on a single request.
type Principal struct {
	UserID   string
	Username string
	Roles    []string
}

type ctxKey struct{}

// WithPrincipal returns a child context carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext extracts the principal, if any.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	return p, ok
}

// Clear returns a context with no principal attached. Handy at logout when
// the same context flows on to further work.
func Clear(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, nil)
}
