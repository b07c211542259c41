package auth

import "context"

type ctxKey string

const ContextClaimsKey ctxKey = "claims"

// ClaimsFromContext returns the validated token claims attached by the
// auth middleware, if any.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(ContextClaimsKey).(*Claims)
	return c, ok
}

func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, ContextClaimsKey, claims)
}
