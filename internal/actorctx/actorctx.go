package actorctx

import "context"

type ctxKey struct{}

// Principal is the authenticated user making the request.
type Principal struct {
	UserID int64
	Email  string
	Role   string
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)

	return p, ok && p.UserID != 0
}
