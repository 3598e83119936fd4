package ctxutil

import "context"

type principalKey struct{}

// Principal identifies who triggered a request: an admin session or a
// maintenance/cron key holder.
type Principal struct {
	Subject string
	Role    string
	Method  string // "jwt", "maintenance_key", "cron_secret"
}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func GetPrincipal(ctx context.Context) *Principal {
	if ctx == nil {
		return nil
	}
	if p, ok := ctx.Value(principalKey{}).(*Principal); ok {
		return p
	}
	return nil
}
