package middleware

import "context"

type contextKey string

const ctxUserEmail contextKey = "user_email"

// UserEmailFromContext returns the authenticated caller's email, or "" when
// the request did not pass Auth.
func UserEmailFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserEmail).(string); ok {
		return v
	}
	return ""
}

// WithUserEmail injects the caller's email into the context.
func WithUserEmail(ctx context.Context, email string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserEmail, email)
}
