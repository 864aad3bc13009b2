package shared

import (
	"context"
	"net/http"
)

type sessionContextKey struct{}

// ContextWithSession stores the session in context.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// WithSession returns a shallow copy of r carrying sess.
func WithSession(r *http.Request, sess *Session) *http.Request {
	return r.WithContext(ContextWithSession(r.Context(), sess))
}

// SessionFromContext extracts the session from context. A nil session is
// valid and reports itself as unauthenticated.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}
