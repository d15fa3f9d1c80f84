package shared

import "context"

type (
	sessionContextKey struct{}
	localeContextKey  struct{}
)

// ContextWithSession stores the session in context.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext extracts the session from context.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}

// ContextWithLocale stores the negotiated locale tag (BCP 47) in context.
func ContextWithLocale(ctx context.Context, tag string) context.Context {
	return context.WithValue(ctx, localeContextKey{}, tag)
}

// LocaleFromContext returns the negotiated locale tag or an empty string.
func LocaleFromContext(ctx context.Context) string {
	tag, _ := ctx.Value(localeContextKey{}).(string)
	return tag
}
