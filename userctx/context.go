package userctx

import "context"

// Context key type
type contextKey string

const subjectKey contextKey = "subject"
const authenticatorKey contextKey = "authenticator"

// SetSubject adds the authenticated subject to the request context
func SetSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectKey, subject)
}

// GetSubject retrieves the authenticated subject from the request context
func GetSubject(ctx context.Context) string {
	if subject, ok := ctx.Value(subjectKey).(string); ok {
		return subject
	}
	return ""
}

// SetAuthenticator records which authenticator authenticated the subject
func SetAuthenticator(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, authenticatorKey, id)
}

// GetAuthenticator retrieves the authenticator ID, or "anonymous" if unset
func GetAuthenticator(ctx context.Context) string {
	id, ok := ctx.Value(authenticatorKey).(string)
	if !ok {
		return "anonymous"
	}
	return id
}
