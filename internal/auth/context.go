package auth

import "context"

type subjectKey struct{}

// WithSubject records the token subject on ctx. The CLI uses it to tag
// exports it creates.
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectKey{}, subject)
}

// Subject returns the caller recorded by Authenticate, if any.
func Subject(ctx context.Context) (string, bool) {
	sub, ok := ctx.Value(subjectKey{}).(string)
	return sub, ok && sub != ""
}
