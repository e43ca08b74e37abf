package ajax

import (
	"context"
	"fmt"
	"time"
)

// DefaultCsrfToken is both the context key the csrfToken template function
// looks under and the form field name csrfKey reports.
var DefaultCsrfToken = "X-CSRF-Token"

// CsrfToken is stored in the request context by the application's CSRF
// middleware, either directly or through WithCsrfToken.
type CsrfToken interface {
	Token(ctx context.Context) string
	Key() string
}

// WithCsrfToken returns a copy of ctx carrying a fixed token.
func WithCsrfToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, DefaultCsrfToken, token)
}

func getCsrfToken(ctx context.Context) CsrfToken {
	switch v := ctx.Value(DefaultCsrfToken).(type) {
	case CsrfToken:
		return v
	case string:
		return staticCsrf(v)
	}

	// an unusable token keeps forms rendering without a CSRF middleware
	return staticCsrf(fmt.Sprintf("invalid-token-%d", time.Now().UnixNano()))
}

type staticCsrf string

func (s staticCsrf) Token(context.Context) string {
	return string(s)
}

func (s staticCsrf) Key() string {
	return DefaultCsrfToken
}
