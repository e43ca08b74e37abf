// Package connector decides whether a request was sent by client-side script
// expecting a partial update, and reads the target and selection hints the
// front-end library sent along with it.
package connector

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrUnknownConnector is returned by ByName for names it does not know.
var ErrUnknownConnector = errors.New("unknown connector")

type (
	Connector interface {
		// IsAsync reports whether r asks for a partial update instead of a full page.
		IsAsync(r *http.Request) bool

		TargetHeader() string
		TargetValue(r *http.Request) string
		SelectHeader() string
		SelectValue(r *http.Request) string
	}

	Config struct {
		// UseURLQuery makes the target and select values fall back to the
		// "target" and "select" query parameters.
		UseURLQuery bool
	}

	base struct {
		config       *Config
		targetHeader string
		selectHeader string
	}
)

// IsAsync treats any request carrying the target header as asynchronous.
func (x *base) IsAsync(r *http.Request) bool {
	return r.Header.Get(x.targetHeader) != ""
}

func (x *base) TargetHeader() string {
	return x.targetHeader
}

func (x *base) SelectHeader() string {
	return x.selectHeader
}

func (x *base) TargetValue(r *http.Request) string {
	return x.lookup(r, x.targetHeader, "target")
}

func (x *base) SelectValue(r *http.Request) string {
	return x.lookup(r, x.selectHeader, "select")
}

func (x *base) lookup(r *http.Request, header, query string) string {
	if r == nil {
		return ""
	}

	if v := r.Header.Get(header); v != "" {
		return v
	}

	if x.config.useURLQuery() && r.URL != nil {
		return r.URL.Query().Get(query)
	}

	return ""
}

func (c *Config) useURLQuery() bool {
	if c == nil {
		return false
	}

	return c.UseURLQuery
}

// ByName returns the connector registered under name. The empty name selects
// the X-Requested-With connector.
func ByName(name string, c *Config) (Connector, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "ajax", "xhr":
		return NewAjax(c), nil
	case "partial":
		return NewPartial(c), nil
	case "htmx":
		return NewHTMX(c), nil
	case "unpoly":
		return NewUnpoly(c), nil
	case "turbo":
		return NewTurbo(c), nil
	case "stimulus":
		return NewStimulus(c), nil
	case "alpine":
		return NewAlpine(c), nil
	case "alpine-ajax":
		return NewAlpineAjax(c), nil
	case "vue", "vuejs":
		return NewVue(c), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownConnector, name)
}
