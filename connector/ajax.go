package connector

import (
	"net/http"
	"strings"
)

// Ajax recognises the X-Requested-With header jQuery, axios and most
// hand-written fetch wrappers send.
type Ajax struct {
	base

	requestedWithHeader string
}

func NewAjax(c *Config) Connector {
	return &Ajax{
		base: base{
			config:       c,
			targetHeader: "X-Target",
			selectHeader: "X-Select",
		},
		requestedWithHeader: "X-Requested-With",
	}
}

func (a *Ajax) IsAsync(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get(a.requestedWithHeader), "XMLHttpRequest")
}
