package connector

import (
	"net/http"
)

type HTMX struct {
	base

	requestHeader               string
	boostedHeader               string
	historyRestoreRequestHeader string
}

func NewHTMX(c *Config) Connector {
	return &HTMX{
		base: base{
			config:       c,
			targetHeader: "HX-Target",
			selectHeader: "X-Select",
		},
		requestHeader:               "HX-Request",
		boostedHeader:               "HX-Boosted",
		historyRestoreRequestHeader: "HX-History-Restore-Request",
	}
}

// IsAsync is false for history restore requests, htmx expects the full page there.
func (h *HTMX) IsAsync(r *http.Request) bool {
	hxRequest := r.Header.Get(h.requestHeader)
	hxBoosted := r.Header.Get(h.boostedHeader)
	hxHistoryRestoreRequest := r.Header.Get(h.historyRestoreRequestHeader)

	return (hxRequest == "true" || hxBoosted == "true") && hxHistoryRestoreRequest != "true"
}
