package connector

import "net/http"

// Stimulus, Alpine and Vue have no request convention of their own; these
// connectors expect the application to send a library specific target header.
type (
	Stimulus struct{ base }
	Alpine   struct{ base }
	Vue      struct{ base }
)

func NewStimulus(c *Config) Connector {
	return &Stimulus{base: prefixed(c, "X-Stimulus")}
}

func NewAlpine(c *Config) Connector {
	return &Alpine{base: prefixed(c, "X-Alpine")}
}

func NewVue(c *Config) Connector {
	return &Vue{base: prefixed(c, "X-Vue")}
}

func prefixed(c *Config, prefix string) base {
	return base{
		config:       c,
		targetHeader: prefix + "-Target",
		selectHeader: prefix + "-Select",
	}
}

// AlpineAjax follows the Alpine AJAX plugin, which flags its requests with
// X-Alpine-Request.
type AlpineAjax struct {
	base

	requestHeader string
}

func NewAlpineAjax(c *Config) Connector {
	return &AlpineAjax{
		base:          prefixed(c, "X-Alpine"),
		requestHeader: "X-Alpine-Request",
	}
}

func (a *AlpineAjax) IsAsync(r *http.Request) bool {
	return r.Header.Get(a.requestHeader) == "true" || a.base.IsAsync(r)
}
