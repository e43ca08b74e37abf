package connector

import "net/http"

type Unpoly struct {
	base

	versionHeader string
}

func NewUnpoly(c *Config) Connector {
	return &Unpoly{
		base: base{
			config:       c,
			targetHeader: "X-Up-Target",
			selectHeader: "X-Up-Select",
		},
		versionHeader: "X-Up-Version",
	}
}

func (u *Unpoly) IsAsync(r *http.Request) bool {
	return r.Header.Get(u.targetHeader) != "" || r.Header.Get(u.versionHeader) != ""
}
