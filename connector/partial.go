package connector

// Partial is the plain X-Target convention.
type Partial struct {
	base
}

func NewPartial(c *Config) Connector {
	return &Partial{
		base: base{
			config:       c,
			targetHeader: "X-Target",
			selectHeader: "X-Select",
		},
	}
}
