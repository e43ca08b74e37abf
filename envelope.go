package ajax

import (
	"html/template"
	"maps"
)

// Envelope is the JSON document returned to asynchronous requests in place of
// a full page. Nil fields are left out of the encoded object.
type Envelope struct {
	// Redirect tells the client to navigate to another location.
	Redirect *string `json:"redirect,omitempty"`
	// Sections maps an element id to the HTML that replaces its content.
	Sections map[string]template.HTML `json:"sections,omitempty"`
	// Alert is shown to the user with window.alert.
	Alert *string `json:"alert,omitempty"`
	// RunJavascript is evaluated by the client after the sections are swapped.
	RunJavascript *string `json:"runJavascript,omitempty"`
	// Dump asks the client to log the envelope to the console.
	Dump *bool `json:"dump,omitempty"`
	// ScrollTo is the id of the element the client scrolls into view.
	ScrollTo *string `json:"scrollTo,omitempty"`
}

func (e *Envelope) setSection(id string, html template.HTML) {
	if e.Sections == nil {
		e.Sections = make(map[string]template.HTML)
	}
	e.Sections[id] = html
}

func (e Envelope) clone() Envelope {
	out := e
	if e.Sections != nil {
		out.Sections = maps.Clone(e.Sections)
	}
	return out
}
