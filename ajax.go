// Package ajax answers a request either with a fully rendered page or, when
// client-side script asked for a partial update, with a JSON envelope holding
// only the page sections that changed plus a few client directives.
//
//	a := svc.New(r).Select("messages").ScrollTo("messages")
//	resp, err := a.RenderView(r.Context(), "views/inbox.html", data)
//	if err != nil {
//		// handle
//	}
//	ajax.Write(w, resp)
package ajax

import (
	"context"
	"errors"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/partial-coffee/go-ajax/connector"
)

// NoSectionsAlert is the alert set when an asynchronous request renders a
// view that defines no sections.
const NoSectionsAlert = "View has no sections to be rendered"

// ErrNoRenderer is returned by RenderView when the service has no renderer.
var ErrNoRenderer = errors.New("no renderer configured")

// Ajax is the per-request helper. It is not safe for concurrent use.
type Ajax struct {
	request   *http.Request
	connector connector.Connector
	renderer  Renderer
	logger    Logger
	tracer    trace.Tracer

	envelope Envelope
	// sections are the names RenderView copies into the envelope, in
	// selection order and without duplicates.
	sections []string
	// viewID, when set, receives the whole rendered view.
	viewID string
}

// Redirect records to in the envelope. Asynchronous requests get the JSON
// envelope so the client navigates itself; others get an HTTP redirect.
// A zero status means 302 Found. With secure set, relative targets are
// made absolute on https.
func (a *Ajax) Redirect(to string, status int, header http.Header, secure bool) Response {
	a.envelope.Redirect = &to
	if a.IsAsync() {
		return a.JSON()
	}

	if status == 0 {
		status = http.StatusFound
	} else if (status < http.StatusMultipleChoices || status > http.StatusPermanentRedirect) && status != http.StatusCreated {
		a.logger.Warn("invalid redirect status, using 302", "status", status, "location", to)
		status = http.StatusFound
	}

	location := to
	if secure {
		location = a.secureLocation(to)
	}

	return &RedirectResponse{
		Code:     status,
		Location: location,
		Request:  a.request,
		Header:   header,
	}
}

func (a *Ajax) secureLocation(to string) string {
	u, err := url.Parse(to)
	if err != nil || u.IsAbs() || a.request == nil {
		return to
	}

	host := a.request.Host
	if u.Host != "" {
		host = u.Host
	}

	if !strings.HasPrefix(u.Path, "/") && u.Host == "" {
		u.Path = "/" + u.Path
	}

	u.Scheme = "https"
	u.Host = host
	return u.String()
}

// RenderView renders view with data, later maps in mergeData overriding
// earlier keys. For asynchronous requests the rendered sections are put
// into the envelope and the JSON response is returned instead of the page.
// Renderer errors are returned as they are.
func (a *Ajax) RenderView(ctx context.Context, view string, data map[string]any, mergeData ...map[string]any) (Response, error) {
	if a.renderer == nil {
		return nil, ErrNoRenderer
	}

	async := a.IsAsync()
	ctx, span := a.tracer.Start(ctx, "ajax.RenderView", trace.WithAttributes(
		attribute.String("ajax.view", view),
		attribute.Bool("ajax.async", async),
		attribute.String("ajax.view_id", a.viewID),
	))
	defer span.End()

	data = mergeViewData(data, mergeData)

	if !async {
		html, err := a.renderer.Render(ctx, a.request, view, data)
		if err != nil {
			return nil, spanError(span, err)
		}
		return &ViewResponse{HTML: html}, nil
	}

	if a.viewID != "" {
		html, err := a.renderer.Render(ctx, a.request, view, data)
		if err != nil {
			return nil, spanError(span, err)
		}
		a.envelope.setSection(a.viewID, html)
		return a.JSON(), nil
	}

	rendered, err := a.renderer.RenderSections(ctx, a.request, view, data)
	if err != nil {
		return nil, spanError(span, err)
	}

	if len(rendered) == 0 {
		a.logger.Warn("view has no sections", "view", view)
		a.Alert(NoSectionsAlert)
		return a.JSON(), nil
	}

	for _, name := range a.sections {
		// blank output counts as empty, unlike "0"; define bodies carry their newlines
		if content, ok := rendered[name]; ok && strings.TrimSpace(string(content)) != "" {
			a.envelope.setSection(name, content)
		}
	}

	return a.JSON(), nil
}

func mergeViewData(data map[string]any, mergeData []map[string]any) map[string]any {
	if len(mergeData) == 0 {
		if data == nil {
			return map[string]any{}
		}
		return data
	}

	out := maps.Clone(data)
	if out == nil {
		out = make(map[string]any)
	}
	for _, m := range mergeData {
		maps.Copy(out, m)
	}
	return out
}

// JSON returns the envelope as a JSON response.
func (a *Ajax) JSON() Response {
	return &JSONResponse{Envelope: a.envelope.clone()}
}

// Select adds name to the sections RenderView sends back. The element with
// id name is redrawn on the client.
func (a *Ajax) Select(name string) *Ajax {
	if !slices.Contains(a.sections, name) {
		a.sections = append(a.sections, name)
	}
	return a
}

// SelectAll calls Select for every name.
func (a *Ajax) SelectAll(names ...string) *Ajax {
	for _, name := range names {
		a.Select(name)
	}
	return a
}

// SelectRequested selects the comma separated section names sent in the
// connector's select header.
func (a *Ajax) SelectRequested() *Ajax {
	if a.request == nil {
		return a
	}

	for _, name := range strings.Split(a.connector.SelectValue(a.request), ",") {
		if name = strings.TrimSpace(name); name != "" {
			a.Select(name)
		}
	}
	return a
}

// Selected returns the selected section names in selection order.
func (a *Ajax) Selected() []string {
	return slices.Clone(a.sections)
}

// Dump asks the client to log the envelope.
func (a *Ajax) Dump(enabled bool) *Ajax {
	a.envelope.Dump = &enabled
	return a
}

// RunJavascript sets code the client evaluates.
func (a *Ajax) RunJavascript(code string) *Ajax {
	a.envelope.RunJavascript = &code
	return a
}

// ClearJavascript removes the runJavascript key from the envelope.
func (a *Ajax) ClearJavascript() *Ajax {
	a.envelope.RunJavascript = nil
	return a
}

// Alert sets the message the client shows with window.alert.
func (a *Ajax) Alert(message string) *Ajax {
	a.envelope.Alert = &message
	return a
}

// IsAsync reports whether the request asks for a partial update.
func (a *Ajax) IsAsync() bool {
	return a.request != nil && a.connector.IsAsync(a.request)
}

// SetEnvelope replaces the whole envelope.
func (a *Ajax) SetEnvelope(env Envelope) {
	a.envelope = env.clone()
}

// Envelope returns a copy of the envelope built so far.
func (a *Ajax) Envelope() Envelope {
	return a.envelope.clone()
}

// ScrollTo makes the client scroll to the element with the given id.
func (a *Ajax) ScrollTo(id string) *Ajax {
	a.envelope.ScrollTo = &id
	return a
}

// RedrawView sends the whole rendered view as the content of the element
// with the given id, skipping section rendering.
func (a *Ajax) RedrawView(id string) *Ajax {
	a.viewID = id
	return a
}

// RedrawTarget calls RedrawView with the target element the client named in
// the connector's target header, if any.
func (a *Ajax) RedrawTarget() *Ajax {
	if a.request == nil {
		return a
	}

	if target := a.connector.TargetValue(a.request); target != "" {
		a.RedrawView(target)
	}
	return a
}

// Instance returns a, for containers that resolve the helper through a
// method value.
func (a *Ajax) Instance() *Ajax {
	return a
}
