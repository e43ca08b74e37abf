package ajax

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"maps"
	"net/http"
	"net/url"
	"os"
	"path"
	"slices"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/partial-coffee/go-ajax/connector"
)

// protectedFunctionNames is a set of function names that are bound per request
// and cannot be overridden.
var protectedFunctionNames = map[string]struct{}{
	"context":     {},
	"url":         {},
	"urlIs":       {},
	"urlStarts":   {},
	"urlContains": {},
	"isAsync":     {},
	"csrfToken":   {},
	"csrfKey":     {},
	"locale":      {},
}

// Renderer renders views for the helper. Render produces the whole page;
// RenderSections produces only the named sections the view defines, and an
// empty map when it defines none.
type Renderer interface {
	Render(ctx context.Context, r *http.Request, view string, data map[string]any) (template.HTML, error)
	RenderSections(ctx context.Context, r *http.Request, view string, data map[string]any) (map[string]template.HTML, error)
}

// ViewData is the value templates are executed with.
type ViewData struct {
	// Ctx is the context of the request
	Ctx context.Context
	// URL is the URL of the request
	URL *url.URL
	// Request contains the http.Request
	Request *http.Request
	// Data contains the data passed to RenderView
	Data map[string]any
	// Global contains data shared by every view of the renderer
	Global map[string]any
}

type (
	// TemplateRenderer renders html/template views read from a file system.
	// A view is a template file; its sections are the templates the file
	// defines itself with define or block. Layout files are parsed before
	// the view so the view's definitions replace the layout's blocks.
	TemplateRenderer struct {
		fs        fs.FS
		layouts   []string
		useCache  bool
		logger    Logger
		tracer    trace.Tracer
		connector connector.Connector

		mu         sync.RWMutex
		funcs      template.FuncMap
		globalData map[string]any

		cache   sync.Map
		parseMu sync.Map
	}

	// parsedView is a cached, never executed template set.
	parsedView struct {
		tmpl     *template.Template
		sections []string
	}
)

// ErrNoView is returned when a view name is empty.
var ErrNoView = errors.New("no view provided for rendering")

// NewTemplateRenderer returns a renderer reading views from fsys. A nil fsys
// reads from the working directory.
func NewTemplateRenderer(fsys fs.FS, layouts ...string) *TemplateRenderer {
	if fsys == nil {
		fsys = os.DirFS("./")
	}

	return &TemplateRenderer{
		fs:         fsys,
		layouts:    layouts,
		funcs:      maps.Clone(DefaultTemplateFuncMap),
		globalData: make(map[string]any),
		logger:     defaultLogger(),
		tracer:     tracerFrom(nil),
	}
}

// UseCache sets the cache usage flag for the renderer.
func (tr *TemplateRenderer) UseCache(useCache bool) *TemplateRenderer {
	tr.useCache = useCache
	return tr
}

// SetLogger sets the logger for the renderer.
func (tr *TemplateRenderer) SetLogger(logger Logger) *TemplateRenderer {
	if logger != nil {
		tr.logger = logger
	}
	return tr
}

// SetTracerProvider sets where the renderer's spans go.
func (tr *TemplateRenderer) SetTracerProvider(tp trace.TracerProvider) *TemplateRenderer {
	tr.tracer = tracerFrom(tp)
	return tr
}

// SetConnector sets the connector backing the isAsync template function.
func (tr *TemplateRenderer) SetConnector(c connector.Connector) *TemplateRenderer {
	tr.connector = c
	return tr
}

// SetGlobalData sets the data available to all views as .Global.
func (tr *TemplateRenderer) SetGlobalData(data map[string]any) *TemplateRenderer {
	tr.mu.Lock()
	tr.globalData = data
	tr.mu.Unlock()
	return tr
}

// AddFunc adds a function to the renderer.
func (tr *TemplateRenderer) AddFunc(name string, fn any) *TemplateRenderer {
	tr.MergeFuncMap(template.FuncMap{name: fn})
	return tr
}

// MergeFuncMap merges the given FuncMap into the renderer's functions.
// Changing functions drops the template cache.
func (tr *TemplateRenderer) MergeFuncMap(funcMap template.FuncMap) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	for k, v := range funcMap {
		if _, ok := protectedFunctionNames[k]; ok {
			tr.logger.Warn("function name is protected and cannot be overwritten", "function", k)
			continue
		}

		tr.funcs[k] = v
	}

	tr.cache.Clear()
}

// Render executes the whole view.
func (tr *TemplateRenderer) Render(ctx context.Context, r *http.Request, view string, data map[string]any) (template.HTML, error) {
	ctx, span := tr.tracer.Start(ctx, "ajax.TemplateRenderer.Render", trace.WithAttributes(attribute.String("ajax.view", view)))
	defer span.End()

	tmpl, _, err := tr.prepare(ctx, r, view)
	if err != nil {
		return "", spanError(span, err)
	}

	var buf bytes.Buffer
	if err = tmpl.Execute(&buf, tr.viewData(ctx, r, data)); err != nil {
		tr.logger.Error("error executing template", "template", view, "error", err)
		return "", spanError(span, fmt.Errorf("error executing template '%s': %w", view, err))
	}

	return template.HTML(buf.String()), nil
}

// RenderSections executes every section the view defines.
func (tr *TemplateRenderer) RenderSections(ctx context.Context, r *http.Request, view string, data map[string]any) (map[string]template.HTML, error) {
	ctx, span := tr.tracer.Start(ctx, "ajax.TemplateRenderer.RenderSections", trace.WithAttributes(attribute.String("ajax.view", view)))
	defer span.End()

	tmpl, sections, err := tr.prepare(ctx, r, view)
	if err != nil {
		return nil, spanError(span, err)
	}

	vd := tr.viewData(ctx, r, data)
	out := make(map[string]template.HTML, len(sections))
	for _, name := range sections {
		var buf bytes.Buffer
		if err = tmpl.ExecuteTemplate(&buf, name, vd); err != nil {
			tr.logger.Error("error executing section", "template", view, "section", name, "error", err)
			return nil, spanError(span, fmt.Errorf("error executing section '%s' of '%s': %w", name, view, err))
		}
		out[name] = template.HTML(buf.String())
	}

	tr.logger.Debug("rendered sections", "template", view, "sections", len(out))
	span.SetAttributes(attribute.Int("ajax.sections", len(out)))
	return out, nil
}

func (tr *TemplateRenderer) viewData(ctx context.Context, r *http.Request, data map[string]any) *ViewData {
	var currentURL *url.URL
	if r != nil {
		currentURL = r.URL
	}

	tr.mu.RLock()
	global := tr.globalData
	tr.mu.RUnlock()

	return &ViewData{
		Ctx:     ctx,
		URL:     currentURL,
		Request: r,
		Data:    data,
		Global:  global,
	}
}

// prepare returns a clone of the parsed view with the request functions bound.
func (tr *TemplateRenderer) prepare(ctx context.Context, r *http.Request, view string) (*template.Template, []string, error) {
	if strings.TrimSpace(view) == "" {
		tr.logger.Error("no view provided for rendering")
		return nil, nil, ErrNoView
	}

	parsed, err := tr.getOrParse(view)
	if err != nil {
		tr.logger.Error("error getting or parsing template", "template", view, "error", err)
		return nil, nil, err
	}

	tmpl, err := parsed.tmpl.Clone()
	if err != nil {
		return nil, nil, fmt.Errorf("error cloning template '%s': %w", view, err)
	}

	return tmpl.Funcs(tr.requestFuncs(ctx, r)), parsed.sections, nil
}

func (tr *TemplateRenderer) getOrParse(view string) (*parsedView, error) {
	if cached, ok := tr.cache.Load(view); ok && tr.useCache {
		tr.logger.Debug("template cache hit", "template", view)
		return cached.(*parsedView), nil
	}

	muInterface, _ := tr.parseMu.LoadOrStore(view, &sync.Mutex{})
	mu := muInterface.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()

	// Double-check after acquiring lock
	if cached, ok := tr.cache.Load(view); ok && tr.useCache {
		return cached.(*parsedView), nil
	}

	parsed, err := tr.parse(view)
	if err != nil {
		return nil, err
	}

	tr.logger.Debug("parsed view", "template", view, "sections", parsed.sections)

	if tr.useCache {
		tr.cache.Store(view, parsed)
	}

	return parsed, nil
}

func (tr *TemplateRenderer) parse(view string) (*parsedView, error) {
	funcs := tr.parseFuncs()
	root := path.Base(view)

	// the view alone tells which templates are its own sections
	own, err := template.New(root).Funcs(funcs).ParseFS(tr.fs, view)
	if err != nil {
		return nil, fmt.Errorf("error parsing view '%s': %w", view, err)
	}

	var sections []string
	for _, t := range own.Templates() {
		if t.Name() != root {
			sections = append(sections, t.Name())
		}
	}
	slices.Sort(sections)

	tmpl, err := template.New(root).Funcs(funcs).ParseFS(tr.fs, append(slices.Clone(tr.layouts), view)...)
	if err != nil {
		return nil, fmt.Errorf("error parsing templates: %w", err)
	}

	return &parsedView{tmpl: tmpl, sections: sections}, nil
}

// parseFuncs returns the renderer functions plus placeholders for the request
// functions, which are rebound on every render.
func (tr *TemplateRenderer) parseFuncs() template.FuncMap {
	tr.mu.RLock()
	funcs := maps.Clone(tr.funcs)
	tr.mu.RUnlock()

	maps.Copy(funcs, tr.requestFuncs(context.Background(), nil))
	return funcs
}

func (tr *TemplateRenderer) requestFuncs(ctx context.Context, r *http.Request) template.FuncMap {
	requestPath := ""
	if r != nil && r.URL != nil {
		requestPath = r.URL.Path
	}

	return template.FuncMap{
		"context": func() context.Context {
			return ctx
		},
		"url": func() *url.URL {
			if r == nil {
				return nil
			}
			return r.URL
		},
		"urlIs": func(current string) bool {
			return strings.Trim(requestPath, "/") == strings.Trim(current, "/")
		},
		"urlStarts": func(current string) bool {
			return strings.HasPrefix(requestPath, current)
		},
		"urlContains": func(current string) bool {
			return strings.Contains(requestPath, current)
		},
		"isAsync": func() bool {
			return r != nil && tr.connector != nil && tr.connector.IsAsync(r)
		},
		"csrfToken": func() string {
			return getCsrfToken(ctx).Token(ctx)
		},
		"csrfKey": func() string {
			return getCsrfToken(ctx).Key()
		},
		"locale": func() string {
			return getLocalizer(ctx).Locale()
		},
	}
}

func spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
