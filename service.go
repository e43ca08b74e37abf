package ajax

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/partial-coffee/go-ajax/connector"
)

const instrumentationName = "github.com/partial-coffee/go-ajax"

type (
	Logger interface {
		Debug(msg string, args ...any)
		Warn(msg string, args ...any)
		Error(msg string, args ...any)
	}

	Config struct {
		// Connector decides which requests are asynchronous. Defaults to
		// the X-Requested-With connector.
		Connector connector.Connector
		Renderer  Renderer
		Logger    Logger
		// TracerProvider defaults to the global provider.
		TracerProvider trace.TracerProvider
		// Dump enables the dump flag on every new helper.
		Dump bool
	}

	// Service holds the process wide configuration and creates one helper
	// per request.
	Service struct {
		config *Config
		tracer trace.Tracer
	}
)

// NewService returns a new ajax service.
func NewService(cfg *Config) *Service {
	if cfg == nil {
		cfg = &Config{}
	}

	if cfg.Connector == nil {
		cfg.Connector = connector.NewAjax(nil)
	}

	if cfg.Logger == nil {
		cfg.Logger = defaultLogger()
	}

	// the isAsync template func must agree with Ajax.IsAsync
	if tr, ok := cfg.Renderer.(*TemplateRenderer); ok && tr.connector == nil {
		tr.SetConnector(cfg.Connector)
	}

	return &Service{
		config: cfg,
		tracer: tracerFrom(cfg.TracerProvider),
	}
}

// New returns the helper for r.
func (svc *Service) New(r *http.Request) *Ajax {
	a := &Ajax{
		request:   r,
		connector: svc.config.Connector,
		renderer:  svc.config.Renderer,
		logger:    svc.config.Logger,
		tracer:    svc.tracer,
	}

	if svc.config.Dump {
		a.Dump(true)
	}

	return a
}

// Connector returns the connector shared by the service's helpers.
func (svc *Service) Connector() connector.Connector {
	return svc.config.Connector
}

// Renderer returns the configured renderer, which may be nil.
func (svc *Service) Renderer() Renderer {
	return svc.config.Renderer
}

func defaultLogger() Logger {
	return slog.Default().WithGroup("ajax")
}

func tracerFrom(tp trace.TracerProvider) trace.Tracer {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return tp.Tracer(instrumentationName)
}
