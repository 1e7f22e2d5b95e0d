package logging

import (
	"context"
	"io"
	"log/slog"
)

type Environment string

const (
	EnvDev  Environment = "dev"
	EnvProd Environment = "prod"
)

// ServiceInfo identifies the running service in log records.
type ServiceInfo struct {
	Name     string
	Version  string
	Revision string
}

// Module labels a log record with the subsystem it came from.
type Module string

type contextKey int

const (
	requestIDKey contextKey = iota
	moduleKey
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

func WithModule(ctx context.Context, module Module) context.Context {
	return context.WithValue(ctx, moduleKey, module)
}

func ModuleFromContext(ctx context.Context) Module {
	if module, ok := ctx.Value(moduleKey).(Module); ok {
		return module
	}
	return ""
}

// NewHandler builds the service slog handler: JSON in prod, text in dev,
// with service identity attached and per-record request/trace context.
func NewHandler(w io.Writer, env Environment, info ServiceInfo, defaultModule Module, gcpProjectID string) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	if env == EnvDev {
		opts.Level = slog.LevelDebug
	}

	var base slog.Handler
	if env == EnvDev {
		base = slog.NewTextHandler(w, opts)
	} else {
		base = slog.NewJSONHandler(w, opts)
	}

	base = base.WithAttrs([]slog.Attr{
		slog.String("service", info.Name),
		slog.String("version", info.Version),
	})
	if info.Revision != "" {
		base = base.WithAttrs([]slog.Attr{slog.String("revision", info.Revision)})
	}

	return &contextHandler{
		inner:         base,
		defaultModule: defaultModule,
		gcpProjectID:  gcpProjectID,
	}
}

// contextHandler enriches each record with request-scoped attributes pulled
// from the context.
type contextHandler struct {
	inner         slog.Handler
	defaultModule Module
	gcpProjectID  string
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, record slog.Record) error {
	if requestID := RequestIDFromContext(ctx); requestID != "" {
		record.AddAttrs(slog.String("request_id", requestID))
	}

	module := ModuleFromContext(ctx)
	if module == "" {
		module = h.defaultModule
	}
	if module != "" {
		record.AddAttrs(slog.String("module", string(module)))
	}

	if attrs := gcpTraceAttrs(ctx, h.gcpProjectID); len(attrs) > 0 {
		record.AddAttrs(attrs...)
	}

	return h.inner.Handle(ctx, record)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{
		inner:         h.inner.WithAttrs(attrs),
		defaultModule: h.defaultModule,
		gcpProjectID:  h.gcpProjectID,
	}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{
		inner:         h.inner.WithGroup(name),
		defaultModule: h.defaultModule,
		gcpProjectID:  h.gcpProjectID,
	}
}
