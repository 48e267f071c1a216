package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// contextKey keeps the logger's context values from colliding with keys
// set by other packages.
type contextKey string

const (
	LoggerKey    contextKey = "logger"
	RequestIDKey contextKey = "request_id"
	// PartnerIDKey carries the authenticated partner's ID.
	PartnerIDKey contextKey = "partner_id"
	// AgentIDKey carries the partner agent acting on the request, when known.
	AgentIDKey contextKey = "partner_agent_id"
)

// WithContext attaches the logger to the context for later FromContext calls.
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext returns the context's logger. Contexts without one get a
// no-op logger so call sites never nil-check.
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithRequestID stores the request ID on the context and returns a logger
// that stamps it on every entry. WithPartnerID and WithAgentID work the
// same way for their identifiers.
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, RequestIDKey, requestID)
	enriched := logger.With(zap.String("request_id", requestID))
	return WithContext(ctx, enriched), enriched
}

func WithPartnerID(ctx context.Context, logger *zap.Logger, partnerID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, PartnerIDKey, partnerID)
	enriched := logger.With(zap.String("partner_id", partnerID))
	return WithContext(ctx, enriched), enriched
}

func WithAgentID(ctx context.Context, logger *zap.Logger, agentID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, AgentIDKey, agentID)
	enriched := logger.With(zap.String("partner_agent_id", agentID))
	return WithContext(ctx, enriched), enriched
}

// GetRequestID reads the request ID back out of the context, or "".
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

func GetPartnerID(ctx context.Context) string {
	if partnerID, ok := ctx.Value(PartnerIDKey).(string); ok {
		return partnerID
	}
	return ""
}

func GetAgentID(ctx context.Context) string {
	if agentID, ok := ctx.Value(AgentIDKey).(string); ok {
		return agentID
	}
	return ""
}

// GetTraceID returns the active span's trace ID, or "" when the context
// carries no valid span.
func GetTraceID(ctx context.Context) string {
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		return sc.TraceID().String()
	}
	return ""
}

// GetSpanID returns the active span's span ID, or "".
func GetSpanID(ctx context.Context) string {
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		return sc.SpanID().String()
	}
	return ""
}

// WithTraceContext stamps trace_id and span_id on the logger so log lines
// can be joined with traces in the collector. Without a valid span the
// logger comes back unchanged.
func WithTraceContext(ctx context.Context, logger *zap.Logger) *zap.Logger {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return logger
	}
	return logger.With(
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	)
}

// ContextLogger binds a context to a logger so every entry carries the
// request's correlation fields without the call site listing them.
type ContextLogger struct {
	ctx    context.Context
	logger *zap.Logger
}

// L is the usual entry point: logger.L(ctx).Info("Link created", ...).
// Entries pick up trace_id, span_id, request_id, partner_id, and
// partner_agent_id from whatever the context holds.
func L(ctx context.Context) *ContextLogger {
	return &ContextLogger{
		ctx:    ctx,
		logger: FromContext(ctx),
	}
}

// WithLogger is L with an explicit logger instead of the context's.
func WithLogger(ctx context.Context, logger *zap.Logger) *ContextLogger {
	return &ContextLogger{
		ctx:    ctx,
		logger: logger,
	}
}

func (cl *ContextLogger) enrichedLogger() *zap.Logger {
	l := cl.logger
	if l == nil {
		l = zap.NewNop()
	}
	l = WithTraceContext(cl.ctx, l)
	if requestID := GetRequestID(cl.ctx); requestID != "" {
		l = l.With(zap.String("request_id", requestID))
	}
	if partnerID := GetPartnerID(cl.ctx); partnerID != "" {
		l = l.With(zap.String("partner_id", partnerID))
	}
	if agentID := GetAgentID(cl.ctx); agentID != "" {
		l = l.With(zap.String("partner_agent_id", agentID))
	}
	return l
}

// With returns a child ContextLogger carrying extra fields.
func (cl *ContextLogger) With(fields ...zap.Field) *ContextLogger {
	return &ContextLogger{ctx: cl.ctx, logger: cl.logger.With(fields...)}
}

func (cl *ContextLogger) Debug(msg string, fields ...zap.Field) {
	cl.enrichedLogger().Debug(msg, fields...)
}

func (cl *ContextLogger) Info(msg string, fields ...zap.Field) {
	cl.enrichedLogger().Info(msg, fields...)
}

func (cl *ContextLogger) Warn(msg string, fields ...zap.Field) {
	cl.enrichedLogger().Warn(msg, fields...)
}

func (cl *ContextLogger) Error(msg string, fields ...zap.Field) {
	cl.enrichedLogger().Error(msg, fields...)
}

func (cl *ContextLogger) Fatal(msg string, fields ...zap.Field) {
	cl.enrichedLogger().Fatal(msg, fields...)
}

func (cl *ContextLogger) Panic(msg string, fields ...zap.Field) {
	cl.enrichedLogger().Panic(msg, fields...)
}

// Zap hands back the enriched *zap.Logger for APIs that want one directly.
func (cl *ContextLogger) Zap() *zap.Logger {
	return cl.enrichedLogger()
}

func (cl *ContextLogger) Sugar() *zap.SugaredLogger {
	return cl.enrichedLogger().Sugar()
}
