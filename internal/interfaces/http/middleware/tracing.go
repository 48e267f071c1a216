package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/outfit/partner-api/internal/infrastructure/telemetry"
)

// MaxRequestIDLength caps the accepted X-Request-ID header so an oversized
// header cannot bloat span attributes.
const MaxRequestIDLength = 128

// TracingConfig configures the request tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName: "partner-api",
		Enabled:     true,
	}
}

// Tracing is TracingWithConfig with the defaults.
func Tracing() gin.HandlerFunc {
	return TracingWithConfig(DefaultTracingConfig())
}

// TracingWithConfig wraps otelgin, then annotates the server span with the
// request ID and the partner identity stamped by the API key middleware.
// Spans are named "METHOD route" by otelgin, e.g. "POST /v1/partner/search".
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return passthrough
	}

	otelMiddleware := otelgin.Middleware(cfg.ServiceName)

	return func(c *gin.Context) {
		otelMiddleware(c)

		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			annotateSpan(c, span)
		}
	}
}

// annotateSpan copies request and partner identity onto the span.
func annotateSpan(c *gin.Context, span trace.Span) {
	if requestID := requestIDFromRequest(c); requestID != "" {
		span.SetAttributes(attribute.String("request_id", requestID))
	}
	if partnerID := partnerIDFromContext(c); partnerID != "" {
		span.SetAttributes(attribute.String(telemetry.SpanAttrPartnerID, partnerID))
	}
	if partnerName := partnerNameFromContext(c); partnerName != "" {
		span.SetAttributes(attribute.String(telemetry.SpanAttrPartnerName, partnerName))
	}
}

// requestIDFromRequest prefers the ID assigned by the RequestID middleware
// and falls back to the caller's header, truncated to MaxRequestIDLength.
func requestIDFromRequest(c *gin.Context) string {
	if requestID, exists := c.Get("request_id"); exists {
		if id, ok := requestID.(string); ok && id != "" {
			return id
		}
	}

	headerID := c.GetHeader("X-Request-ID")
	if len(headerID) > MaxRequestIDLength {
		return headerID[:MaxRequestIDLength]
	}
	return headerID
}

// partnerNameFromContext reads the name set by the API key middleware.
// Only the verified credential populates it, so the value is trusted.
func partnerNameFromContext(c *gin.Context) string {
	if name, exists := c.Get(PartnerNameKey); exists {
		if n, ok := name.(string); ok {
			return n
		}
	}
	return ""
}

// SpanErrorMarker flips the span status to error on 4xx/5xx responses.
// Mount it after TracingWithConfig.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		statusCode := c.Writer.Status()
		if statusCode < http.StatusBadRequest {
			return
		}

		span.SetStatus(codes.Error, statusDescription(statusCode))
		span.SetAttributes(attribute.Int("http.status_code", statusCode))
	}
}

func statusDescription(statusCode int) string {
	switch {
	case statusCode >= http.StatusInternalServerError:
		return "Internal Server Error"
	case statusCode == http.StatusUnauthorized:
		return "Unauthorized"
	case statusCode == http.StatusForbidden:
		return "Forbidden"
	case statusCode == http.StatusNotFound:
		return "Not Found"
	default:
		return "Client Error"
	}
}

// TracingAttributeInjector re-annotates the active span after later
// middleware has run. Mount it after the API key middleware so the partner
// identity is available.
func TracingAttributeInjector() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			annotateSpan(c, span)
		}
		c.Next()
	}
}
