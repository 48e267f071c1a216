package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace/noop"
)

func recordedTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	t.Cleanup(func() {
		_ = tp.Shutdown(t.Context())
	})

	return sr
}

// tracedRouter mounts the given middlewares ahead of a search endpoint that
// replies with the provided status.
func tracedRouter(status int, mws ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	for _, mw := range mws {
		router.Use(mw)
	}
	router.GET("/v1/partner/search", func(c *gin.Context) {
		c.JSON(status, gin.H{"status": status})
	})
	return router
}

func searchRequest(router *gin.Engine, header map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/v1/partner/search", nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	router.ServeHTTP(w, req)
	return w
}

func searchSpan(t *testing.T, sr *tracetest.SpanRecorder) sdktrace.ReadOnlySpan {
	t.Helper()

	for _, span := range sr.Ended() {
		if span.Name() == "GET /v1/partner/search" {
			return span
		}
	}
	t.Fatal("server span for GET /v1/partner/search not found")
	return nil
}

func spanAttrs(span sdktrace.ReadOnlySpan) map[string]string {
	attrs := make(map[string]string)
	for _, attr := range span.Attributes() {
		attrs[string(attr.Key)] = attr.Value.Emit()
	}
	return attrs
}

func TestTracingWithConfig_DisabledPassesThrough(t *testing.T) {
	sr := recordedTracer(t)
	router := tracedRouter(http.StatusOK, TracingWithConfig(TracingConfig{Enabled: false}))

	w := searchRequest(router, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, sr.Ended())
}

func TestTracingWithConfig_CreatesServerSpan(t *testing.T) {
	sr := recordedTracer(t)
	router := tracedRouter(http.StatusOK, TracingWithConfig(TracingConfig{Enabled: true, ServiceName: "partner-api"}))

	w := searchRequest(router, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	searchSpan(t, sr)
}

func TestTracingWithConfig_RequestIDAttribute(t *testing.T) {
	sr := recordedTracer(t)
	router := tracedRouter(http.StatusOK,
		RequestID(),
		TracingWithConfig(TracingConfig{Enabled: true, ServiceName: "partner-api"}),
		TracingAttributeInjector(),
	)

	w := searchRequest(router, map[string]string{"X-Request-ID": "req-trace-123"})
	assert.Equal(t, http.StatusOK, w.Code)

	attrs := spanAttrs(searchSpan(t, sr))
	assert.Equal(t, "req-trace-123", attrs["request_id"])
}

func TestTracingWithConfig_PartnerAttributes(t *testing.T) {
	sr := recordedTracer(t)
	stampPartner := func(c *gin.Context) {
		c.Set(PartnerIDKey, "partner-123")
		c.Set(PartnerNameKey, "TravelPort")
		c.Next()
	}
	router := tracedRouter(http.StatusOK,
		TracingWithConfig(TracingConfig{Enabled: true, ServiceName: "partner-api"}),
		stampPartner,
		TracingAttributeInjector(),
	)

	w := searchRequest(router, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	attrs := spanAttrs(searchSpan(t, sr))
	assert.Equal(t, "partner-123", attrs["partner_id"])
	assert.Equal(t, "TravelPort", attrs["partner_name"])
}

func TestSpanErrorMarker(t *testing.T) {
	tests := []struct {
		name            string
		status          int
		wantErr         bool
		wantDescription string
	}{
		{"success stays unset", http.StatusOK, false, ""},
		{"bad request", http.StatusBadRequest, true, "Client Error"},
		{"unauthorized", http.StatusUnauthorized, true, "Unauthorized"},
		{"forbidden", http.StatusForbidden, true, "Forbidden"},
		{"not found", http.StatusNotFound, true, "Not Found"},
		{"server error", http.StatusInternalServerError, true, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sr := recordedTracer(t)
			router := tracedRouter(tt.status,
				TracingWithConfig(TracingConfig{Enabled: true, ServiceName: "partner-api"}),
				SpanErrorMarker(),
			)

			w := searchRequest(router, nil)
			require.Equal(t, tt.status, w.Code)

			span := searchSpan(t, sr)
			if !tt.wantErr {
				assert.NotEqual(t, codes.Error, span.Status().Code)
				return
			}
			assert.Equal(t, codes.Error, span.Status().Code)
			assert.Equal(t, tt.wantDescription, span.Status().Description)
		})
	}
}

func TestSpanErrorMarker_NoRecordingSpan(t *testing.T) {
	otel.SetTracerProvider(noop.NewTracerProvider())

	router := tracedRouter(http.StatusInternalServerError, SpanErrorMarker())
	w := searchRequest(router, nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestTracingAttributeInjector_NoRecordingSpan(t *testing.T) {
	otel.SetTracerProvider(noop.NewTracerProvider())

	router := tracedRouter(http.StatusOK, TracingAttributeInjector())
	w := searchRequest(router, nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTracing_DefaultConfig(t *testing.T) {
	sr := recordedTracer(t)
	router := tracedRouter(http.StatusOK, Tracing())

	w := searchRequest(router, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.GreaterOrEqual(t, len(sr.Ended()), 1)
}

func TestDefaultTracingConfig(t *testing.T) {
	cfg := DefaultTracingConfig()

	assert.Equal(t, "partner-api", cfg.ServiceName)
	assert.True(t, cfg.Enabled)
}

func TestRequestIDFromRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)

	run := func(setup gin.HandlerFunc, header string) string {
		var got string
		router := gin.New()
		if setup != nil {
			router.Use(setup)
		}
		router.GET("/v1/partner/search", func(c *gin.Context) {
			got = requestIDFromRequest(c)
			c.Status(http.StatusOK)
		})
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/v1/partner/search", nil)
		if header != "" {
			req.Header.Set("X-Request-ID", header)
		}
		router.ServeHTTP(w, req)
		return got
	}

	t.Run("context value wins", func(t *testing.T) {
		setContext := func(c *gin.Context) {
			c.Set("request_id", "from-context")
			c.Next()
		}
		assert.Equal(t, "from-context", run(setContext, "from-header"))
	})

	t.Run("falls back to header", func(t *testing.T) {
		assert.Equal(t, "from-header", run(nil, "from-header"))
	})

	t.Run("oversized header truncated", func(t *testing.T) {
		long := strings.Repeat("b", MaxRequestIDLength+73)
		assert.Len(t, run(nil, long), MaxRequestIDLength)
	})
}

func TestPartnerNameFromContext(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{"name set", "TravelPort", "TravelPort"},
		{"not set", nil, ""},
		{"wrong type", 42, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			router := gin.New()
			if tt.value != nil {
				value := tt.value
				router.Use(func(c *gin.Context) {
					c.Set(PartnerNameKey, value)
					c.Next()
				})
			}
			router.GET("/v1/partner/search", func(c *gin.Context) {
				got = partnerNameFromContext(c)
				c.Status(http.StatusOK)
			})
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/v1/partner/search", nil)
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.want, got)
		})
	}
}
