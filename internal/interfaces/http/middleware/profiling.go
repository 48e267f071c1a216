// Package middleware provides HTTP middleware for the partner API.
package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/outfit/partner-api/internal/infrastructure/telemetry"
)

// ProfilingConfig controls which requests get Pyroscope labels attached.
type ProfilingConfig struct {
	Enabled bool
	// SkipPaths and SkipPathPrefixes exclude probes and docs endpoints
	// whose profiles are never interesting.
	SkipPaths        []string
	SkipPathPrefixes []string
}

// DefaultProfilingConfig skips health probes, metrics, and the docs surface.
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled:          true,
		SkipPaths:        []string{"/health", "/healthz", "/ready", "/metrics"},
		SkipPathPrefixes: []string{"/swagger", "/api-docs"},
	}
}

// ProfilingWithConfig tags each request's goroutines with Pyroscope labels
// (controller, route, method, partner_id) so CPU profiles can be sliced by
// endpoint and by partner. Mount it after the API key middleware so the
// partner ID is available.
func ProfilingWithConfig(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return passthrough
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if path == skip {
				c.Next()
				return
			}
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		telemetry.WithProfilingLabels(c.Request.Context(), profilingLabels(c), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// profilingLabels picks the low-cardinality request dimensions. The route
// pattern is used rather than the raw path so /partners/:id stays one label
// value no matter how many partners exist.
func profilingLabels(c *gin.Context) map[string]string {
	labels := make(map[string]string, 4)

	if method := c.Request.Method; method != "" {
		labels[telemetry.ProfilingLabelMethod] = method
	}

	route := c.FullPath()
	if route != "" {
		labels[telemetry.ProfilingLabelRoute] = route
	}
	if resource := resourceFromRoute(route); resource != "" {
		labels[telemetry.ProfilingLabelController] = resource
	}

	if partnerID := partnerIDFromContext(c); partnerID != "" {
		labels[telemetry.ProfilingLabelPartnerID] = partnerID
	}

	return labels
}

// resourceFromRoute names the resource a route serves:
// "/v1/admin/partners/:id" is "partners", "/v1/partner/search" is "search".
// Version and surface segments (v1, partner, admin) are skipped.
func resourceFromRoute(route string) string {
	for _, part := range strings.Split(route, "/") {
		if part == "" || part == "partner" || part == "admin" || apiVersionSegment(part) {
			continue
		}
		if strings.HasPrefix(part, ":") || strings.HasPrefix(part, "{") {
			continue
		}
		return part
	}
	return ""
}

func apiVersionSegment(segment string) bool {
	if len(segment) < 2 || (segment[0] != 'v' && segment[0] != 'V') {
		return false
	}
	for i := 1; i < len(segment); i++ {
		if segment[i] < '0' || segment[i] > '9' {
			return false
		}
	}
	return true
}
