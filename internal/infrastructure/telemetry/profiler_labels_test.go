package telemetry_test

import (
	"context"
	"runtime/pprof"
	"strings"
	"testing"

	"github.com/outfit/partner-api/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// labelsSeen runs WithProfilingLabels and captures the pprof labels the
// wrapped function actually observes.
func labelsSeen(t *testing.T, labels map[string]string) map[string]string {
	t.Helper()

	seen := make(map[string]string)
	called := false
	telemetry.WithProfilingLabels(context.Background(), labels, func(c context.Context) {
		called = true
		pprof.ForLabels(c, func(key, value string) bool {
			seen[key] = value
			return true
		})
	})
	require.True(t, called, "wrapped function must run")
	return seen
}

func TestWithProfilingLabels_EmptyLabels(t *testing.T) {
	for _, labels := range []map[string]string{nil, {}} {
		called := false
		telemetry.WithProfilingLabels(context.Background(), labels, func(c context.Context) {
			called = true
		})
		assert.True(t, called)
	}
}

func TestWithProfilingLabels_AttachesLabels(t *testing.T) {
	seen := labelsSeen(t, map[string]string{
		telemetry.ProfilingLabelController: "SearchHandler",
		telemetry.ProfilingLabelMethod:     "GET",
		telemetry.ProfilingLabelRoute:      "/v1/partner/search",
	})

	assert.Equal(t, "SearchHandler", seen["controller"])
	assert.Equal(t, "GET", seen["method"])
	assert.Equal(t, "/v1/partner/search", seen["route"])
}

func TestWithProfilingLabels_DropsHighCardinalityKeys(t *testing.T) {
	seen := labelsSeen(t, map[string]string{
		"controller": "SearchHandler",
		"agent_id":   "agent-123",
		"client_id":  "client-456",
		"request_id": "req-abc",
		"session_id": "sess-1",
		"trace_id":   "abcd",
		"span_id":    "ef01",
	})

	assert.Equal(t, "SearchHandler", seen["controller"])
	for _, key := range []string{"agent_id", "client_id", "request_id", "session_id", "trace_id", "span_id"} {
		_, present := seen[key]
		assert.False(t, present, "high-cardinality key %s must be dropped", key)
	}
}

func TestWithProfilingLabels_KeepsPartnerID(t *testing.T) {
	seen := labelsSeen(t, map[string]string{
		telemetry.ProfilingLabelPartnerID: "partner-123",
	})

	assert.Equal(t, "partner-123", seen["partner_id"])
}

func TestWithProfilingLabels_TruncatesLongValues(t *testing.T) {
	long := strings.Repeat("x", telemetry.MaxLabelValueLength+72)

	seen := labelsSeen(t, map[string]string{"controller": long})

	assert.Len(t, seen["controller"], telemetry.MaxLabelValueLength)
}

func TestWithProfilingLabels_DropsEmptyKeysAndValues(t *testing.T) {
	seen := labelsSeen(t, map[string]string{
		"controller": "SearchHandler",
		"method":     "",
		"":           "value",
	})

	assert.Equal(t, "SearchHandler", seen["controller"])
	_, present := seen["method"]
	assert.False(t, present)
}

func TestWithProfilingLabels_NormalizesKeys(t *testing.T) {
	seen := labelsSeen(t, map[string]string{
		"My Custom-Key": "value",
	})

	assert.Equal(t, "value", seen["my_custom_key"])
}

func TestWithProfilingLabels_AllLabelsSanitizedAway(t *testing.T) {
	called := false
	telemetry.WithProfilingLabels(context.Background(), map[string]string{
		"agent_id": "agent-123",
		"":         "value",
	}, func(c context.Context) {
		called = true
	})
	assert.True(t, called, "function still runs when every label is dropped")
}

func TestWithProfilingLabels_CallerMapNotRetained(t *testing.T) {
	labels := map[string]string{"controller": "SearchHandler"}

	telemetry.WithProfilingLabels(context.Background(), labels, func(c context.Context) {
		// Mutating the caller's map inside fn must not affect the
		// labels already attached.
		labels["controller"] = "Mutated"
		var got string
		pprof.ForLabels(c, func(key, value string) bool {
			if key == "controller" {
				got = value
			}
			return true
		})
		assert.Equal(t, "SearchHandler", got)
	})
}

func TestWithProfilingLabels_NestedScopes(t *testing.T) {
	outer := map[string]string{"controller": "SearchHandler"}
	inner := map[string]string{"route": "/v1/partner/search"}

	telemetry.WithProfilingLabels(context.Background(), outer, func(outerCtx context.Context) {
		telemetry.WithProfilingLabels(outerCtx, inner, func(innerCtx context.Context) {
			seen := make(map[string]string)
			pprof.ForLabels(innerCtx, func(key, value string) bool {
				seen[key] = value
				return true
			})
			assert.Equal(t, "SearchHandler", seen["controller"])
			assert.Equal(t, "/v1/partner/search", seen["route"])
		})
	})
}

func TestWithProfilingLabels_PreservesContextValues(t *testing.T) {
	type contextKey string
	key := contextKey("test-key")
	ctx := context.WithValue(context.Background(), key, "test-value")

	telemetry.WithProfilingLabels(ctx, map[string]string{"controller": "SearchHandler"}, func(c context.Context) {
		assert.Equal(t, "test-value", c.Value(key))
	})
}

func TestWithProfilingLabels_Concurrent(t *testing.T) {
	const goroutines = 10
	done := make(chan struct{}, goroutines)

	for range goroutines {
		go func() {
			telemetry.WithProfilingLabels(context.Background(), map[string]string{
				"controller": "SearchHandler",
			}, func(c context.Context) {})
			done <- struct{}{}
		}()
	}
	for range goroutines {
		<-done
	}
}
