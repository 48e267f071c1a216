package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/outfit/partner-api/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
)

func TestNewLinkingMetrics(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")

	lm, err := telemetry.NewLinkingMetrics(telemetry.LinkingMetricsConfig{
		Meter:  meter,
		Logger: zap.NewNop(),
	})

	require.NoError(t, err)
	require.NotNil(t, lm)
}

func TestNewLinkingMetrics_NilMeter(t *testing.T) {
	lm, err := telemetry.NewLinkingMetrics(telemetry.LinkingMetricsConfig{
		Meter:  nil,
		Logger: zap.NewNop(),
	})

	require.Error(t, err)
	assert.Nil(t, lm)
	assert.Equal(t, "NewLinkingMetrics: meter cannot be nil", err.Error())
}

func TestLinkingMetrics_RecordAgentLinked(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	lm, err := telemetry.NewLinkingMetrics(telemetry.LinkingMetricsConfig{
		Meter: meter,
	})
	require.NoError(t, err)

	ctx := context.Background()

	// Should not panic
	lm.RecordAgentLinked(ctx, true)
	lm.RecordAgentLinked(ctx, false)
}

func TestLinkingMetrics_RecordClientLinked(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	lm, err := telemetry.NewLinkingMetrics(telemetry.LinkingMetricsConfig{
		Meter: meter,
	})
	require.NoError(t, err)

	ctx := context.Background()

	// Should not panic
	lm.RecordClientLinked(ctx, "auto", 0.97)
	lm.RecordClientLinked(ctx, "manual", 0.72)
	lm.RecordClientLinked(ctx, "created", 0)
}

func TestLinkingMetrics_RecordClientLinkPendingAndExpired(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	lm, err := telemetry.NewLinkingMetrics(telemetry.LinkingMetricsConfig{
		Meter: meter,
	})
	require.NoError(t, err)

	ctx := context.Background()

	// Should not panic
	lm.RecordClientLinkPending(ctx)
	lm.RecordClientLinkExpired(ctx)
}

func TestLinkingMetrics_RecordSearchSession(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	lm, err := telemetry.NewLinkingMetrics(telemetry.LinkingMetricsConfig{
		Meter: meter,
	})
	require.NoError(t, err)

	ctx := context.Background()

	// Should not panic
	lm.RecordSearchSession(ctx, true)
	lm.RecordSearchSession(ctx, false)
}

func TestLinkingMetrics_RecordPendingClientLinks(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	lm, err := telemetry.NewLinkingMetrics(telemetry.LinkingMetricsConfig{
		Meter: meter,
	})
	require.NoError(t, err)

	ctx := context.Background()
	partnerID := uuid.New()

	// Should not panic
	lm.RecordPendingClientLinks(ctx, partnerID, 12)
	lm.RecordPendingClientLinks(ctx, partnerID, 3)
}

func TestLinkingMetrics_RecordActiveSearchSessions(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	lm, err := telemetry.NewLinkingMetrics(telemetry.LinkingMetricsConfig{
		Meter: meter,
	})
	require.NoError(t, err)

	ctx := context.Background()

	// Should not panic
	lm.RecordActiveSearchSessions(ctx, 42)
	lm.RecordActiveSearchSessions(ctx, 0)
}

// Mock implementation for testing periodic collection

type mockLinkStoreProvider struct {
	pendingByPartner map[uuid.UUID]int64
	activeSessions   int64
	err              error
}

func (m *mockLinkStoreProvider) CountPendingClientLinksByPartner(ctx context.Context) (map[uuid.UUID]int64, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.pendingByPartner, nil
}

func (m *mockLinkStoreProvider) CountActiveSearchSessions(ctx context.Context) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.activeSessions, nil
}

func TestLinkingMetrics_PeriodicCollection(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")

	partnerID := uuid.New()
	provider := &mockLinkStoreProvider{
		pendingByPartner: map[uuid.UUID]int64{
			partnerID: 7,
		},
		activeSessions: 3,
	}

	lm, err := telemetry.NewLinkingMetrics(telemetry.LinkingMetricsConfig{
		Meter:             meter,
		Logger:            zap.NewNop(),
		LinkStoreProvider: provider,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start periodic collection with short interval for testing
	lm.StartPeriodicCollection(ctx, 100*time.Millisecond)

	// Wait for at least one collection cycle
	time.Sleep(150 * time.Millisecond)

	// Stop collection
	lm.Stop()

	// Should complete without error
}

func TestLinkingMetrics_PeriodicCollection_NoProvider(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")

	lm, err := telemetry.NewLinkingMetrics(telemetry.LinkingMetricsConfig{
		Meter:  meter,
		Logger: zap.NewNop(),
		// No link store provider
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Should not panic with no link store provider
	lm.StartPeriodicCollection(ctx, 50*time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	lm.Stop()
}

func TestLinkingMetrics_Stop_Idempotent(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	lm, err := telemetry.NewLinkingMetrics(telemetry.LinkingMetricsConfig{
		Meter: meter,
	})
	require.NoError(t, err)

	// Calling Stop multiple times should not panic
	lm.Stop()
	lm.Stop()
	lm.Stop()
}

func TestLinkingMetrics_StartPeriodicCollection_OnlyOnce(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	lm, err := telemetry.NewLinkingMetrics(telemetry.LinkingMetricsConfig{
		Meter:  meter,
		Logger: zap.NewNop(),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Calling StartPeriodicCollection multiple times should only start once
	lm.StartPeriodicCollection(ctx, time.Hour)
	lm.StartPeriodicCollection(ctx, time.Minute)
	lm.StartPeriodicCollection(ctx, time.Second)

	lm.Stop()
}

func TestMetricsError_Error(t *testing.T) {
	err := &telemetry.MetricsError{
		Op:  "TestOperation",
		Err: "test error message",
	}

	assert.Equal(t, "TestOperation: test error message", err.Error())
}
