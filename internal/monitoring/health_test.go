package monitoring

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func upCheck(name string) Check {
	return NewCheck(name, func(context.Context) ProbeResult {
		return ProbeResult{Status: StatusUp}
	})
}

func TestHealthManager_AllUp(t *testing.T) {
	m := NewHealthManager()
	m.RegisterReadiness(upCheck("database"))
	m.RegisterReadiness(upCheck("cache"))

	report := m.EvaluateReadiness(context.Background())
	require.True(t, report.Success)
	require.Equal(t, StatusUp, report.Status)
	require.Len(t, report.Checks, 2)
	require.Equal(t, "database", report.Checks[0].Component)
}

func TestHealthManager_SingleFailureAggregates(t *testing.T) {
	m := NewHealthManager()
	m.RegisterReadiness(upCheck("database"))
	m.RegisterReadiness(NewCheck("cache", func(context.Context) ProbeResult {
		return ProbeResult{Status: StatusDown, Details: "connection refused"}
	}))

	report := m.EvaluateReadiness(context.Background())
	require.False(t, report.Success)
	require.Equal(t, StatusDown, report.Status)
}

func TestHealthManager_DegradedDoesNotMaskDown(t *testing.T) {
	m := NewHealthManager()
	m.RegisterReadiness(NewCheck("database", func(context.Context) ProbeResult {
		return ProbeResult{Status: StatusDown}
	}))
	m.RegisterReadiness(NewCheck("cache", func(context.Context) ProbeResult {
		return ProbeResult{Status: StatusDegraded}
	}))

	report := m.EvaluateReadiness(context.Background())
	require.Equal(t, StatusDown, report.Status)
}

func TestResultFromError(t *testing.T) {
	ok := ResultFromError("database", nil, 0)
	require.Equal(t, StatusUp, ok.Status)

	down := ResultFromError("cache", errors.New("boom"), 0)
	require.Equal(t, StatusDown, down.Status)
	require.Equal(t, "boom", down.Details)

	degraded := ResultFromError("cache", context.DeadlineExceeded, 0)
	require.Equal(t, StatusDegraded, degraded.Status)
}
