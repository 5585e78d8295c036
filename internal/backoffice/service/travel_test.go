package service_test

import (
	"testing"
	"time"

	"github.com/crewdesk/crewdesk/internal/backoffice/apperr"
	"github.com/crewdesk/crewdesk/internal/backoffice/service"
	"github.com/stretchr/testify/require"
)

func TestHashEstimator(t *testing.T) {
	t.Parallel()
	est := service.HashEstimator{}

	d1, err := est.Estimate("SW1A 1AA", "M1 1AE")
	require.NoError(t, err)
	require.GreaterOrEqual(t, d1, 10*time.Minute)
	require.LessOrEqual(t, d1, 2*time.Hour)

	// Deterministic, direction-independent, whitespace/case-insensitive.
	d2, err := est.Estimate("m1 1ae", "sw1a1aa")
	require.NoError(t, err)
	require.Equal(t, d1, d2)

	same, err := est.Estimate("SW1A 1AA", "sw1a 1aa")
	require.NoError(t, err)
	require.Zero(t, same)
}

func TestHashEstimatorValidation(t *testing.T) {
	t.Parallel()
	est := service.HashEstimator{}

	_, err := est.Estimate("", "M1 1AE")
	require.True(t, apperr.IsKind(err, apperr.Validation))

	_, err = est.Estimate("SW1A 1AA", "   ")
	require.True(t, apperr.IsKind(err, apperr.Validation))
}
