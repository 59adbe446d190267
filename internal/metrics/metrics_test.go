package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Idempotent(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))
	require.NoError(t, Register(reg))
}

func TestObserve(t *testing.T) {
	before := testutil.ToFloat64(OAuthCallbacks.WithLabelValues("error", "state_mismatch"))
	ObserveCallback(false, "state_mismatch")
	assert.Equal(t, before+1, testutil.ToFloat64(OAuthCallbacks.WithLabelValues("error", "state_mismatch")))

	before = testutil.ToFloat64(AutomationDispatch.WithLabelValues(DispatchRejected))
	ObserveDispatch(DispatchRejected)
	assert.Equal(t, before+1, testutil.ToFloat64(AutomationDispatch.WithLabelValues(DispatchRejected)))
}
