package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	svc "github.com/dropDatabas3/autolink/internal/http/services/health"
)

type staticHealth svc.Report

func (s staticHealth) Check(context.Context) svc.Report { return svc.Report(s) }

func TestHealth(t *testing.T) {
	for _, tc := range []struct {
		up   bool
		want string
	}{{true, "Connected"}, {false, "Disconnected"}} {
		rec := httptest.NewRecorder()
		NewHealthController(staticHealth{StorageUp: tc.up}).Health(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "OK", body["status"])
		assert.Equal(t, tc.want, body["storage"])
		_, hasCache := body["cache"]
		assert.False(t, hasCache)
	}
}
