package automation

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/autolink/internal/store"
	"github.com/dropDatabas3/autolink/internal/store/memory"
)

type recordingTrigger struct {
	payloads []json.RawMessage
	err      error
}

func (r *recordingTrigger) Trigger(_ context.Context, p json.RawMessage) error {
	r.payloads = append(r.payloads, p)
	return r.err
}

func TestAgent_StartSendsProfileSnapshot(t *testing.T) {
	ctx := context.Background()
	profiles := memory.New()
	profiles.Seed(store.Profile{
		UserID:             "u_1",
		Email:              "ada@example.com",
		Role:               "Engineer",
		Skills:             []string{"go", "sql"},
		Topics:             []string{"oauth"},
		LinkedInProfileURL: "https://linkedin.com/in/ada",
		LinkedInToken:      "tok_abc",
		LinkedInConnected:  true,
	})
	trig := &recordingTrigger{}
	now := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)
	a := NewAgent(profiles, trig, func() time.Time { return now })

	require.NoError(t, a.Start(ctx, "u_1"))

	require.Len(t, trig.payloads, 1)
	var got Payload
	require.NoError(t, json.Unmarshal(trig.payloads[0], &got))
	assert.Equal(t, Payload{
		UserID:        "u_1",
		Email:         "ada@example.com",
		Role:          "Engineer",
		Skills:        []string{"go", "sql"},
		Topics:        []string{"oauth"},
		LinkedInURL:   "https://linkedin.com/in/ada",
		LinkedInToken: "tok_abc",
		Status:        "active",
		Timestamp:     "2025-02-03T04:05:06Z",
	}, got)

	st, err := a.Status(ctx, "u_1")
	require.NoError(t, err)
	assert.Equal(t, AgentRunning, st.Status)
	assert.True(t, st.Connected)
	require.NotNil(t, st.LastRun)
	assert.Equal(t, now, *st.LastRun)
}

func TestAgent_StartWithoutProfileUsesDefaults(t *testing.T) {
	trig := &recordingTrigger{}
	a := NewAgent(memory.New(), trig, nil)

	require.NoError(t, a.Start(context.Background(), "new-user"))

	var got Payload
	require.NoError(t, json.Unmarshal(trig.payloads[0], &got))
	assert.Equal(t, "Professional", got.Role)
	assert.Equal(t, []string{}, got.Skills)
}

func TestAgent_StopAndStatus(t *testing.T) {
	ctx := context.Background()
	profiles := memory.New()
	a := NewAgent(profiles, &recordingTrigger{}, nil)

	st, err := a.Status(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, AgentIdle, st.Status)

	require.NoError(t, a.Start(ctx, "u"))
	require.NoError(t, a.Stop(ctx, "u"))

	st, err = a.Status(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, AgentPaused, st.Status)
	assert.NotNil(t, st.LastRun)
}

func TestAgent_StartPropagatesDispatchError(t *testing.T) {
	a := NewAgent(memory.New(), NewProxy(ProxyDeps{}), nil)
	err := a.Start(context.Background(), "u")
	assert.ErrorIs(t, err, ErrDispatch)
}

func TestAgent_FailedStartKeepsStoredStatus(t *testing.T) {
	ctx := context.Background()
	profiles := memory.New()
	last := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	profiles.Seed(store.Profile{UserID: "u_paused", Status: store.StatusPaused, LastAgentRun: &last})
	a := NewAgent(profiles, NewProxy(ProxyDeps{}), nil)

	require.ErrorIs(t, a.Start(ctx, "u_new"), ErrDispatch)
	st, err := a.Status(ctx, "u_new")
	require.NoError(t, err)
	assert.Equal(t, AgentIdle, st.Status)

	require.ErrorIs(t, a.Start(ctx, "u_paused"), ErrDispatch)
	st, err = a.Status(ctx, "u_paused")
	require.NoError(t, err)
	assert.Equal(t, AgentPaused, st.Status)
	require.NotNil(t, st.LastRun)
	assert.True(t, last.Equal(*st.LastRun))
}
