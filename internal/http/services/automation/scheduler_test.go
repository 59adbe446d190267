package automation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeDays(t *testing.T) {
	days, err := MakeDays([]ScheduleEntry{
		{Day: "Friday"}, {Day: "Monday"}, {Day: "wednesday"}, {Day: "Monday"}, {Day: "Sunday"},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 5, 7}, days)

	_, err = MakeDays([]ScheduleEntry{{Day: "Funday"}})
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestSync(t *testing.T) {
	var (
		gotPath, gotAuth, gotMethod string
		got                         makeScheduling
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotAuth, gotMethod = r.URL.Path, r.Header.Get("Authorization"), r.Method
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"scenario":{}}`))
	}))
	defer srv.Close()

	s := NewScheduler(SchedulerDeps{APIURL: srv.URL + "/v2/", APIKey: "mk", ScenarioID: "42", HTTPClient: srv.Client()})
	err := s.Sync(context.Background(), []ScheduleEntry{
		{Day: "Wednesday", Time: "14:30"},
		{Day: "Monday", Time: "08:00"},
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/v2/scenarios/42/scheduling", gotPath)
	assert.Equal(t, "Token mk", gotAuth)
	assert.Equal(t, makeScheduling{Type: "days_of_week", Interval: 1, Days: []int{1, 3}, Time: "14:30"}, got)
}

func TestSync_DefaultTime(t *testing.T) {
	var got makeScheduling
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
	}))
	defer srv.Close()

	s := NewScheduler(SchedulerDeps{APIURL: srv.URL, APIKey: "mk", ScenarioID: "1", HTTPClient: srv.Client()})
	require.NoError(t, s.Sync(context.Background(), []ScheduleEntry{{Day: "Monday"}}))
	assert.Equal(t, "09:00", got.Time)
}

func TestSync_Errors(t *testing.T) {
	ctx := context.Background()

	err := NewScheduler(SchedulerDeps{}).Sync(ctx, []ScheduleEntry{{Day: "Monday"}})
	assert.ErrorIs(t, err, ErrSchedulerNotConfigured)

	s := NewScheduler(SchedulerDeps{APIKey: "k", ScenarioID: "1"})
	assert.ErrorIs(t, s.Sync(ctx, nil), ErrInvalidSchedule)
	assert.ErrorIs(t, s.Sync(ctx, []ScheduleEntry{{Day: "Monday", Time: "25:00"}}), ErrInvalidSchedule)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()
	s = NewScheduler(SchedulerDeps{APIURL: srv.URL, APIKey: "bad", ScenarioID: "1", HTTPClient: srv.Client()})
	assert.Error(t, s.Sync(ctx, []ScheduleEntry{{Day: "Monday"}}))
}
