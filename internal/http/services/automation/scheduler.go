package automation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/dropDatabas3/autolink/internal/metrics"
	"github.com/dropDatabas3/autolink/internal/observability/logger"
)

var (
	ErrSchedulerNotConfigured = errors.New("automation: make api key or scenario id missing")
	ErrInvalidSchedule        = errors.New("automation: invalid schedule")
)

// ScheduleEntry is one posting slot as the UI sends it.
type ScheduleEntry struct {
	Day  string `json:"day"`  // Monday..Sunday
	Time string `json:"time"` // HH:mm
}

// makeScheduling is the body of PATCH /scenarios/{id}/scheduling.
type makeScheduling struct {
	Type     string `json:"type"`
	Interval int    `json:"interval"`
	Days     []int  `json:"days"`
	Time     string `json:"time"`
}

const defaultScheduleTime = "09:00"

var (
	dayNumbers = map[string]int{
		"monday": 1, "tuesday": 2, "wednesday": 3, "thursday": 4,
		"friday": 5, "saturday": 6, "sunday": 7,
	}
	hhmm = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

type SchedulerDeps struct {
	APIURL     string // https://api.make.com/v2
	APIKey     string
	ScenarioID string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Scheduler pushes the posting days to the Make.com scenario scheduler.
type Scheduler struct {
	apiURL     string
	apiKey     string
	scenarioID string
	timeout    time.Duration
	http       *http.Client
}

func NewScheduler(d SchedulerDeps) *Scheduler {
	s := &Scheduler{
		apiURL:     strings.TrimRight(d.APIURL, "/"),
		apiKey:     d.APIKey,
		scenarioID: d.ScenarioID,
		timeout:    d.Timeout,
		http:       d.HTTPClient,
	}
	if s.apiURL == "" {
		s.apiURL = "https://api.make.com/v2"
	}
	if s.timeout <= 0 {
		s.timeout = 10 * time.Second
	}
	if s.http == nil {
		s.http = &http.Client{}
	}
	return s
}

// MakeDays maps weekday names to Make numbering (Mon=1 … Sun=7), unique and sorted.
func MakeDays(entries []ScheduleEntry) ([]int, error) {
	seen := map[int]bool{}
	days := []int{}
	for _, e := range entries {
		n, ok := dayNumbers[strings.ToLower(strings.TrimSpace(e.Day))]
		if !ok {
			return nil, fmt.Errorf("%w: unknown day %q", ErrInvalidSchedule, e.Day)
		}
		if !seen[n] {
			seen[n] = true
			days = append(days, n)
		}
	}
	sort.Ints(days)
	return days, nil
}

// Sync replaces the scenario schedule. Make takes a single time for all
// days, so the first entry's time wins.
func (s *Scheduler) Sync(ctx context.Context, entries []ScheduleEntry) error {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("automation.scheduler"))

	if s.apiKey == "" || s.scenarioID == "" {
		return ErrSchedulerNotConfigured
	}
	if len(entries) == 0 {
		return fmt.Errorf("%w: empty schedule", ErrInvalidSchedule)
	}
	days, err := MakeDays(entries)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.Time != "" && !hhmm.MatchString(e.Time) {
			return fmt.Errorf("%w: bad time %q", ErrInvalidSchedule, e.Time)
		}
	}
	at := entries[0].Time
	if at == "" {
		at = defaultScheduleTime
	}

	body, err := json.Marshal(makeScheduling{Type: "days_of_week", Interval: 1, Days: days, Time: at})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/scenarios/%s/scheduling", s.apiURL, s.scenarioID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Token "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		metrics.ObserveScheduleSync(false)
		log.Warn("make scheduling request failed", logger.Err(err))
		return fmt.Errorf("automation: make scheduling: %w", err)
	}
	defer resp.Body.Close()
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 2<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.ObserveScheduleSync(false)
		log.Warn("make scheduling rejected", logger.Status(resp.StatusCode), logger.String("body", string(snippet)))
		return fmt.Errorf("automation: make scheduling: status %d", resp.StatusCode)
	}

	metrics.ObserveScheduleSync(true)
	log.Info("make schedule synced", logger.Any("days", days), logger.String("time", at))
	return nil
}
