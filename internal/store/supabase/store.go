// Package supabase implements the store on the Supabase PostgREST API, using
// the service-role key. It is the backend the hosted deployment writes to.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dropDatabas3/autolink/internal/store"
)

type Options struct {
	URL        string // https://<project>.supabase.co
	ServiceKey string
	Table      string // default "profiles"
	Timeout    time.Duration
	HTTPClient *http.Client
}

type Store struct {
	base    string
	key     string
	table   string
	timeout time.Duration
	http    *http.Client
}

var _ store.Store = (*Store)(nil)

func New(o Options) *Store {
	if o.Table == "" {
		o.Table = "profiles"
	}
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{}
	}
	return &Store{
		base:    strings.TrimRight(o.URL, "/") + "/rest/v1/",
		key:     o.ServiceKey,
		table:   o.Table,
		timeout: o.Timeout,
		http:    o.HTTPClient,
	}
}

// row is the profiles row as PostgREST serializes it.
type row struct {
	UserID                 string     `json:"user_id"`
	Email                  *string    `json:"email"`
	Role                   *string    `json:"role"`
	Skills                 *string    `json:"skills"`
	Topics                 *string    `json:"topics"`
	LinkedInProfileURL     *string    `json:"linkedin_profile_url"`
	LinkedInToken          *string    `json:"linkedin_token"`
	LinkedInProfileID      *string    `json:"linkedin_profile_id"`
	LinkedInConnected      *bool      `json:"linkedin_connected"`
	LinkedInTokenExpiresAt *time.Time `json:"linkedin_token_expires_at"`
	Status                 *string    `json:"status"`
	LastAgentRun           *time.Time `json:"last_agent_run"`
	UpdatedAt              *time.Time `json:"updated_at"`
}

func (s *Store) UpsertCredential(ctx context.Context, c store.Credential) error {
	c.Connected = true
	if err := c.Validate(); err != nil {
		return err
	}
	body := map[string]any{
		"user_id":                   c.UserID,
		"linkedin_token":            c.AccessToken,
		"linkedin_profile_id":       c.ExternalProfileID,
		"linkedin_connected":        true,
		"linkedin_token_expires_at": c.TokenExpiresAt.UTC().Format(time.RFC3339),
	}
	q := url.Values{"on_conflict": {"user_id"}}
	err := s.do(ctx, http.MethodPost, q, body, "resolution=merge-duplicates,return=minimal", nil)
	return store.Wrap("upsert_credential", err)
}

func (s *Store) Disconnect(ctx context.Context, userID string) error {
	body := map[string]any{
		"linkedin_connected":        false,
		"linkedin_token":            nil,
		"linkedin_token_expires_at": nil,
	}
	err := s.do(ctx, http.MethodPatch, eqUser(userID), body, "return=minimal", nil)
	return store.Wrap("disconnect", err)
}

func (s *Store) GetProfile(ctx context.Context, userID string) (*store.Profile, error) {
	q := eqUser(userID)
	q.Set("select", "*")
	q.Set("limit", "1")

	var rows []row
	if err := s.do(ctx, http.MethodGet, q, nil, "", &rows); err != nil {
		return nil, store.Wrap("get_profile", err)
	}
	if len(rows) == 0 {
		return nil, store.ErrNotFound
	}
	return rows[0].profile(), nil
}

func (s *Store) SetAgentStatus(ctx context.Context, userID, status string, lastRun *time.Time) error {
	body := map[string]any{"status": status}
	if lastRun != nil {
		body["last_agent_run"] = lastRun.UTC().Format(time.RFC3339)
	}
	err := s.do(ctx, http.MethodPatch, eqUser(userID), body, "return=minimal", nil)
	return store.Wrap("set_agent_status", err)
}

func (s *Store) Ping(ctx context.Context) error {
	q := url.Values{"select": {"user_id"}, "limit": {"1"}}
	var rows []row
	return s.do(ctx, http.MethodGet, q, nil, "", &rows)
}

func (s *Store) Close() { s.http.CloseIdleConnections() }

func eqUser(userID string) url.Values {
	return url.Values{"user_id": {"eq." + userID}}
}

// APIError is a non-2xx PostgREST response.
type APIError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("postgrest: status %d: %s %s", e.Status, e.Code, e.Message)
}

func (s *Store) do(ctx context.Context, method string, q url.Values, body any, prefer string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.base+s.table+"?"+q.Encode(), rd)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", s.key)
	req.Header.Set("Authorization", "Bearer "+s.key)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(apiErr)
		return apiErr
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(out)
}

func (r row) profile() *store.Profile {
	p := &store.Profile{
		UserID:             r.UserID,
		Email:              str(r.Email),
		Role:               str(r.Role),
		Skills:             store.SplitList(str(r.Skills)),
		Topics:             store.SplitList(str(r.Topics)),
		LinkedInProfileURL: str(r.LinkedInProfileURL),
		LinkedInToken:      str(r.LinkedInToken),
		LinkedInProfileID:  str(r.LinkedInProfileID),
		TokenExpiresAt:     r.LinkedInTokenExpiresAt,
		Status:             str(r.Status),
		LastAgentRun:       r.LastAgentRun,
	}
	if r.LinkedInConnected != nil {
		p.LinkedInConnected = *r.LinkedInConnected
	}
	if r.UpdatedAt != nil {
		p.UpdatedAt = *r.UpdatedAt
	}
	return p
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
