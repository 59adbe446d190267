package linkedin

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

// UserInfo is the OpenID Connect userinfo payload.
type UserInfo struct {
	Sub           string `json:"sub"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Locale        any    `json:"locale"`
}

// GetUserInfo fetches the member profile using the access token.
func (c *Client) GetUserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, c.userInfoTO)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userInfoURL, nil)
	if err != nil {
		return nil, &ProfileFetchError{Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &ProfileFetchError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &ProfileFetchError{Status: resp.StatusCode}
	}

	var info UserInfo
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&info); err != nil {
		return nil, &ProfileFetchError{Status: resp.StatusCode, Err: err}
	}
	info.Sub = strings.TrimSpace(info.Sub)
	if info.Sub == "" {
		return nil, &ProfileFetchError{Status: resp.StatusCode, Err: errors.New("missing sub")}
	}
	return &info, nil
}

// ResolveIdentity returns the stable LinkedIn subject for the token.
func (c *Client) ResolveIdentity(ctx context.Context, accessToken string) (string, error) {
	info, err := c.GetUserInfo(ctx, accessToken)
	if err != nil {
		return "", err
	}
	return info.Sub, nil
}
