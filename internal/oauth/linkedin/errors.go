package linkedin

import "fmt"

// TokenExchangeError is returned by Exchange for any failure: non-2xx,
// missing access_token, transport error or timeout.
type TokenExchangeError struct {
	ProviderCode    string // e.g. "invalid_grant"
	ProviderMessage string // error_description when the provider sent one
	Status          int    // 0 when no HTTP response was received
	Err             error
}

func (e *TokenExchangeError) Error() string {
	msg := "linkedin: token exchange failed"
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.ProviderCode != "" {
		msg += ": " + e.ProviderCode
	}
	if e.ProviderMessage != "" {
		msg += ": " + e.ProviderMessage
	}
	if e.Err != nil && e.ProviderCode == "" && e.ProviderMessage == "" {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TokenExchangeError) Unwrap() error { return e.Err }

// ProfileFetchError is returned when the userinfo call fails or yields no subject.
type ProfileFetchError struct {
	Status int
	Err    error
}

func (e *ProfileFetchError) Error() string {
	msg := "linkedin: userinfo failed"
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProfileFetchError) Unwrap() error { return e.Err }
