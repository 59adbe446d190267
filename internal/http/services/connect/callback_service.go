// Package connect holds the LinkedIn connect flow: the authorize step, the
// callback orchestrator and disconnect.
package connect

import (
	"context"
	"errors"
	"fmt"

	"github.com/dropDatabas3/autolink/internal/oauth/linkedin"
)

// TokenExchanger trades an authorization code for a token.
type TokenExchanger interface {
	Exchange(ctx context.Context, code, redirectURI string) (*linkedin.Token, error)
}

// IdentityResolver maps an access token to the provider subject id.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, accessToken string) (string, error)
}

// AutomationStarter is notified after a successful connect. Failures never
// change the callback outcome.
type AutomationStarter interface {
	Start(ctx context.Context, userID string) error
}

// CallbackRequest carries the query parameters of the provider redirect.
type CallbackRequest struct {
	Code             string
	State            string
	Error            string
	ErrorDescription string
	// CookieNonce is the nonce from the li_auth_state cookie, when the browser sent one.
	CookieNonce string
}

// Stage of the callback state machine.
type Stage int

const (
	StageReceived Stage = iota
	StageStateValidated
	StageExchanged
	StageResolved
	StagePersisted
	StageTerminal
)

func (s Stage) String() string {
	switch s {
	case StageReceived:
		return "received"
	case StageStateValidated:
		return "state_validated"
	case StageExchanged:
		return "exchanged"
	case StageResolved:
		return "resolved"
	case StagePersisted:
		return "persisted"
	case StageTerminal:
		return "terminal"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Outcome is the terminal result of a callback.
type Outcome struct {
	// Stage is the last stage the flow completed before terminating.
	Stage   Stage
	Success bool
	// Code is the machine-readable error code sent to the UI; empty on success.
	Code string
	// Message is user-facing and never carries secrets.
	Message string
	UserID  string
	// Err is the full cause, for server logs only.
	Err error
}

// Error codes sent in the redirect `error` parameter. Provider error values
// (access_denied, user_cancelled_login, ...) are passed through as-is.
const (
	CodeMissingCode    = "missing_code"
	CodeStateMismatch  = "state_mismatch"
	CodeExchangeFailed = "exchange_failed"
	CodeInvalidRequest = "invalid_request"
)

// User-facing messages.
const (
	MsgProviderDenied  = "LinkedIn authorization was not granted."
	MsgMissingCode     = "No authorization code received from LinkedIn."
	MsgStateMismatch   = "Security validation failed (State mismatch)."
	MsgExchangeFailed  = "Failed to exchange authorization code."
	MsgProfileFailed   = "Failed to fetch LinkedIn profile."
	MsgPersistFailed   = "Failed to save LinkedIn connection."
	MsgRedirectInvalid = "redirect_uri is not allowed."
)

// Errors for callback service.
var (
	ErrMissingCode        = errors.New("missing code")
	ErrStateMismatch      = errors.New("state mismatch")
	ErrRedirectNotAllowed = errors.New("redirect_uri not allowed")
	ErrMissingUser        = errors.New("missing user id")
)

// ProviderDeniedError is the provider's own error (user declined, ...).
type ProviderDeniedError struct {
	Code        string
	Description string
}

func (e *ProviderDeniedError) Error() string {
	if e.Description == "" {
		return "provider denied: " + e.Code
	}
	return "provider denied: " + e.Code + ": " + e.Description
}
