// Package connect contiene DTOs del flujo de conexión con LinkedIn.
package connect

// AuthorizeResponse is returned by GET /api/linkedin/authorize.
type AuthorizeResponse struct {
	URL string `json:"url"`
}

// ExchangeRequest represents the body of POST /api/linkedin/exchange.
type ExchangeRequest struct {
	Code string `json:"code"`
	// RedirectURI must match the one used in the authorize step.
	RedirectURI string `json:"redirect_uri,omitempty"`
}

// ResultResponse is the {success, error} envelope the settings page expects.
type ResultResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
