// Package linkedin implements the LinkedIn OAuth 2.0 / OpenID Connect client:
// authorization URL, code exchange and the userinfo lookup that yields the
// member's stable subject id.
package linkedin

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

const (
	DefaultAuthURL     = "https://www.linkedin.com/oauth/v2/authorization"
	DefaultTokenURL    = "https://www.linkedin.com/oauth/v2/accessToken"
	DefaultUserInfoURL = "https://api.linkedin.com/v2/userinfo"
)

// DefaultScopes are requested when Options.Scopes is empty.
var DefaultScopes = []string{"openid", "profile", "email", "w_member_social"}

// Options configures a Client. Zero values fall back to LinkedIn defaults.
type Options struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scopes       []string

	AuthURL     string
	TokenURL    string
	UserInfoURL string

	TokenTimeout    time.Duration
	UserInfoTimeout time.Duration

	// HTTPClient is used for both the token and userinfo calls.
	HTTPClient *http.Client
}

// Token is the result of a successful code exchange.
type Token struct {
	AccessToken string
	ExpiresIn   int64 // seconds
}

// Client is the LinkedIn OAuth client.
type Client struct {
	cfg         oauth2.Config
	userInfoURL string
	tokenTO     time.Duration
	userInfoTO  time.Duration
	http        *http.Client
}

// New creates a LinkedIn client.
func New(o Options) *Client {
	if len(o.Scopes) == 0 {
		o.Scopes = DefaultScopes
	}
	if o.AuthURL == "" {
		o.AuthURL = DefaultAuthURL
	}
	if o.TokenURL == "" {
		o.TokenURL = DefaultTokenURL
	}
	if o.UserInfoURL == "" {
		o.UserInfoURL = DefaultUserInfoURL
	}
	if o.TokenTimeout <= 0 {
		o.TokenTimeout = 10 * time.Second
	}
	if o.UserInfoTimeout <= 0 {
		o.UserInfoTimeout = 10 * time.Second
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{}
	}

	return &Client{
		cfg: oauth2.Config{
			ClientID:     o.ClientID,
			ClientSecret: o.ClientSecret,
			RedirectURL:  o.RedirectURI,
			Scopes:       o.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  o.AuthURL,
				TokenURL: o.TokenURL,
				// LinkedIn only accepts client credentials in the form body.
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		userInfoURL: o.UserInfoURL,
		tokenTO:     o.TokenTimeout,
		userInfoTO:  o.UserInfoTimeout,
		http:        o.HTTPClient,
	}
}

// RedirectURI returns the configured callback URI.
func (c *Client) RedirectURI() string { return c.cfg.RedirectURL }

// AuthURL builds the provider authorization URL for the given state value.
func (c *Client) AuthURL(state string) string {
	return c.cfg.AuthCodeURL(state)
}

// Exchange trades an authorization code for an access token. redirectURI
// overrides the configured one when non-empty; it must match the value used
// at authorization time. Codes are single-use so this is never retried.
func (c *Client) Exchange(ctx context.Context, code, redirectURI string) (*Token, error) {
	ctx, cancel := context.WithTimeout(ctx, c.tokenTO)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)

	var opts []oauth2.AuthCodeOption
	if redirectURI != "" {
		opts = append(opts, oauth2.SetAuthURLParam("redirect_uri", redirectURI))
	}

	tok, err := c.cfg.Exchange(ctx, code, opts...)
	if err != nil {
		return nil, exchangeError(ctx, err)
	}
	if tok.AccessToken == "" {
		return nil, &TokenExchangeError{ProviderMessage: "missing access_token"}
	}

	expiresIn := tok.ExpiresIn
	if expiresIn == 0 && !tok.Expiry.IsZero() {
		expiresIn = int64(time.Until(tok.Expiry).Round(time.Second) / time.Second)
	}
	return &Token{AccessToken: tok.AccessToken, ExpiresIn: expiresIn}, nil
}

func exchangeError(ctx context.Context, err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		te := &TokenExchangeError{
			ProviderCode:    re.ErrorCode,
			ProviderMessage: re.ErrorDescription,
			Err:             err,
		}
		if re.Response != nil {
			te.Status = re.Response.StatusCode
		}
		return te
	}
	if ctx.Err() != nil {
		return &TokenExchangeError{ProviderMessage: "token endpoint timed out", Err: err}
	}
	return &TokenExchangeError{Err: err}
}
