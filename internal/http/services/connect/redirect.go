package connect

import (
	"net/url"
	"strings"
)

// RedirectBuilder produces the settings-page targets for callback outcomes.
// The base may contain a hash route (…/#/app/settings); the query is
// appended verbatim so the SPA router sees it.
type RedirectBuilder struct {
	base string
}

func NewRedirectBuilder(settingsURL string) RedirectBuilder {
	return RedirectBuilder{base: settingsURL}
}

func (b RedirectBuilder) Success() string {
	return b.with(url.Values{"success": {"true"}})
}

func (b RedirectBuilder) Error(code, msg string) string {
	return b.with(url.Values{"error": {code}, "msg": {msg}})
}

// For picks the target for an outcome.
func (b RedirectBuilder) For(o Outcome) string {
	if o.Success {
		return b.Success()
	}
	return b.Error(o.Code, o.Message)
}

func (b RedirectBuilder) with(q url.Values) string {
	sep := "?"
	if strings.Contains(b.base, "?") {
		sep = "&"
	}
	return b.base + sep + q.Encode()
}
