package helpers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadJSON(t *testing.T) {
	var v struct {
		Code string `json:"code"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"code":"abc","extra":1}`))
	r.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	assert.True(t, ReadJSON(rec, r, &v))
	assert.Equal(t, "abc", v.Code)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	r.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	assert.False(t, ReadJSON(rec, r, &v))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	r.Header.Set("Content-Type", "text/plain")
	rec = httptest.NewRecorder()
	assert.False(t, ReadJSON(rec, r, &v))
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestReadJSON_TooLarge(t *testing.T) {
	body := `{"code":"` + strings.Repeat("a", MaxBodyBytes) + `"}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	var v map[string]string
	assert.False(t, ReadJSON(rec, r, &v))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestStateCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	SetStateCookie(rec, "li_auth_state", "n1", 600e9, true)

	c := rec.Result().Cookies()[0]
	assert.Equal(t, "li_auth_state", c.Name)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, 600, c.MaxAge)

	r := httptest.NewRequest(http.MethodGet, "/api/linkedin/callback", nil)
	r.AddCookie(c)
	assert.Equal(t, "n1", CookieValue(r, "li_auth_state"))
	assert.Empty(t, CookieValue(httptest.NewRequest(http.MethodGet, "/", nil), "li_auth_state"))
}
