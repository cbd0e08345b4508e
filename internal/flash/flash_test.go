package flash

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(cookies ...*http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func flashCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	var last *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == cookieName {
			last = ck
		}
	}
	require.NotNil(t, last, "flash cookie not set")
	return last
}

func TestAddThenPopSameRequest(t *testing.T) {
	c, _ := newContext()

	Add(c, Danger, "Username already taken")
	msgs := Pop(c)

	assert.Equal(t, []Message{{Category: Danger, Text: "Username already taken"}}, msgs)
	assert.Empty(t, Pop(c))
}

func TestMessagesSurviveRedirect(t *testing.T) {
	first, rec := newContext()
	Add(first, Success, "Registered successfully! You can now log in.")
	Add(first, Info, "second")

	next, rec2 := newContext(flashCookie(t, rec))
	msgs := Pop(next)

	require.Len(t, msgs, 2)
	assert.Equal(t, Success, msgs[0].Category)
	assert.Equal(t, "second", msgs[1].Text)
	assert.Equal(t, -1, flashCookie(t, rec2).MaxAge)
}

func TestAddKeepsUnreadIncomingMessages(t *testing.T) {
	first, rec := newContext()
	Add(first, Info, "older")

	second, rec2 := newContext(flashCookie(t, rec))
	Add(second, Info, "newer")

	third, _ := newContext(flashCookie(t, rec2))
	msgs := Pop(third)

	require.Len(t, msgs, 2)
	assert.Equal(t, "older", msgs[0].Text)
	assert.Equal(t, "newer", msgs[1].Text)
}

func TestTamperedCookieIsDropped(t *testing.T) {
	c, rec := newContext(&http.Cookie{Name: cookieName, Value: "%%%not-base64"})

	assert.Empty(t, Pop(c))
	assert.Equal(t, -1, flashCookie(t, rec).MaxAge)
}
