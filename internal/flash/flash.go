// Package flash carries one-shot user messages across a redirect in a cookie.
package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Message categories.
const (
	Success = "success"
	Danger  = "danger"
	Info    = "info"
)

const (
	cookieName = "flash"
	stateKey   = "flash_state"
)

// Message is a single flash message.
type Message struct {
	Category string `json:"category"`
	Text     string `json:"text"`
}

type state struct {
	messages []Message
	incoming bool
}

// Add queues a message. It is shown by the next Pop, either later in this
// request or on the request that follows a redirect.
func Add(c echo.Context, category, text string) {
	st := load(c)
	st.messages = append(st.messages, Message{Category: category, Text: text})

	payload, err := json.Marshal(st.messages)
	if err != nil {
		return
	}
	c.SetCookie(&http.Cookie{
		Name:     cookieName,
		Value:    base64.RawURLEncoding.EncodeToString(payload),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Pop returns and clears all queued messages.
func Pop(c echo.Context) []Message {
	st := load(c)
	messages := st.messages
	if len(messages) > 0 || st.incoming {
		c.SetCookie(&http.Cookie{
			Name:     cookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	st.messages = nil
	st.incoming = false
	return messages
}

func load(c echo.Context) *state {
	if st, ok := c.Get(stateKey).(*state); ok {
		return st
	}

	st := &state{}
	if cookie, err := c.Cookie(cookieName); err == nil && cookie.Value != "" {
		st.incoming = true
		if raw, err := base64.RawURLEncoding.DecodeString(cookie.Value); err == nil {
			// A tampered cookie only loses its messages.
			_ = json.Unmarshal(raw, &st.messages)
		}
	}
	c.Set(stateKey, st)
	return st
}
