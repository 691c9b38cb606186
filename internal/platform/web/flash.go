package web

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Flash levels, mirrored by styling hooks in the page layout.
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashError   = "error"
)

const flashCookie = "opd_flash"

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// AddFlash queues a notice for the next rendered page. Notices survive one
// redirect via a short-lived cookie.
func AddFlash(c echo.Context, level, message string) {
	flashes := readFlashes(c)
	flashes = append(flashes, Flash{Level: level, Message: message})

	payload, err := json.Marshal(flashes)
	if err != nil {
		return
	}
	c.SetCookie(&http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(payload),
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlashes returns pending notices and clears the cookie.
func PopFlashes(c echo.Context) []Flash {
	flashes := readFlashes(c)
	if len(flashes) == 0 {
		return nil
	}
	c.SetCookie(&http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return flashes
}

// readFlashes decodes the flash cookie, checking response headers first so
// a notice added earlier in the same request is not lost.
func readFlashes(c echo.Context) []Flash {
	var raw string
	for _, ck := range readSetCookies(c) {
		if ck.Name == flashCookie {
			raw = ck.Value
		}
	}
	if raw == "" {
		ck, err := c.Cookie(flashCookie)
		if err != nil {
			return nil
		}
		raw = ck.Value
	}

	payload, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	var flashes []Flash
	if err := json.Unmarshal(payload, &flashes); err != nil {
		return nil
	}
	return flashes
}

func readSetCookies(c echo.Context) []*http.Cookie {
	res := http.Response{Header: c.Response().Header()}
	return res.Cookies()
}
