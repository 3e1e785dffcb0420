package http

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"
)

const (
	flashCookieName = "budgetbuddy_flash"
	flashMaxAge     = time.Minute
	// maxFlashes keeps the cookie well under browser size limits.
	maxFlashes = 5
)

// FlashKind doubles as the CSS class of the notice.
type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
)

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Kind    FlashKind `json:"kind"`
	Message string    `json:"message"`
}

// RedirectBuilder provides a fluent API for post/redirect/get responses
// carrying flash notices.
type RedirectBuilder struct {
	location string
	status   int
	flashes  []Flash
}

// Redirect creates a builder answering 303 See Other to location.
func Redirect(location string) *RedirectBuilder {
	return &RedirectBuilder{location: location, status: http.StatusSeeOther}
}

func (b *RedirectBuilder) Status(code int) *RedirectBuilder {
	b.status = code
	return b
}

func (b *RedirectBuilder) Flash(kind FlashKind, message string) *RedirectBuilder {
	b.flashes = append(b.flashes, Flash{Kind: kind, Message: message})
	return b
}

func (b *RedirectBuilder) Success(message string) *RedirectBuilder {
	return b.Flash(FlashSuccess, message)
}

func (b *RedirectBuilder) Error(message string) *RedirectBuilder {
	return b.Flash(FlashError, message)
}

// Write stores the flashes, appended to any not yet shown, and redirects.
func (b *RedirectBuilder) Write(w http.ResponseWriter, r *http.Request) {
	if len(b.flashes) > 0 {
		pending := append(readFlashes(r), b.flashes...)
		if len(pending) > maxFlashes {
			pending = pending[len(pending)-maxFlashes:]
		}
		writeFlashes(w, pending)
	}
	http.Redirect(w, r, b.location, b.status)
}

// PopFlashes returns the pending notices and clears them.
func PopFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	flashes := readFlashes(r)
	if _, err := r.Cookie(flashCookieName); err == nil {
		http.SetCookie(w, &http.Cookie{
			Name:     flashCookieName,
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return flashes
}

func readFlashes(r *http.Request) []Flash {
	c, err := r.Cookie(flashCookieName)
	if err != nil || c.Value == "" {
		return nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	var flashes []Flash
	if err := json.Unmarshal(raw, &flashes); err != nil {
		return nil
	}
	return flashes
}

func writeFlashes(w http.ResponseWriter, flashes []Flash) {
	raw, err := json.Marshal(flashes)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		MaxAge:   int(flashMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
