// Package moderation sanitizes participant chat input and rate-limits chat
// senders. System-generated notices bypass both, since their text is
// server-controlled.
package moderation

import (
	"strings"
	"time"
	"unicode"
)

const (
	// MaxTextRunes caps a chat message body after sanitization.
	MaxTextRunes = 220
	// MaxNameRunes caps a sender display name after sanitization.
	MaxNameRunes = 16

	// WindowMessages is the number of chat messages a client may send per
	// rolling window.
	WindowMessages = 6
	// Window is measured from the first message of the current window; the
	// count restarts once this much time has elapsed since that message.
	Window = 8 * time.Second
)

// SanitizeText cleans a chat body: control characters stripped, whitespace
// runs collapsed to single spaces, surrounding whitespace trimmed, truncated
// to MaxTextRunes. An empty result means the message carries nothing worth
// broadcasting.
func SanitizeText(s string) string {
	return sanitize(s, MaxTextRunes)
}

// SanitizeName cleans a sender display name, truncated to MaxNameRunes.
func SanitizeName(s string) string {
	return sanitize(s, MaxNameRunes)
}

func sanitize(s string, limit int) string {
	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	count := 0
	for _, r := range s {
		// Whitespace first: tab and newline are also control runes, but they
		// separate words and must collapse to a space, not vanish.
		if unicode.IsSpace(r) {
			pendingSpace = b.Len() > 0
			continue
		}
		if unicode.IsControl(r) {
			continue
		}
		if pendingSpace {
			if count >= limit {
				break
			}
			b.WriteRune(' ')
			count++
			pendingSpace = false
		}
		if count >= limit {
			break
		}
		b.WriteRune(r)
		count++
	}
	return strings.TrimRight(b.String(), " ")
}

// Limiter is a per-client sliding fixed window. The zero value is ready to
// use; the window opens on the first call.
type Limiter struct {
	windowStart time.Time
	count       int
}

// Allow records one message attempt at the given instant and reports whether
// it fits the window. Once the window's elapsed time exceeds the window
// duration the count restarts at 1.
func (l *Limiter) Allow(now time.Time) bool {
	if l.windowStart.IsZero() || now.Sub(l.windowStart) > Window {
		l.windowStart = now
		l.count = 1
		return true
	}
	l.count++
	return l.count <= WindowMessages
}
