package pinboard

import "strings"

// DefaultPassphrase is used when no passphrase is configured.
const DefaultPassphrase = "admin"

// PassphraseMatcher watches keystrokes for a passphrase. It keeps the typed
// characters while they remain a prefix of the passphrase; a key that breaks
// the prefix restarts the buffer, keeping that key if it could begin a new
// attempt.
type PassphraseMatcher struct {
	phrase string
	buf    string
}

// NewPassphraseMatcher creates a matcher. Matching is case-insensitive; an
// empty phrase falls back to DefaultPassphrase.
func NewPassphraseMatcher(phrase string) *PassphraseMatcher {
	phrase = strings.ToLower(phrase)
	if phrase == "" {
		phrase = DefaultPassphrase
	}
	return &PassphraseMatcher{phrase: phrase}
}

// Feed adds one keystroke. It reports true when the keystroke completes the
// passphrase, after which the buffer is empty again.
func (m *PassphraseMatcher) Feed(key rune) bool {
	k := strings.ToLower(string(key))
	next := m.buf + k
	if strings.HasPrefix(m.phrase, next) {
		if next == m.phrase {
			m.buf = ""
			return true
		}
		m.buf = next
		return false
	}
	if strings.HasPrefix(m.phrase, k) {
		m.buf = k
	} else {
		m.buf = ""
	}
	return false
}

// Buffered returns the characters matched so far.
func (m *PassphraseMatcher) Buffered() string { return m.buf }

// Reset clears the buffer.
func (m *PassphraseMatcher) Reset() { m.buf = "" }
