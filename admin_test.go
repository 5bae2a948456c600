package pinboard

import "testing"

func feedAll(m *PassphraseMatcher, keys string) int {
	hits := 0
	for _, k := range keys {
		if m.Feed(k) {
			hits++
		}
	}
	return hits
}

func TestPassphraseMatcher(t *testing.T) {
	tests := []struct {
		name   string
		phrase string
		keys   string
		hits   int
		buf    string
	}{
		{"exact", "", "admin", 1, ""},
		{"case insensitive", "Admin", "ADMIN", 1, ""},
		{"noise before", "", "xyzadmin", 1, ""},
		{"restart on repeated first key", "", "adadmin", 1, ""},
		{"partial", "", "adm", 0, "adm"},
		{"broken prefix", "", "adx", 0, ""},
		{"twice", "", "adminadmin", 2, ""},
		{"custom", "open sesame", "open sesame", 1, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewPassphraseMatcher(tt.phrase)
			if got := feedAll(m, tt.keys); got != tt.hits {
				t.Errorf("hits = %d, want %d", got, tt.hits)
			}
			if m.Buffered() != tt.buf {
				t.Errorf("Buffered() = %q, want %q", m.Buffered(), tt.buf)
			}
		})
	}
}

func TestPassphraseMatcherReset(t *testing.T) {
	m := NewPassphraseMatcher("")
	feedAll(m, "adm")
	m.Reset()
	if feedAll(m, "in") != 0 {
		t.Error("Reset did not clear the buffer")
	}
}
