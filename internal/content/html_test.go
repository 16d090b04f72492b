package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmbedSrc(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"bare url", " https://maps.example.com/embed?q=1 ", "https://maps.example.com/embed?q=1"},
		{"insecure url", "http://maps.example.com", ""},
		{"iframe", `<iframe src="https://www.google.com/maps/embed?pb=abc" width="600"></iframe>`, "https://www.google.com/maps/embed?pb=abc"},
		{"iframe in wrapper", `<div class="map"><iframe src="https://maps.example.com/e"></iframe></div>`, "https://maps.example.com/e"},
		{"script only", `<script src="https://evil.example.com/x.js"></script>`, ""},
		{"javascript src", `<iframe src="javascript:alert(1)"></iframe>`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EmbedSrc(tt.in))
		})
	}
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Join us for worship.", PlainText("Join   us\nfor worship."))
	assert.Equal(t, "Join us for worship.", PlainText("<p>Join <strong>us</strong></p>\n<p>for worship.</p>"))
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "Short text", Excerpt("Short text", 50))
	assert.Equal(t, "The quick brown…", Excerpt("The quick brown fox jumps", 18))
	assert.Equal(t, "Ünïcödé wörds…", Excerpt("<p>Ünïcödé wörds everywhere</p>", 16))
}
