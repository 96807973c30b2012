package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmbedURL(t *testing.T) {
	const want = "https://www.youtube.com/embed/dQw4w9WgXcQ?modestbranding=1&rel=0&playsinline=1"

	tests := []struct {
		name string
		in   string
		out  string
	}{
		{"short link", "https://youtu.be/dQw4w9WgXcQ", want},
		{"watch link", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42", want},
		{"mobile watch link", "https://m.youtube.com/watch?v=dQw4w9WgXcQ", want},
		{"shorts link", "https://www.youtube.com/shorts/dQw4w9WgXcQ?feature=share", want},
		{"youtube without id", "https://www.youtube.com/channel/abc", ""},
		{"other host", "https://cdn.example.com/videos/lesson1.mp4", "https://cdn.example.com/videos/lesson1.mp4"},
		{"not a url", "lesson one", "lesson one"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.out, EmbedURL(tt.in))
		})
	}
}
