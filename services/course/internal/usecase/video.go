package usecase

import (
	"net/url"
	"strings"
)

const embedParams = "?modestbranding=1&rel=0&playsinline=1"

func embed(id string) string {
	if id == "" {
		return ""
	}
	return "https://www.youtube.com/embed/" + id + embedParams
}

// EmbedURL turns youtu.be, shorts and watch links into a YouTube embed URL. Other URLs are
// returned unchanged; a YouTube link without a video id yields "".
func EmbedURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}

	host := strings.ToLower(u.Hostname())
	switch {
	case host == "youtu.be":
		return embed(strings.TrimPrefix(u.Path, "/"))
	case strings.Contains(host, "youtube.com"):
		if rest, ok := strings.CutPrefix(u.Path, "/shorts/"); ok {
			id, _, _ := strings.Cut(rest, "/")
			return embed(id)
		}
		return embed(u.Query().Get("v"))
	default:
		return raw
	}
}
