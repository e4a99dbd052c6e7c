package platform

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/clipsaver/clipsaver/pkg/errors"
)

var youtubePatterns = []*regexp.Regexp{
	regexp.MustCompile(`youtube\.com/shorts/([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`youtu\.be/([a-zA-Z0-9_-]+)`),
}

var tiktokPatterns = []*regexp.Regexp{
	regexp.MustCompile(`tiktok\.com/@[\w.-]+/video/(\d+)`),
	regexp.MustCompile(`tiktok\.com/.*\?.*v=(\d+)`),
	regexp.MustCompile(`vm\.tiktok\.com/([a-zA-Z0-9]+)`),
	regexp.MustCompile(`vt\.tiktok\.com/([a-zA-Z0-9]+)`),
}

// minTikTokIDLength guards the numeric path fallback; TikTok video ids are
// long decimal numbers, short numeric segments are usually something else.
const minTikTokIDLength = 11

// Classify determines the platform and video id for a URL. It returns
// ErrUnsupportedURL for malformed URLs and unknown hosts, and ErrNoVideoID
// when the platform is recognized but no video id can be extracted.
func Classify(rawURL string) (Classification, error) {
	if rawURL == "" {
		return Classification{Platform: Unsupported}, errors.Wrap(errors.ErrUnsupportedURL, "empty URL")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return Classification{Platform: Unsupported}, errors.Wrap(errors.ErrUnsupportedURL, "malformed URL")
	}

	p := detect(rawURL)
	if p == Unsupported {
		return Classification{Platform: Unsupported},
			errors.Wrap(errors.ErrUnsupportedURL, "only YouTube Shorts and TikTok are supported")
	}

	id := extractVideoID(rawURL, p)
	if id == "" {
		return Classification{Platform: p}, errors.Wrapf(errors.ErrNoVideoID, "platform %s", p)
	}

	return Classification{Platform: p, VideoID: id}, nil
}

func detect(rawURL string) Platform {
	lower := strings.ToLower(rawURL)
	switch {
	case strings.Contains(lower, "youtube.com/shorts"), strings.Contains(lower, "youtu.be"):
		return YouTubeShorts
	case strings.Contains(lower, "tiktok.com"):
		return TikTok
	default:
		return Unsupported
	}
}

func extractVideoID(rawURL string, p Platform) string {
	switch p {
	case YouTubeShorts:
		return extractYouTubeID(rawURL)
	case TikTok:
		return extractTikTokID(rawURL)
	default:
		return ""
	}
}

func extractYouTubeID(rawURL string) string {
	for _, pattern := range youtubePatterns {
		if m := pattern.FindStringSubmatch(rawURL); m != nil {
			return m[1]
		}
	}
	// Fall back to the ?v= query parameter.
	if parsed, err := url.Parse(rawURL); err == nil {
		if v := parsed.Query().Get("v"); v != "" {
			return v
		}
	}
	return ""
}

func extractTikTokID(rawURL string) string {
	for _, pattern := range tiktokPatterns {
		if m := pattern.FindStringSubmatch(rawURL); m != nil {
			return m[1]
		}
	}
	// Fall back to a long numeric path segment.
	if parsed, err := url.Parse(rawURL); err == nil {
		for _, part := range strings.Split(parsed.Path, "/") {
			if len(part) >= minTikTokIDLength && isDigits(part) {
				return part
			}
		}
	}
	return ""
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
