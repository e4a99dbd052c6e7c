// Package platform detects and validates short-video platform URLs.
// Classification is a pure function: the same URL always yields the same
// platform and video id, or the same rejection.
package platform

import "fmt"

// Platform identifies a supported short-video source.
type Platform string

const (
	// YouTubeShorts represents youtube.com/shorts and youtu.be links.
	YouTubeShorts Platform = "youtube_shorts"
	// TikTok represents tiktok.com links, including vm./vt. short links.
	TikTok Platform = "tiktok"
	// Unsupported represents everything else.
	Unsupported Platform = "unsupported"
)

// String returns the string representation of the platform.
func (p Platform) String() string {
	return string(p)
}

// Supported returns the list of platforms the service can download from.
func Supported() []Platform {
	return []Platform{YouTubeShorts, TikTok}
}

// Classification is the result of classifying a URL.
type Classification struct {
	Platform Platform
	VideoID  string
}

// RequestKey returns the dedup fingerprint for this classification. Two
// requests for the same video share one key regardless of the requester.
func (c Classification) RequestKey() string {
	return fmt.Sprintf("%s:%s", c.Platform, c.VideoID)
}
