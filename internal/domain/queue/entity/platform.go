package entity

// Platform identifies one of the supported social platforms.
// The values double as the canonical labels stored in the database.
type Platform string

const (
	PlatformYouTube   Platform = "YouTube Shorts"
	PlatformLinkedIn  Platform = "LinkedIn Video"
	PlatformTikTok    Platform = "TikTok"
	PlatformPinterest Platform = "Pinterest Idea"
	PlatformTwitter   Platform = "Twitter"
)

// Platforms lists every supported platform in a stable order.
func Platforms() []Platform {
	return []Platform{
		PlatformYouTube,
		PlatformLinkedIn,
		PlatformTikTok,
		PlatformPinterest,
		PlatformTwitter,
	}
}

// IsValid reports whether p is one of the supported platforms.
func (p Platform) IsValid() bool {
	switch p {
	case PlatformYouTube, PlatformLinkedIn, PlatformTikTok, PlatformPinterest, PlatformTwitter:
		return true
	default:
		return false
	}
}
