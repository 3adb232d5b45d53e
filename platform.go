package tunables

import "regexp"

var (
	iosPattern     = regexp.MustCompile(`(?i)iPhone|iPad|iPod`)
	androidPattern = regexp.MustCompile(`(?i)Android`)
)

// IsIOS reports whether userAgent identifies an iPhone, iPad or iPod.
func IsIOS(userAgent string) bool {
	return iosPattern.MatchString(userAgent)
}

// IsAndroid reports whether userAgent identifies an Android device.
func IsAndroid(userAgent string) bool {
	return androidPattern.MatchString(userAgent)
}

// IsMobile reports whether userAgent identifies an Android or iOS device.
func IsMobile(userAgent string) bool {
	return IsAndroid(userAgent) || IsIOS(userAgent)
}

type Platform int

const (
	PlatformDesktop Platform = iota
	PlatformAndroid
	PlatformIOS
)

func (p Platform) String() string {
	switch p {
	case PlatformAndroid:
		return "android"
	case PlatformIOS:
		return "ios"
	default:
		return "desktop"
	}
}

// IsMobile reports whether p is a mobile platform.
func (p Platform) IsMobile() bool {
	return p == PlatformAndroid || p == PlatformIOS
}

// DetectPlatform classifies userAgent. Android takes precedence when a string
// matches both families.
func DetectPlatform(userAgent string) Platform {
	switch {
	case IsAndroid(userAgent):
		return PlatformAndroid
	case IsIOS(userAgent):
		return PlatformIOS
	default:
		return PlatformDesktop
	}
}
