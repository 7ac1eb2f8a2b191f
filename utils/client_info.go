package utils

import (
	"strings"

	ua "github.com/mileusna/useragent"
)

type ClientInfo struct {
	Browser string
	OS      string
	Device  string
}

// ParseUserAgent extracts browser, OS and device class from a User-Agent header.
func ParseUserAgent(userAgent string) ClientInfo {
	info := ClientInfo{Browser: "unknown", OS: "unknown", Device: "desktop"}
	if userAgent == "" {
		return info
	}

	parsed := ua.Parse(userAgent)
	if parsed.Name != "" {
		info.Browser = strings.TrimSpace(parsed.Name)
	}
	if parsed.OS != "" {
		info.OS = strings.TrimSpace(parsed.OS)
	}
	switch {
	case parsed.Bot:
		info.Device = "bot"
	case parsed.Tablet:
		info.Device = "tablet"
	case parsed.Mobile:
		info.Device = "mobile"
	}
	return info
}
