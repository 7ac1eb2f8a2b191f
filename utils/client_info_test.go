package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseUserAgent(t *testing.T) {
	info := ParseUserAgent("Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1")
	assert.Equal(t, "Safari", info.Browser)
	assert.Equal(t, "iOS", info.OS)
	assert.Equal(t, "mobile", info.Device)

	empty := ParseUserAgent("")
	assert.Equal(t, ClientInfo{Browser: "unknown", OS: "unknown", Device: "desktop"}, empty)
}
