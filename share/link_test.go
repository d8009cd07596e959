package share_test

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/kirana-ledger/share"
)

func TestBuildShareLink_TenDigitPhone_GetsCountryCode(t *testing.T) {
	link := share.BuildShareLink("hello", "9876543210")
	assert.Equal(t, "https://wa.me/?phone=919876543210&text=hello", link)
}

func TestBuildShareLink_PhoneIsStrippedToDigits(t *testing.T) {
	link := share.BuildShareLink("hi", "(987) 654-3210")
	assert.Contains(t, link, "phone=919876543210")
}

func TestBuildShareLink_NonTenDigitPhone_OmitsTarget(t *testing.T) {
	// Short, long, foreign-format, and empty numbers all fall back to the
	// generic compose view without complaint.
	for _, raw := range []string{"", "12345", "919876543210", "+44 20 7946 0958"} {
		link := share.BuildShareLink("hello", raw)
		assert.Equal(t, "https://wa.me/?text=hello", link, "raw %q", raw)
		assert.NotContains(t, link, "phone=")
	}
}

func TestBuildShareLink_MessageIsEncoded(t *testing.T) {
	msg := "*Asha — Udhaar Summary*\n• Total Credit: ₹200.00"

	link := share.BuildShareLink(msg, "9876543210")

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "wa.me", u.Host)
	assert.Equal(t, msg, u.Query().Get("text"), "message must survive decoding")
	assert.Equal(t, "919876543210", u.Query().Get("phone"))
	assert.False(t, strings.ContainsAny(link, " \n₹"), "link must be URL-safe")
}

func TestBuildShareLink_EmptyMessage_StillHasTextParam(t *testing.T) {
	link := share.BuildShareLink("", "")
	assert.Equal(t, "https://wa.me/?text=", link)
}
