package share

import (
	"net/url"
	"strings"
)

// countryCode is prefixed to a bare ten-digit subscriber number. Ten digits is
// the domestic mobile format; anything else is passed over without complaint
// and the link opens a generic compose view instead.
const countryCode = "91"

// BuildShareLink wraps a message in a wa.me deep link. When rawPhone strips
// down to exactly ten digits the link targets that number; otherwise the phone
// parameter is omitted entirely. The message is always present and
// percent-encoded.
func BuildShareLink(message, rawPhone string) string {
	phone := digits(rawPhone)

	to := ""
	if len(phone) == 10 {
		to = "?phone=" + countryCode + phone
	}

	sep := "?"
	if to != "" {
		sep = "&"
	}
	return "https://wa.me/" + to + sep + "text=" + url.QueryEscape(message)
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
