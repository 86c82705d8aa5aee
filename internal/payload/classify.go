package payload

import (
	"regexp"
	"strings"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

// Classify guesses the kind of a scanned payload. Rules are evaluated in
// order and the first match wins; anything unmatched is text. Classify never
// returns KindEncrypted.
func Classify(content string) Kind {
	switch {
	case strings.HasPrefix(content, "http://"), strings.HasPrefix(content, "https://"):
		return KindURL
	case strings.Contains(content, "@") && strings.Contains(content, ".") && !strings.Contains(content, "BEGIN:VCARD"):
		return KindEmail
	case strings.HasPrefix(content, "tel:"), phonePattern.MatchString(content):
		return KindPhone
	case strings.HasPrefix(content, "smsto:"):
		return KindSMS
	case strings.HasPrefix(content, "WIFI:"):
		return KindWifi
	case strings.HasPrefix(content, "geo:"):
		return KindGeo
	case strings.HasPrefix(content, "BEGIN:VCARD"):
		return KindVCard
	case strings.HasPrefix(content, "BEGIN:VEVENT"):
		return KindEvent
	default:
		return KindText
	}
}

// IsLink reports whether content should be displayed as a clickable link.
func IsLink(content string) bool {
	return Classify(content) == KindURL
}
