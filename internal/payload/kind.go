package payload

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a QR payload. The string value is what gets persisted.
type Kind string

const (
	KindURL       Kind = "url"
	KindEmail     Kind = "email"
	KindPhone     Kind = "phone"
	KindSMS       Kind = "sms"
	KindWifi      Kind = "wifi"
	KindGeo       Kind = "geo"
	KindVCard     Kind = "vcard"
	KindEvent     Kind = "event"
	KindText      Kind = "text"
	KindEncrypted Kind = "encrypted"
)

var ErrUnknownKind = errors.New("unknown content kind")

var allKinds = []Kind{
	KindURL, KindEmail, KindPhone, KindSMS, KindWifi,
	KindGeo, KindVCard, KindEvent, KindText, KindEncrypted,
}

// Kinds returns every known kind in menu order.
func Kinds() []Kind {
	out := make([]Kind, len(allKinds))
	copy(out, allKinds)
	return out
}

func (k Kind) String() string { return string(k) }

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	for _, x := range allKinds {
		if x == k {
			return true
		}
	}
	return false
}

// DisplayName is the short label shown next to a payload. Text is shown as
// "plain".
func (k Kind) DisplayName() string {
	if k == KindText {
		return "plain"
	}
	return string(k)
}

// ParseKind accepts a kind name in any case. "plain" is an alias for text.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "plain" {
		return KindText, nil
	}
	k := Kind(name)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}
