package payload

import (
	"fmt"
	"unicode/utf8"

	"github.com/dmitrijs2005/kodex/internal/common"
)

// MaxLength is the largest payload, in characters, the generator accepts.
const MaxLength = 1000

const sharePrefix = "QR content:\n"

// Length returns the payload length in characters.
func Length(p string) int {
	return utf8.RuneCountInString(p)
}

// CheckLength returns common.ErrPayloadTooLarge when p is longer than limit
// characters. A non-positive limit means MaxLength.
func CheckLength(p string, limit int) error {
	if limit <= 0 {
		limit = MaxLength
	}
	if n := Length(p); n > limit {
		return fmt.Errorf("%w: %d characters, limit %d", common.ErrPayloadTooLarge, n, limit)
	}
	return nil
}

// ShareText returns the caption attached to a shared QR image. Kinds whose
// payload is secret or unreadable as prose get no caption.
func ShareText(kind Kind, p string) (string, bool) {
	switch kind {
	case KindEncrypted, KindWifi, KindVCard, KindEvent:
		return "", false
	}
	return sharePrefix + p, true
}
