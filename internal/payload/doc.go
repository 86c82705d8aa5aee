// Package payload converts between structured per-kind form input and the
// single text string that is encoded into a QR image.
//
// # Wire format
//
// The formatted strings are the interoperability contract with third-party
// scanners, contact and calendar apps, so field order and prefixes are fixed:
//
//	text, url, encrypted   <text>
//	email                  mailto:<email>?subject=<subject>&body=<body>
//	phone                  tel:<phone>
//	sms                    sms:<phone>?body=<message>
//	wifi                   WIFI:S:<ssid>;T:<security>;P:<password>;;
//	geo                    geo:<lat>,<lon>
//	vcard                  BEGIN:VCARD / VERSION:3.0 / N:<last>;<first> /
//	                       FN:<first> <last> / TEL: / EMAIL: / ORG: / END:VCARD
//	event                  BEGIN:VEVENT / SUMMARY: / DTSTART: / DTEND: /
//	                       LOCATION: / END:VEVENT
//
// Multi-line blocks are joined with "\n". Field values are never escaped: a
// value containing the kind's own delimiter (";", ":", "&", newline) corrupts
// the payload. This is a known limitation of the format and is kept as is.
//
// # Classification
//
// Classify maps an arbitrary scanned string to a Kind with an ordered,
// first-match-wins rule list. It is best-effort and does not invert Format
// for every kind: the sms formatter emits "sms:" while the classifier looks
// for "smsto:", and encrypted payloads are opaque base64 that classify as
// text. Use cryptox.IsEncrypted to detect the latter.
//
// All functions in this package are pure and safe for concurrent use.
package payload
