package payload

import (
	"fmt"
	"strings"
)

// Pair is one labeled value of a display breakdown.
type Pair struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Labels holds the user-visible labels used by Describe. LineFormat takes
// the 1-based line number.
type Labels struct {
	SSID       string
	Encryption string
	Password   string
	Content    string
	LineFormat string
}

// DefaultLabels are the English labels used by ParseForDisplay.
var DefaultLabels = Labels{
	SSID:       "SSID",
	Encryption: "Encryption",
	Password:   "Password",
	Content:    "Content",
	LineFormat: "Line %d",
}

// ParseForDisplay breaks a payload into labeled pairs using DefaultLabels.
func ParseForDisplay(content string) []Pair {
	return Describe(content, DefaultLabels)
}

// Describe breaks a payload into labeled pairs for presentation.
//
// Wi-Fi payloads yield one pair per "key:value" segment with S, T and P
// mapped to the SSID, Encryption and Password labels. vCard payloads yield
// one pair per "key:value" line. Other multi-line content yields one pair
// per line, empty lines included. Everything else is a single Content pair.
func Describe(content string, labels Labels) []Pair {
	switch {
	case strings.HasPrefix(content, "WIFI:"):
		return describeWifi(content, labels)
	case strings.HasPrefix(content, "BEGIN:VCARD"):
		return describeVCard(content)
	case strings.Contains(content, "\n"):
		lines := splitLines(content)
		pairs := make([]Pair, 0, len(lines))
		for i, line := range lines {
			pairs = append(pairs, Pair{Label: fmt.Sprintf(labels.LineFormat, i+1), Value: line})
		}
		return pairs
	default:
		return []Pair{{Label: labels.Content, Value: content}}
	}
}

func describeWifi(content string, labels Labels) []Pair {
	body := strings.TrimPrefix(content, "WIFI:")
	body = strings.TrimSuffix(body, ";;")

	var pairs []Pair
	for _, part := range strings.Split(body, ";") {
		key, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		label := key
		switch key {
		case "S":
			label = labels.SSID
		case "T":
			label = labels.Encryption
		case "P":
			label = labels.Password
		}
		pairs = append(pairs, Pair{Label: label, Value: value})
	}
	return pairs
}

func describeVCard(content string) []Pair {
	var pairs []Pair
	for _, line := range splitLines(content) {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		pairs = append(pairs, Pair{Label: key, Value: value})
	}
	return pairs
}

// splitLines splits on \r\n, \r and \n.
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}

// UsesMultilineDisplay reports whether a scanned payload should be shown as
// a labeled breakdown rather than a single block of text.
func UsesMultilineDisplay(content string) bool {
	if strings.HasPrefix(content, "WIFI:") {
		return true
	}
	switch Classify(content) {
	case KindWifi, KindVCard, KindText:
		return strings.Contains(content, "\n")
	}
	return false
}
