package payload

import (
	"fmt"
	"strings"
)

// Input is the transient form staging map: field name -> value.
type Input map[string]string

// Field names used by Input.
const (
	FieldText      = "text"
	FieldEmail     = "email"
	FieldSubject   = "subject"
	FieldBody      = "body"
	FieldPhone     = "phone"
	FieldMessage   = "message"
	FieldSSID      = "ssid"
	FieldSecurity  = "security"
	FieldPassword  = "password"
	FieldLat       = "lat"
	FieldLon       = "lon"
	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
	FieldCompany   = "company"
	FieldTitle     = "title"
	FieldStart     = "start"
	FieldEnd       = "end"
	FieldLocation  = "location"
)

// Wi-Fi security values offered by the generator form.
const (
	SecurityWPA    = "WPA"
	SecurityWEP    = "WEP"
	SecurityNoPass = "nopass"
)

// EventTimeLayout is the date-time layout the generator uses for event
// start and end values.
const EventTimeLayout = "2006-01-02 15:04"

// FieldSpec describes one input widget of the generator form.
type FieldSpec struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"`
	Default  string   `json:"default,omitempty"`
}

var requiredFields = map[Kind][]string{
	KindText:      {FieldText},
	KindURL:       {FieldText},
	KindEncrypted: {FieldText},
	KindEmail:     {FieldEmail, FieldSubject, FieldBody},
	KindWifi:      {FieldSSID, FieldSecurity, FieldPassword},
	KindGeo:       {FieldLat, FieldLon},
	KindPhone:     {FieldPhone},
	KindSMS:       {FieldPhone, FieldMessage},
	KindVCard:     {FieldFirstName, FieldLastName, FieldPhone},
	KindEvent:     {FieldTitle, FieldStart},
}

type fieldDef struct {
	name    string
	label   string
	options []string
	def     string
}

// form order, which is not always the order of requiredFields
var formFields = map[Kind][]fieldDef{
	KindText:      {{name: FieldText, label: "Text"}},
	KindURL:       {{name: FieldText, label: "URL"}},
	KindEncrypted: {{name: FieldText, label: "Text to encrypt"}},
	KindEmail: {
		{name: FieldEmail, label: "Email address"},
		{name: FieldSubject, label: "Subject"},
		{name: FieldBody, label: "Body"},
	},
	KindWifi: {
		{name: FieldSSID, label: "SSID"},
		{name: FieldPassword, label: "Password"},
		{name: FieldSecurity, label: "Security type", options: []string{SecurityWPA, SecurityWEP, SecurityNoPass}, def: SecurityWPA},
	},
	KindGeo: {
		{name: FieldLat, label: "Latitude"},
		{name: FieldLon, label: "Longitude"},
	},
	KindPhone: {{name: FieldPhone, label: "Phone number"}},
	KindSMS: {
		{name: FieldPhone, label: "Recipient phone number"},
		{name: FieldMessage, label: "Message"},
	},
	KindVCard: {
		{name: FieldFirstName, label: "First name"},
		{name: FieldLastName, label: "Last name"},
		{name: FieldPhone, label: "Phone number"},
		{name: FieldEmail, label: "Email"},
		{name: FieldCompany, label: "Company"},
	},
	KindEvent: {
		{name: FieldTitle, label: "Event title"},
		{name: FieldStart, label: "Start (yyyy-MM-dd HH:mm)"},
		{name: FieldEnd, label: "End (yyyy-MM-dd HH:mm)"},
		{name: FieldLocation, label: "Location"},
	},
}

// RequiredFields returns the mandatory field names for kind. Unknown kinds
// fall back to the text kinds' single "text" field.
func RequiredFields(kind Kind) []string {
	req, ok := requiredFields[kind]
	if !ok {
		req = requiredFields[KindText]
	}
	out := make([]string, len(req))
	copy(out, req)
	return out
}

// Fields returns the form field specs for kind in display order.
func Fields(kind Kind) []FieldSpec {
	defs, ok := formFields[kind]
	if !ok {
		defs = formFields[KindText]
	}
	req := RequiredFields(kind)
	specs := make([]FieldSpec, 0, len(defs))
	for _, d := range defs {
		specs = append(specs, FieldSpec{
			Name:     d.name,
			Label:    d.label,
			Required: contains(req, d.name),
			Options:  d.options,
			Default:  d.def,
		})
	}
	return specs
}

// MissingFieldsError lists the required fields that were blank.
type MissingFieldsError struct {
	Kind   Kind
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required fields for %s: %s", e.Kind, strings.Join(e.Fields, ", "))
}

// Missing returns the required fields of kind that are blank in in, in
// RequiredFields order.
func Missing(kind Kind, in Input) []string {
	var missing []string
	for _, name := range RequiredFields(kind) {
		if strings.TrimSpace(in[name]) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// Validate returns a *MissingFieldsError when any required field is blank.
func Validate(kind Kind, in Input) error {
	if m := Missing(kind, in); len(m) > 0 {
		return &MissingFieldsError{Kind: kind, Fields: m}
	}
	return nil
}

// IsValid reports whether every required field of kind is non-blank.
func IsValid(kind Kind, in Input) bool {
	return len(Missing(kind, in)) == 0
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
