package payload

import "strings"

// Format renders the structured input of kind into its QR payload string.
// Missing fields are treated as empty strings. Unknown kinds are formatted
// like text.
func Format(kind Kind, in Input) string {
	switch kind {
	case KindEmail:
		return "mailto:" + in[FieldEmail] + "?subject=" + in[FieldSubject] + "&body=" + in[FieldBody]
	case KindPhone:
		return "tel:" + in[FieldPhone]
	case KindSMS:
		return "sms:" + in[FieldPhone] + "?body=" + in[FieldMessage]
	case KindWifi:
		return "WIFI:S:" + in[FieldSSID] + ";T:" + in[FieldSecurity] + ";P:" + in[FieldPassword] + ";;"
	case KindGeo:
		return "geo:" + in[FieldLat] + "," + in[FieldLon]
	case KindVCard:
		first, last := in[FieldFirstName], in[FieldLastName]
		return strings.Join([]string{
			"BEGIN:VCARD",
			"VERSION:3.0",
			"N:" + last + ";" + first,
			"FN:" + first + " " + last,
			"TEL:" + in[FieldPhone],
			"EMAIL:" + in[FieldEmail],
			"ORG:" + in[FieldCompany],
			"END:VCARD",
		}, "\n")
	case KindEvent:
		return strings.Join([]string{
			"BEGIN:VEVENT",
			"SUMMARY:" + in[FieldTitle],
			"DTSTART:" + in[FieldStart],
			"DTEND:" + in[FieldEnd],
			"LOCATION:" + in[FieldLocation],
			"END:VEVENT",
		}, "\n")
	default:
		return in[FieldText]
	}
}
