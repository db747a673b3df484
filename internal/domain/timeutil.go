package domain

import "time"

// Layouts accepted for local datetime input, matched in order.
var localTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
}

// ParseLocalTime parses a local datetime string in the machine's timezone.
func ParseLocalTime(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range localTimeLayouts {
		parsed, err := time.ParseInLocation(layout, value, time.Local)
		if err == nil {
			return parsed, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// LocalToZulu converts a local datetime string to an RFC 3339 UTC timestamp.
// Unparseable input passes through unchanged so the server can reject it with
// a proper error instead of the client masking the value.
func LocalToZulu(value string) string {
	parsed, err := ParseLocalTime(value)
	if err != nil {
		return value
	}
	return parsed.UTC().Format(time.RFC3339)
}

// FormatDateTime renders a UTC timestamp for display, falling back to the
// raw input when it does not parse.
func FormatDateTime(iso string) string {
	parsed, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return iso
	}
	return parsed.Local().Format("Jan 2, 2006, 3:04 PM")
}
