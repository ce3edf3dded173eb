package clean

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// EpochSentinel is substituted for empty or unparsable timestamp fields. A bad
// timestamp never drops a row; downstream consumers key off this value.
const EpochSentinel = "1970-01-01T00:00:00"

// TimestampLayout is the ISO-8601 form written to clean artifacts.
const TimestampLayout = "2006-01-02T15:04:05"

// DateLayout is the form used for date-only fields such as dob.
const DateLayout = "2006-01-02"

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)
	nonDigitRegex   = regexp.MustCompile(`\D+`)

	titleCaser = cases.Title(language.English)

	countryAliases = map[string]struct{}{
		"usa":           {},
		"us":            {},
		"united states": {},
		"u s a":         {},
	}

	supportedCurrencies = map[string]struct{}{
		"USD": {},
		"EUR": {},
	}

	// Permissive layouts tried in order for timestamp and date parsing.
	timeLayouts = []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
		"01/02/2006 15:04:05",
		"01/02/2006",
		"2006/01/02",
		"02-Jan-2006",
		"Jan 2, 2006",
	}
)

// normalizeID trims and uppercases an identifier field.
func normalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// tidyText collapses internal whitespace runs to single spaces and trims.
func tidyText(value string) string {
	value = whitespaceRegex.ReplaceAllString(value, " ")
	return strings.TrimSpace(value)
}

// titleText tidies and title-cases a text field (names, account types).
func titleText(value string) string {
	value = tidyText(value)
	if value == "" {
		return ""
	}
	return titleCaser.String(strings.ToLower(value))
}

// normalizeCountry maps known United States aliases to the canonical "USA";
// anything else passes through trimmed with its original casing.
func normalizeCountry(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	key := strings.ReplaceAll(strings.ToLower(trimmed), ".", "")
	if _, ok := countryAliases[key]; ok {
		return "USA"
	}
	return trimmed
}

// normalizeCurrency uppercases and strips "$" and spaces. Values outside the
// supported set coerce to "USD"; this is a silent correction, not a rejection.
func normalizeCurrency(value string) string {
	v := strings.ToUpper(strings.TrimSpace(value))
	v = strings.ReplaceAll(v, "$", "")
	v = strings.ReplaceAll(v, " ", "")
	if _, ok := supportedCurrencies[v]; ok {
		return v
	}
	return "USD"
}

// parseAmount strips "$", the literal "USD" and thousands separators before
// parsing. Unparsable input yields nil and propagates to integrity filtering.
func parseAmount(value string) *float64 {
	v := strings.ToUpper(strings.TrimSpace(value))
	v = strings.ReplaceAll(v, "$", "")
	v = strings.ReplaceAll(v, "USD", "")
	v = strings.ReplaceAll(v, ",", "")
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &parsed
}

// normalizePhone extracts digits and rebuilds a +1 E.164 number. Ten digits
// gain a "+1" prefix, eleven digits starting with "1" gain "+", anything else
// normalizes to empty.
func normalizePhone(phone string) string {
	digits := nonDigitRegex.ReplaceAllString(phone, "")
	switch {
	case len(digits) == 10:
		return "+1" + digits
	case len(digits) == 11 && strings.HasPrefix(digits, "1"):
		return "+" + digits
	default:
		return ""
	}
}

// normalizeTimestamp parses permissively and reformats as ISO-8601. Empty or
// unparsable input yields the epoch sentinel rather than failing the row.
func normalizeTimestamp(value string) string {
	t, ok := parsePermissive(value)
	if !ok {
		return EpochSentinel
	}
	return t.Format(TimestampLayout)
}

// normalizeDate parses permissively and reformats as YYYY-MM-DD. Unparsable
// input yields empty, matching how coerced dates land in the clean artifact.
func normalizeDate(value string) string {
	t, ok := parsePermissive(value)
	if !ok {
		return ""
	}
	return t.Format(DateLayout)
}

// normalizeStatus uppercases and trims; the literal "NONE" is treated as null.
func normalizeStatus(value string) string {
	v := strings.ToUpper(strings.TrimSpace(value))
	if v == "NONE" {
		return ""
	}
	return v
}

// normalizeChannel uppercases and trims the channel code.
func normalizeChannel(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

// normalizeEmail lowercases and trims the provided email.
func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func parsePermissive(value string) (time.Time, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
