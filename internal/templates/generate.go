package templates

import (
	"fmt"
	"strings"
	"time"
)

// MissingValue is rendered for fields that were left empty.
const MissingValue = "【未入力】"

// Generate renders the final contract text. It never fails: required-field
// validation happens before generation, and tokens outside the catalogue's
// vocabulary are left as they are.
func (r *Registry) Generate(t Template, values map[string]string, partyA, partyB string, now time.Time) string {
	content := t.Text

	for _, a := range partyAliases {
		name := partyA
		if a.partyB {
			name = partyB
		}
		content = strings.ReplaceAll(content, "{"+a.token+"}", name)
	}

	for _, f := range t.CustomFields {
		v := values[f.Key]
		if strings.TrimSpace(v) == "" {
			v = MissingValue
		}
		content = strings.ReplaceAll(content, "{"+f.Key+"}", v)
	}

	content = strings.ReplaceAll(content, "{"+tokenPlatformDisclaimer+"}", r.clauses.PlatformDisclaimer)
	content = strings.ReplaceAll(content, "{"+tokenFinalClause+"}", r.clauses.FinalClause)
	content = strings.ReplaceAll(content, "{"+tokenContractDate+"}", FormatContractDate(now))

	return content
}

// FormatContractDate renders t the way a ja-JP locale date-time string looks,
// e.g. "2025/7/1 9:05:03". The hour is not zero padded.
func FormatContractDate(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d %d:%02d:%02d",
		t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())
}

// MissingRequired lists required fields of t that are absent or blank in values,
// in field order.
func MissingRequired(t Template, values map[string]string) []string {
	var missing []string
	for _, f := range t.CustomFields {
		if f.Required && strings.TrimSpace(values[f.Key]) == "" {
			missing = append(missing, f.Key)
		}
	}
	return missing
}

// KnownFields returns only the entries of values that t declares.
func KnownFields(t Template, values map[string]string) map[string]string {
	out := make(map[string]string, len(t.CustomFields))
	for _, f := range t.CustomFields {
		if v, ok := values[f.Key]; ok {
			out[f.Key] = v
		}
	}
	return out
}
