package news

import "strings"

// CleanHeadline reduces a raw title to its sound bite. The separators are
// applied in a fixed order: en-dash (keep first), colon (keep last),
// semicolon (keep first), pipe (keep first).
func CleanHeadline(title string) string {
	s, _, _ := strings.Cut(title, "–")
	if i := strings.LastIndex(s, ":"); i >= 0 {
		s = s[i+1:]
	}
	s, _, _ = strings.Cut(s, ";")
	s, _, _ = strings.Cut(s, "|")
	return strings.TrimSpace(s)
}

func hasMarkup(s string) bool {
	return strings.ContainsAny(s, "<>")
}
