package util

import "regexp"

var (
	reEmail = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	reToken = regexp.MustCompile(`(?i)\b(api[_-]?key|secret|token|password|key)\s*[=:]\s*[A-Za-z0-9_\-]{8,}`)
	rePhone = regexp.MustCompile(`\+?\d[\d\s().-]{8,}\d`)
)

// RedactPII masks contact details and credentials that posters leave in
// post bodies before the text leaves the machine.
func RedactPII(s string) string {
	s = reEmail.ReplaceAllString(s, "[redacted-email]")
	s = reToken.ReplaceAllString(s, "$1=[redacted]")
	s = rePhone.ReplaceAllString(s, "[redacted-phone]")
	return s
}
