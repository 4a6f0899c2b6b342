package phone

import "strings"

// Normalize canonicalizes a Kenyan phone number into +254 form.
// The transformation is idempotent; it does not validate length or digits.
func Normalize(raw string) string {
	p := strings.TrimSpace(raw)
	p = strings.ReplaceAll(p, " ", "")
	p = strings.ReplaceAll(p, "-", "")

	switch {
	case p == "":
		return ""
	case strings.HasPrefix(p, "0"):
		return "+254" + p[1:]
	case strings.HasPrefix(p, "254"):
		return "+" + p
	case !strings.HasPrefix(p, "+"):
		return "+254" + p
	}

	return p
}
