package authority

import "strings"

// ModeCheckAndToggle is the only request mode the endpoint issues.
const ModeCheckAndToggle = "check_and_toggle"

const upperHex = "0123456789ABCDEF"

// Escape percent-encodes s. Unreserved bytes [A-Za-z0-9-_.~] pass through,
// every other byte becomes %XX with uppercase hex digits.
func Escape(s string) string {
	var b strings.Builder

	b.Grow(len(s) * 3)

	for i := range len(s) {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)

			continue
		}

		b.WriteByte('%')
		b.WriteByte(upperHex[c>>4])
		b.WriteByte(upperHex[c&0x0f])
	}

	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '_', c == '.', c == '~':
		return true
	default:
		return false
	}
}

// BuildURL returns the check_and_toggle request URL for uid and token.
func BuildURL(base, uid, token string) string {
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}

	return base + sep +
		"mode=" + ModeCheckAndToggle +
		"&uid=" + Escape(uid) +
		"&token=" + Escape(token)
}
