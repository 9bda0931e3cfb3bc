package gff

import "strings"

// Characters that must be percent-escaped in GFF3 attribute values for the
// encoding to round-trip: the escape character itself, the pair and value
// separators, the list separator, and space.
const escapeChars = "%;=, "

// Escape percent-encodes the reserved characters of a GFF3 attribute value.
func Escape(s string) string {
	if !strings.ContainsAny(s, escapeChars) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if strings.IndexByte(escapeChars, c) >= 0 {
			b.WriteByte('%')
			b.WriteByte(hexDigit(c >> 4))
			b.WriteByte(hexDigit(c & 0x0f))
		} else {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Unescape decodes a percent-escaped GFF3 attribute value. '+' decodes to a
// space and "%XX" to the byte XX; malformed escapes pass through verbatim.
func Unescape(s string) string {
	if !strings.ContainsAny(s, "%+") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '+':
			b.WriteByte(' ')
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b.WriteByte(hexValue(s[i+1])<<4 | hexValue(s[i+2]))
			i += 2
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func hexDigit(n byte) byte {
	if n < 10 {
		return '0' + n
	}
	return 'A' + n - 10
}

func isHex(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func hexValue(c byte) byte {
	switch {
	case c >= 'a':
		return c - 'a' + 10
	case c >= 'A':
		return c - 'A' + 10
	default:
		return c - '0'
	}
}
