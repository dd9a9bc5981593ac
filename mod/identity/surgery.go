package identity

import (
	"strconv"
	"strings"
)

// buffer holds the string under construction by the canonicalization and
// legacy algorithms. Every method returns a new buffer value; none of them
// mutate a shared string, so callers can freely retain earlier snapshots.
//
// The name "surgery" describes what the methods do: cut a well-known piece
// out of the text. removePrefix and removeSuffix also report whether
// anything was removed; the other methods return only the new buffer.
type buffer struct {
	s string
}

func newBuffer(s string) buffer {
	return buffer{s: s}
}

func (b buffer) String() string { return b.s }

// isSeparator reports whether r is a path separator. '\\' only counts on
// Windows-style input, which callers detect explicitly before calling
// functions that care about Windows paths; this classification always
// treats both as separators because scp-style and Windows inputs both
// eventually funnel through the same segment splitter.
func isSeparator(r byte) bool {
	return r == '/' || r == '\\'
}

func isASCIIDigit(r byte) bool {
	return r >= '0' && r <= '9'
}

func isASCIILetter(r byte) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// lowerASCII lower-cases only the ASCII letters in s, leaving every other
// byte or code point untouched. Both identity algorithms fold case this
// way rather than with strings.ToLower, which applies full Unicode case
// folding and would fold some non-ASCII code points (e.g. Kelvin sign
// U+212A) straight to ASCII before the host-normalization and IDNA steps
// get a chance to see them as non-ASCII.
func lowerASCII(s string) string {
	out := []byte(s)
	for i, c := range out {
		if c >= 'A' && c <= 'Z' {
			out[i] = c + ('a' - 'A')
		}
	}
	return string(out)
}

// isSchemeChar reports whether r may appear after the first character of a
// URL scheme: letters, digits, '+', '-', '.'.
func isSchemeChar(r byte) bool {
	return isASCIILetter(r) || isASCIIDigit(r) || r == '+' || r == '-' || r == '.'
}

// firstSeparatorIndex returns the index of the first '/' or '\\' in b, or
// len(b.s) if there is none.
func (b buffer) firstSeparatorIndex() int {
	for i := 0; i < len(b.s); i++ {
		if isSeparator(b.s[i]) {
			return i
		}
	}
	return len(b.s)
}

// removePrefix removes p from the start of b if present, reporting whether
// it did so.
func (b buffer) removePrefix(p string) (buffer, bool) {
	if !strings.HasPrefix(b.s, p) {
		return b, false
	}
	return buffer{s: b.s[len(p):]}, true
}

// removeSuffix removes s from the end of b if present, reporting whether it
// did so.
func (b buffer) removeSuffix(suffix string) (buffer, bool) {
	if !strings.HasSuffix(b.s, suffix) {
		return b, false
	}
	return buffer{s: b.s[:len(b.s)-len(suffix)]}, true
}

// dropScheme removes a leading "scheme://" if present and returns the
// lower-cased scheme name (the caller has already lower-cased the whole
// buffer, so no further folding is needed here).
func (b buffer) dropScheme() (buffer, string, bool) {
	i := strings.Index(b.s, "://")
	if i <= 0 {
		return b, "", false
	}
	scheme := b.s[:i]
	if !isASCIILetter(scheme[0]) {
		return b, "", false
	}
	for j := 1; j < len(scheme); j++ {
		if !isSchemeChar(scheme[j]) {
			return b, "", false
		}
	}
	return buffer{s: b.s[i+len("://"):]}, scheme, true
}

// dropUserinfo removes a "user[:password]@" prefix, provided the '@' occurs
// strictly before the first path separator. It uses the last such '@' so
// that a password containing literal '@' characters doesn't confuse the
// split.
func (b buffer) dropUserinfo() (buffer, string, string, bool) {
	limit := b.firstSeparatorIndex()
	at := strings.LastIndexByte(b.s[:limit], '@')
	if at < 0 {
		return b, "", "", false
	}
	userinfo := b.s[:at]
	user, pass, _ := strings.Cut(userinfo, ":")
	return buffer{s: b.s[at+1:]}, user, pass, true
}

// removePort removes a ":digits" port specifier, provided the ':' appears
// before the first path separator and is immediately followed by one or
// more ASCII digits that run exactly up to the separator (or end of
// string, if there is no separator).
func (b buffer) removePort() buffer {
	limit := b.firstSeparatorIndex()
	colon := strings.IndexByte(b.s[:limit], ':')
	if colon < 0 {
		return b
	}
	j := colon + 1
	for j < limit && isASCIIDigit(b.s[j]) {
		j++
	}
	if j == colon+1 || j != limit {
		// No digits, or the digit run didn't reach the end of the
		// authority section: not a port.
		return b
	}
	return buffer{s: b.s[:colon] + b.s[limit:]}
}

// removeFragment deletes everything from the first '#' onward.
func (b buffer) removeFragment() buffer {
	if i := strings.IndexByte(b.s, '#'); i >= 0 {
		return buffer{s: b.s[:i]}
	}
	return b
}

// removeQuery deletes everything from the first '?' onward.
func (b buffer) removeQuery() buffer {
	if i := strings.IndexByte(b.s, '?'); i >= 0 {
		return buffer{s: b.s[:i]}
	}
	return b
}

// replaceFirst replaces the first occurrence of needle with with. If
// before >= 0, the replacement only happens if the occurrence starts
// strictly before that index.
func (b buffer) replaceFirst(needle, with string, before int) buffer {
	i := strings.Index(b.s, needle)
	if i < 0 {
		return b
	}
	if before >= 0 && i >= before {
		return b
	}
	return buffer{s: b.s[:i] + with + b.s[i+len(needle):]}
}

// normalizeWindowsPathPrefix strips "\\?\", "\\??\", and then a drive-letter
// prefix like "c:", reporting whether a Windows-style path was recognized.
func (b buffer) normalizeWindowsPathPrefix() (buffer, bool) {
	recognized := false
	if next, ok := b.removePrefix(`\\?\`); ok {
		b, recognized = next, true
	} else if next, ok := b.removePrefix(`\\??\`); ok {
		b, recognized = next, true
	}
	if len(b.s) >= 2 && isASCIILetter(b.s[0]) && b.s[1] == ':' {
		b = buffer{s: b.s[2:]}
		recognized = true
	}
	return b, recognized
}

// splitSegments splits b on '/' and '\\', dropping empty segments.
func (b buffer) splitSegments() []string {
	var segs []string
	start := 0
	for i := 0; i <= len(b.s); i++ {
		if i == len(b.s) || isSeparator(b.s[i]) {
			if i > start {
				segs = append(segs, b.s[start:i])
			}
			start = i + 1
		}
	}
	return segs
}

// percentDecodeSegment decodes %XX escapes in s. A malformed escape (not
// followed by two hex digits) is left verbatim, including the '%' itself.
func percentDecodeSegment(s string) string {
	if !strings.ContainsRune(s, '%') {
		return s
	}
	var out strings.Builder
	out.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '%' || i+3 > len(s) {
			out.WriteByte(s[i])
			continue
		}
		hi, err1 := strconv.ParseUint(s[i+1:i+2], 16, 8)
		lo, err2 := strconv.ParseUint(s[i+2:i+3], 16, 8)
		if err1 != nil || err2 != nil {
			out.WriteByte(s[i])
			continue
		}
		out.WriteByte(byte(hi<<4 | lo))
		i += 2
	}
	return out.String()
}
