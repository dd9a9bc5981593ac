package identity

import (
	"strings"

	"golang.org/x/net/idna"
	"golang.org/x/text/unicode/norm"
)

// CanonicalProvider implements the canonical identity algorithm: full URL
// normalization producing a lower-case, NFC string of the shape
// "[/]host/path...".
type CanonicalProvider struct{}

var _ Provider = CanonicalProvider{}

// FromLocation implements Provider.
func (CanonicalProvider) FromLocation(location string) (string, error) {
	return canonicalize(location, isSeparatorByte(location))
}

// FromFilePath implements Provider.
func (CanonicalProvider) FromFilePath(path string) (string, error) {
	// An absolute file path is canonicalized exactly like any other
	// location; the leading-slash rule in step 12 takes care of restoring
	// the leading '/' once the windows-path/scheme detection has run.
	return canonicalize(path, true)
}

func isSeparatorByte(s string) bool {
	return len(s) > 0 && (s[0] == '/' || s[0] == '\\')
}

// canonicalize runs the twelve-step normalization algorithm.
// originalStartsWithSeparator records whether the *original*, untouched
// input began with a path separator (used by step 12); for FromFilePath
// callers it is forced to true, matching "absolute path" semantics.
func canonicalize(input string, originalStartsWithSeparator bool) (string, error) {
	// Step 1: NFC-normalize, then ASCII-fold to lower-case. Only ASCII
	// letters are folded here: strings.ToLower would apply full Unicode
	// case mapping, which maps some non-ASCII code points that survive NFC
	// straight to ASCII (U+0130, capital I with dot above, -> 'i', for
	// instance) and would corrupt the ASCII/non-ASCII host distinction
	// asciiHost relies on below.
	s := norm.NFC.String(input)
	s = lowerASCII(s)
	b := newBuffer(s)

	// Step 2: Windows path prefix.
	b, isWindowsPath := b.normalizeWindowsPathPrefix()

	// Step 3: scheme.
	b, scheme, hasScheme := b.dropScheme()

	// Step 4: userinfo + tilde expansion.
	b, user, _, hasUserinfo := b.dropUserinfo()
	if hasUserinfo && user != "" {
		b = b.replaceFirst("/~/", "/~"+user+"/", -1)
	}

	// Step 5: port.
	b = b.removePort()

	// Step 6: fragment.
	b = b.removeFragment()

	// Step 7: query.
	b = b.removeQuery()

	// Step 8: scp-style ":" -> "/" rewrite.
	if !hasScheme || scheme == "ssh" {
		if slash := b.firstSeparatorIndex(); slash < len(b.s) {
			b = b.replaceFirst(":", "/", slash)
		} else {
			b = b.replaceFirst(":", "/", -1)
		}
	}

	// Step 9: split on separators, drop empty segments, percent-decode.
	rawSegs := b.splitSegments()
	segs := make([]string, len(rawSegs))
	for i, seg := range rawSegs {
		segs[i] = percentDecodeSegment(seg)
	}

	// Step 10: strip trailing ".git" from the last segment.
	if n := len(segs); n > 0 {
		if trimmed, ok := strings.CutSuffix(segs[n-1], ".git"); ok && trimmed != "" {
			segs[n-1] = trimmed
		}
	}

	if len(segs) == 0 {
		return "", &InvalidLocationError{Input: input, Reason: "no host or path remained after normalization"}
	}

	// Host normalization: the result's host (first segment) must contain
	// only ASCII letters, digits, '-' and '.'. A non-ASCII host is given
	// one chance to transcode via IDNA before being rejected.
	host, err := asciiHost(segs[0], input)
	if err != nil {
		return "", err
	}
	segs[0] = host

	// Step 11: join.
	joined := strings.Join(segs, "/")

	// Step 12: leading slash.
	isFile := isWindowsPath || scheme == "file" || originalStartsWithSeparator
	if isFile {
		joined = "/" + joined
	}
	return joined, nil
}

// asciiHost returns host unchanged if it already consists only of ASCII
// letters, digits, '-' and '.', or its IDNA Punycode transcoding otherwise. It fails with *NonASCIIHostError if
// transcoding isn't possible.
func asciiHost(host, input string) (string, error) {
	if isASCIIHost(host) {
		return host, nil
	}
	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return "", &NonASCIIHostError{Host: host, Input: input, Err: err}
	}
	return ascii, nil
}

func isASCIIHost(host string) bool {
	for i := 0; i < len(host); i++ {
		c := host[i]
		if c >= 0x80 {
			return false
		}
		if !(isASCIILetter(c) || isASCIIDigit(c) || c == '-' || c == '.') {
			return false
		}
	}
	return true
}
