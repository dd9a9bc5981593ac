package identity

import "runtime"

// LegacyProvider implements the last-path-component identity algorithm,
// kept for backward compatibility with identities minted before the
// canonical scheme existed.
type LegacyProvider struct{}

var _ Provider = LegacyProvider{}

// FromLocation implements Provider.
func (LegacyProvider) FromLocation(location string) (string, error) {
	return legacyIdentity(location)
}

// FromFilePath implements Provider.
func (LegacyProvider) FromFilePath(path string) (string, error) {
	return legacyIdentity(path)
}

// legacySeparators reports whether '\\' should be treated as a path
// separator in addition to '/'. The original implementation makes this a
// host-OS-dependent, build-time choice; here it's a single runtime
// predicate rather than a separate build-tagged file, since it's the only
// place the distinction matters.
func legacySeparators() bool {
	return runtime.GOOS == "windows"
}

func legacyIdentity(s string) (string, error) {
	if s == "" {
		return "", &InvalidLocationError{Input: s, Reason: "empty location"}
	}
	trimmed := s
	if legacySeparators() && len(trimmed) > 0 && trimmed[len(trimmed)-1] == '\\' {
		trimmed = trimmed[:len(trimmed)-1]
	} else if len(trimmed) > 0 && trimmed[len(trimmed)-1] == '/' {
		trimmed = trimmed[:len(trimmed)-1]
	}

	last := lastPathComponent(trimmed)
	b := newBuffer(last)
	if stripped, ok := b.removeSuffix(".git"); ok && stripped.s != "" {
		b = stripped
	}
	if b.s == "" {
		return "", &InvalidLocationError{Input: s, Reason: "no path component found"}
	}
	return lowerASCII(b.s), nil
}

func lastPathComponent(s string) string {
	windows := legacySeparators()
	idx := -1
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' || (windows && s[i] == '\\') {
			idx = i
			break
		}
	}
	return s[idx+1:]
}

