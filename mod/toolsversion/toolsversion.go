// Package toolsversion parses the tools-version comment that every package
// manifest begins with and selects among version-specific manifest
// variants present in a package directory.
package toolsversion

import (
	"strings"

	"golang.org/x/mod/semver"
)

// defaultVersion is returned when a manifest's first line carries no
// tools-version comment at all: the pre-specifier era.
const defaultVersion = "3.0.0"

var knownMisspellings = []string{"swift-tool", "tool-version"}

// Parse extracts the declared tools version from the first line of a
// manifest's contents. firstLine is everything up to (not including) the
// first newline.
func Parse(firstLine string) (string, error) {
	trimmed := strings.TrimRight(firstLine, "\r")
	lower := strings.ToLower(trimmed)

	specifier, ok := matchDirective(lower)
	if !ok {
		for _, misspelling := range knownMisspellings {
			if strings.Contains(lower, misspelling) {
				return "", &MalformedVersionError{Specifier: trimmed}
			}
		}
		return defaultVersion, nil
	}

	v, ok := normalize(specifier)
	if !ok {
		return "", &MalformedVersionError{Specifier: specifier}
	}
	return v, nil
}

const directivePrefix = "// swift-tools-version:"

// matchDirective implements the case-insensitive pattern
// ^// swift-tools-version:(.*?)(?:;.*|$), operating on an already
// lower-cased line. It returns the first capture group, trimmed of a
// trailing ";..." suffix.
func matchDirective(lowerLine string) (string, bool) {
	rest, ok := strings.CutPrefix(lowerLine, directivePrefix)
	if !ok {
		return "", false
	}
	if semi := strings.IndexByte(rest, ';'); semi >= 0 {
		rest = rest[:semi]
	}
	return rest, true
}

// normalize turns a bare specifier like "5.3" or "4" into a full
// major.minor.patch string, using golang.org/x/mod/semver's canonical
// form (which pads missing minor/patch components with zero).
func normalize(specifier string) (string, bool) {
	specifier = strings.TrimSpace(specifier)
	if specifier == "" {
		return "", false
	}
	vform := "v" + specifier
	if !semver.IsValid(vform) {
		return "", false
	}
	canon := semver.Canonical(vform)
	return strings.TrimPrefix(canon, "v"), true
}
