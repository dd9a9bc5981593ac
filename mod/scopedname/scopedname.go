// Package scopedname implements the namespace-scoped identity used by the
// registry protocol: strings of the form "@namespace/name" with strict
// Unicode-aware validation and equivalence rules.
package scopedname

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

const (
	maxNamespaceLen = 40
	maxNameLen      = 128
)

// Name is a parsed "@namespace/name" identifier. The zero value is not
// valid; construct one with [Parse].
type Name struct {
	namespace string // includes the leading '@'
	name      string
}

// Parse splits s into a namespace and a name, validating both. Unlike most
// of this core's error paths, parse failure is reported as (Name{}, false)
// rather than an error value: callers decide what an invalid identifier
// means in their context.
func Parse(s string) (Name, bool) {
	namespace, name, ok := strings.Cut(s, "/")
	if !ok || namespace == "" || name == "" {
		return Name{}, false
	}
	if strings.Contains(name, "/") {
		return Name{}, false
	}
	if !validNamespace(namespace) {
		return Name{}, false
	}
	if !validName(name) {
		return Name{}, false
	}
	return Name{namespace: namespace, name: name}, true
}

// Namespace returns the namespace, including its leading '@'.
func (n Name) Namespace() string { return n.namespace }

// Name returns the unqualified name.
func (n Name) Name() string { return n.name }

// IsValid reports whether n was produced by [Parse].
func (n Name) IsValid() bool { return n.namespace != "" }

// String returns the display form "namespace/name".
func (n Name) String() string {
	return n.namespace + "/" + n.name
}

// Equal reports whether n and other denote the same scoped name under
// NFKC normalization plus case- and diacritic-insensitive folding.
func (n Name) Equal(other Name) bool {
	return foldedKey(n) == foldedKey(other)
}

// Compare orders n and other by their folded form, lexicographically by
// code point. It agrees with Equal: Compare(a, b) == 0 iff a.Equal(b).
func (n Name) Compare(other Name) int {
	return strings.Compare(foldedKey(n), foldedKey(other))
}

// FoldKey returns the string used for equality, ordering, and hashing:
// NFKC-normalized, then case-, diacritic-, and width-folded. Two [Name]
// values are equivalent exactly when their FoldKey results are equal, so
// it's also suitable as a map key for deduplication.
func (n Name) FoldKey() string {
	return foldedKey(n)
}

func foldedKey(n Name) string {
	return foldEquivalent(n.namespace) + "/" + foldEquivalent(n.name)
}

// foldEquivalent applies NFKC precomposition followed by full case
// folding, then strips combining marks (the standard x/text recipe for
// diacritic-insensitive comparison: decompose, drop nonspacing marks,
// recompose), then folds fullwidth/halfwidth variants to their narrow
// forms.
func foldEquivalent(s string) string {
	s = norm.NFKC.String(s)
	s, _, _ = transform.String(cases.Fold(), s)
	s = stripDiacritics(s)
	s, _, _ = transform.String(width.Fold, s)
	return s
}

var diacriticStripper = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

func stripDiacritics(s string) string {
	out, _, err := transform.String(diacriticStripper, s)
	if err != nil {
		return s
	}
	return out
}

// validNamespace implements the regex
// ^@[a-zA-Z0-9](?:[a-zA-Z0-9]|-(?=[a-zA-Z0-9])){0,39}$
// by hand, since Go's RE2-based regexp engine doesn't support lookahead.
// The lookahead is equivalent to: a '-' is only allowed when immediately
// followed by an alphanumeric, which as a side effect also forbids
// leading, trailing, and doubled hyphens.
func validNamespace(s string) bool {
	if len(s) == 0 || s[0] != '@' {
		return false
	}
	rest := s[1:]
	if len(rest) == 0 || len(rest) > maxNamespaceLen {
		return false
	}
	if !isAlnumASCII(rest[0]) {
		return false
	}
	for i := 1; i < len(rest); i++ {
		c := rest[i]
		if c == '-' {
			if i+1 >= len(rest) || !isAlnumASCII(rest[i+1]) {
				return false
			}
			continue
		}
		if !isAlnumASCII(c) {
			return false
		}
	}
	return true
}

func isAlnumASCII(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// validName requires the first code point to satisfy the Unicode
// XID_Start property and all remaining code points to satisfy
// XID_Continue. Go's standard library doesn't ship the
// XID_Start/XID_Continue derived-property tables (they're UAX #31
// properties, not exposed by either "unicode" or golang.org/x/text), so
// this reconstructs the commonly used approximation from the categories
// those properties are defined in terms of: XID_Start ⊆ letters and
// letter-numbers, XID_Continue additionally allows combining marks,
// decimal digits, and the connector-punctuation underscore. See
// DESIGN.md for why no pack library could supply this directly.
func validName(s string) bool {
	if len(s) == 0 || len(s) > maxNameLen {
		return false
	}
	first := true
	for _, r := range s {
		if first {
			if !isXIDStart(r) {
				return false
			}
			first = false
			continue
		}
		if !isXIDContinue(r) {
			return false
		}
	}
	return true
}

func isXIDStart(r rune) bool {
	return unicode.IsLetter(r) || unicode.Is(unicode.Nl, r)
}

func isXIDContinue(r rune) bool {
	return isXIDStart(r) ||
		unicode.IsDigit(r) ||
		unicode.Is(unicode.Mn, r) ||
		unicode.Is(unicode.Mc, r) ||
		unicode.Is(unicode.Pc, r)
}
