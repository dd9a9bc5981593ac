// Package identity gives every external package dependency a single,
// stable identifier independent of the many syntactic forms its source
// location can take: URL schemes, SSH scp-style addresses, file paths on
// several operating systems, percent-encoding, and Unicode normalization
// variants.
//
// Two algorithms can produce that identifier: the legacy, last-path-
// component scheme kept for backward compatibility ([LegacyProvider]),
// and the canonical, full-URL-normalization scheme ([CanonicalProvider]).
// A process-wide switch ([SetProvider]) selects which one backs newly
// constructed [Identity] values; values already constructed are frozen.
package identity

import "sync/atomic"

// Provider implements one of the two identity-construction algorithms.
type Provider interface {
	// FromLocation derives an identity string from a source location:
	// a URL, an scp-style address, or a bare path.
	FromLocation(location string) (string, error)
	// FromFilePath derives an identity string from an absolute file path.
	FromFilePath(path string) (string, error)
}

var activeProvider atomic.Pointer[Provider]

func init() {
	var p Provider = CanonicalProvider{}
	activeProvider.Store(&p)
}

// SetProvider changes the process-wide identity algorithm used by
// constructors invoked after this call returns. Identities constructed
// before the change are unaffected: the [Identity] type stores only its
// resulting text, never a reference back to the provider that produced
// it.
//
// This is intended to be called once during process initialization, not
// toggled during steady-state operation.
func SetProvider(p Provider) {
	activeProvider.Store(&p)
}

// UseLegacyProvider switches the process to the legacy, last-path-
// component identity scheme. It is a convenience wrapper around
// SetProvider(LegacyProvider{}).
func UseLegacyProvider() {
	SetProvider(LegacyProvider{})
}

// UseCanonicalProvider switches the process to the canonical identity
// scheme. This is the default.
func UseCanonicalProvider() {
	SetProvider(CanonicalProvider{})
}

func currentProvider() Provider {
	return *activeProvider.Load()
}

// Identity is a single, stable identifier for an external package
// dependency, derived from its source location. The zero value is not a
// valid identity; use [New] or [NewFromFilePath] to construct one.
//
// Identity values are immutable and comparable with ==. Equality,
// ordering, and hashing are all defined over the canonical textual form.
type Identity struct {
	text string
}

// New derives an Identity from a source location string (a URL, an
// scp-style address, or a bare path), using the currently active
// provider.
func New(location string) (Identity, error) {
	text, err := currentProvider().FromLocation(location)
	if err != nil {
		return Identity{}, err
	}
	return Identity{text: text}, nil
}

// NewFromFilePath derives an Identity from an absolute file path, using
// the currently active provider.
func NewFromFilePath(path string) (Identity, error) {
	text, err := currentProvider().FromFilePath(path)
	if err != nil {
		return Identity{}, err
	}
	return Identity{text: text}, nil
}

// IsValid reports whether id was produced by a constructor (as opposed to
// being the zero value).
func (id Identity) IsValid() bool {
	return id.text != ""
}

// String returns the identity's canonical textual form.
func (id Identity) String() string {
	return id.text
}

// Equal reports whether id and other have the same textual form.
func (id Identity) Equal(other Identity) bool {
	return id.text == other.text
}

// Compare orders identities by their textual form, byte-for-byte.
func (id Identity) Compare(other Identity) int {
	switch {
	case id.text < other.text:
		return -1
	case id.text > other.text:
		return 1
	default:
		return 0
	}
}

// MarshalText implements [encoding.TextMarshaler].
func (id Identity) MarshalText() ([]byte, error) {
	return []byte(id.text), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler]. It round-trips the
// string produced by MarshalText without re-running either provider: the
// text is already canonical.
func (id *Identity) UnmarshalText(text []byte) error {
	id.text = string(text)
	return nil
}
