package identity

import (
	"testing"

	"github.com/go-quicktest/qt"
)

var canonicalTests = []struct {
	name string
	in   string
	want string
}{
	{"https url", "https://example.com/mona/LinkedList", "example.com/mona/linkedlist"},
	{"scp style", "git@example.com:mona/LinkedList.git", "example.com/mona/linkedlist"},
	{"ssh tilde", "ssh://mona@example.com/~/LinkedList.git", "example.com/~mona/linkedlist"},
	{"explicit port", "example.com:443/mona/LinkedList", "example.com/mona/linkedlist"},
	{"file url", "file:///Users/mona/LinkedList", "/users/mona/linkedlist"},
	{"windows drive", `c:\user\mona\LinkedList`, "/user/mona/linkedlist"},
	{"windows unc-ish prefix", `\\?\C:\user\mona\LinkedList`, "/user/mona/linkedlist"},
	{"percent escape", "example.com/mona/%F0%9F%94%97List", "example.com/mona/\U0001F517list"},
	{"query and fragment", "example.com/mona/LinkedList?utm=x#top", "example.com/mona/linkedlist"},
}

func TestCanonicalIdentity(t *testing.T) {
	UseCanonicalProvider()
	for _, test := range canonicalTests {
		t.Run(test.name, func(t *testing.T) {
			id, err := New(test.in)
			qt.Assert(t, qt.IsNil(err))
			qt.Assert(t, qt.Equals(id.String(), test.want))
		})
	}
}

func TestCanonicalIdentityIdempotent(t *testing.T) {
	UseCanonicalProvider()
	for _, test := range canonicalTests {
		t.Run(test.name, func(t *testing.T) {
			id1, err := New(test.in)
			qt.Assert(t, qt.IsNil(err))
			id2, err := New(id1.String())
			qt.Assert(t, qt.IsNil(err))
			qt.Assert(t, qt.Equals(id2.String(), id1.String()))
		})
	}
}

func TestCanonicalIdentityCaseAndNFCInsensitive(t *testing.T) {
	UseCanonicalProvider()
	id1, err := New("https://Example.com/Mona/LinkedList")
	qt.Assert(t, qt.IsNil(err))
	id2, err := New("https://example.com/mona/linkedlist")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(id1.Equal(id2)))

	decomposed, err := New("https://example.com/mona/éclair")
	qt.Assert(t, qt.IsNil(err))
	precomposed, err := New("https://example.com/mona/éclair")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(decomposed.Equal(precomposed)))
}

func TestCanonicalIdentityNonASCIIHost(t *testing.T) {
	UseCanonicalProvider()
	id, err := New("https://例え.com/mona/LinkedList")
	qt.Assert(t, qt.IsNil(err))
	s := id.String()
	qt.Assert(t, qt.IsTrue(isASCIIHost(hostOf(s))))
	qt.Assert(t, qt.Equals(pathAfterHost(s), "mona/linkedlist"))
}

func hostOf(s string) string {
	if i := indexByteHelper(s, '/'); i >= 0 {
		return s[:i]
	}
	return s
}

func pathAfterHost(s string) string {
	if i := indexByteHelper(s, '/'); i >= 0 {
		return s[i+1:]
	}
	return ""
}

func indexByteHelper(s string, c byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			return i
		}
	}
	return -1
}

func TestLegacyIdentity(t *testing.T) {
	UseLegacyProvider()
	defer UseCanonicalProvider()

	id, err := New("https://example.com/mona/LinkedList.git")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(id.String(), "linkedlist"))
}

func TestProviderSwitchFreezesExistingIdentities(t *testing.T) {
	UseCanonicalProvider()
	canonical, err := New("https://example.com/mona/LinkedList")
	qt.Assert(t, qt.IsNil(err))

	UseLegacyProvider()
	defer UseCanonicalProvider()

	qt.Assert(t, qt.Equals(canonical.String(), "example.com/mona/linkedlist"))

	legacy, err := New("https://example.com/mona/LinkedList")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(legacy.String(), "linkedlist"))
}

func TestIdentityRoundTrip(t *testing.T) {
	UseCanonicalProvider()
	id, err := New("https://example.com/mona/LinkedList")
	qt.Assert(t, qt.IsNil(err))

	text, err := id.MarshalText()
	qt.Assert(t, qt.IsNil(err))

	var id2 Identity
	qt.Assert(t, qt.IsNil(id2.UnmarshalText(text)))
	qt.Assert(t, qt.IsTrue(id.Equal(id2)))
}

func TestCanonicalIdentityNeverContainsRemovedComponents(t *testing.T) {
	UseCanonicalProvider()
	for _, test := range canonicalTests {
		id, err := New(test.in)
		qt.Assert(t, qt.IsNil(err))
		s := id.String()
		qt.Assert(t, qt.IsFalse(containsAny(s, "://", "?", "#")))
		qt.Assert(t, qt.IsFalse(len(s) > 0 && s[len(s)-1] == '/'))
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		for i := 0; i+len(sub) <= len(s); i++ {
			if s[i:i+len(sub)] == sub {
				return true
			}
		}
	}
	return false
}
