package scopedname

import (
	"testing"

	"github.com/go-quicktest/qt"
)

var acceptTests = []string{
	"@1/A",
	"@mona/LinkedList",
	"@m-o-n-a/LinkedList",
	"@mona/Linked_List",
	"@mona/链表",
	"@mona/قائمةمرتبطة",
}

func TestParseAccepts(t *testing.T) {
	for _, s := range acceptTests {
		t.Run(s, func(t *testing.T) {
			_, ok := Parse(s)
			qt.Assert(t, qt.IsTrue(ok))
		})
	}
}

var rejectTests = []string{
	"",
	"/",
	"@/",
	"@mona",
	"LinkedList",
	"mona/LinkedList",
	"@-mona/X",
	"@mona-/X",
	"@mo--na/X",
	"@mona/",
	"@mona/_X",
	"@mona/\U0001F517List",
	"@mona/Linked-List",
	"@mona/LinkedList.swift",
	"@mona/i⁹",
}

func TestParseRejects(t *testing.T) {
	for _, s := range rejectTests {
		t.Run(s, func(t *testing.T) {
			_, ok := Parse(s)
			qt.Assert(t, qt.IsFalse(ok))
		})
	}
}

var equivalentTests = []struct {
	a, b string
}{
	{"@MONA/LINKEDLIST", "@mona/linkedlist"},
	{"@mona/LïnkédLîst", "@mona/LinkedList"},
	{"@mona/ǅungla", "@mona/dzungla"},
	{"@mona/ＬｉｎｋｅｄＬｉｓｔ", "@mona/LinkedList"},
	{"@mona/Éclair", "@mona/Éclair"},
}

func TestEquivalence(t *testing.T) {
	for _, test := range equivalentTests {
		t.Run(test.a+" == "+test.b, func(t *testing.T) {
			a, ok := Parse(test.a)
			qt.Assert(t, qt.IsTrue(ok))
			b, ok := Parse(test.b)
			qt.Assert(t, qt.IsTrue(ok))
			qt.Assert(t, qt.IsTrue(a.Equal(b)))
			qt.Assert(t, qt.Equals(a.Compare(b), 0))
			qt.Assert(t, qt.Equals(a.FoldKey(), b.FoldKey()))
		})
	}
}

func TestEqualityIsAnEquivalenceRelation(t *testing.T) {
	a, _ := Parse("@mona/LinkedList")
	b, _ := Parse("@MONA/LINKEDLIST")
	c, _ := Parse("@mona/linkedlist")

	qt.Assert(t, qt.IsTrue(a.Equal(a)))     // reflexive
	qt.Assert(t, qt.IsTrue(a.Equal(b)))     // symmetric (a,b)
	qt.Assert(t, qt.IsTrue(b.Equal(a)))     // symmetric (b,a)
	qt.Assert(t, qt.IsTrue(b.Equal(c)))     // transitive leg
	qt.Assert(t, qt.IsTrue(a.Equal(c)))     // transitive conclusion
}

func TestStringRoundTrip(t *testing.T) {
	n, ok := Parse("@mona/LinkedList")
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(n.String(), "@mona/LinkedList"))
	qt.Assert(t, qt.Equals(n.Namespace(), "@mona"))
	qt.Assert(t, qt.Equals(n.Name(), "LinkedList"))
}
