// Package bracket matches the constructs that span several notes: tuplets,
// slurs and lyric melismas.
package bracket

import (
	"fmt"

	"github.com/jsphweid/xmlabc/model"
)

// Span is one tuplet: P notes in the time of Q, relative to the enclosing
// tuplet, covering R notes from entry index Start on.
type Span struct {
	Start int
	P     int
	Q     int
	R     int
}

func (s Span) String() string {
	if s.P == 3 && s.Q == 2 && s.R == 3 {
		return "(3"
	}
	return fmt.Sprintf("(%d:%d:%d", s.P, s.Q, s.R)
}

type openTuplet struct {
	start int
	fact  model.Fraction
	p, q  int
	count int
}

func countTag(n *model.Note, tag string) int {
	c := 0
	for _, t := range n.Tup {
		if t == tag {
			c++
		}
	}
	return c
}

// Tuplets scans one voice of one measure and returns the tuplets in the
// order they close, inner ones before outer ones. A tuplet opens on a note
// with a time modification, either through a start tag or because no
// tuplet is open yet. It closes on a stop tag, on the first following note
// without time modification or at the end of the measure. Elements and
// grace notes are skipped.
func Tuplets(entries []model.Entry) []Span {
	var stack []*openTuplet
	var spans []Span
	closeTop := func() {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		spans = append(spans, Span{Start: top.start, P: top.p, Q: top.q, R: top.count})
	}
	for i, e := range entries {
		n, ok := e.(*model.Note)
		if !ok || n.Grace {
			continue
		}
		if n.Fact == nil {
			for len(stack) > 0 {
				closeTop()
			}
			continue
		}
		starts := countTag(n, "start")
		if len(stack) == 0 && starts == 0 {
			starts = 1
		}
		for k := 0; k < starts; k++ {
			parent := model.Fraction{Num: 1, Den: 1}
			if len(stack) > 0 {
				parent = stack[len(stack)-1].fact
			}
			p, q := n.Fact.Num/parent.Num, n.Fact.Den/parent.Den
			if p == 0 || q == 0 {
				p, q = n.Fact.Num, n.Fact.Den
			}
			stack = append(stack, &openTuplet{start: i, fact: *n.Fact, p: p, q: q})
		}
		for _, o := range stack {
			o.count++
		}
		for k := countTag(n, "stop"); k > 0 && len(stack) > 0; k-- {
			closeTop()
		}
	}
	for len(stack) > 0 {
		closeTop()
	}
	return spans
}

// TupletPrefixes renders the tuplets of one voice in one measure, keyed by
// the index of their first note. Outer tuplets come before inner ones.
func TupletPrefixes(entries []model.Entry) map[int]string {
	res := map[int]string{}
	for _, s := range Tuplets(entries) {
		res[s.Start] = s.String() + res[s.Start]
	}
	return res
}
