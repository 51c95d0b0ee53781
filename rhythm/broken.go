// Package rhythm rewrites dotted note pairs into abc broken rhythm.
package rhythm

import "github.com/jsphweid/xmlabc/model"

// MkBroken scans the notes of one voice in one measure. When two adjacent
// notes outside tuplets, the second one beamed to the first, have a 1:3 or
// 3:1 duration ratio, both get the same duration and the first note gets
// a "<" or ">" marker. A rewritten pair is never chained to the next note.
func MkBroken(entries []model.Entry) {
	var ns []*model.Note
	for _, e := range entries {
		if n, ok := e.(*model.Note); ok {
			ns = append(ns, n)
		}
	}
	for i := 0; i < len(ns)-1; i++ {
		n1, n2 := ns[i], ns[i+1]
		if n1.Fact != nil || n2.Fact != nil || n1.Dur <= 0 || n2.Beam == 0 {
			continue
		}
		switch {
		case n1.Dur*3 == n2.Dur:
			n2.Dur = (2 * n2.Dur) / 3
			n1.Dur = n1.Dur * 2
			n1.After = "<" + n1.After
			i++
		case n2.Dur*3 == n1.Dur:
			n1.Dur = (2 * n1.Dur) / 3
			n2.Dur = n2.Dur * 2
			n1.After = ">" + n1.After
			i++
		}
	}
}
