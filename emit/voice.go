// Package emit renders frozen measures as abc text and assembles the
// complete tune.
package emit

import (
	"strings"

	"github.com/jsphweid/xmlabc/bracket"
	"github.com/jsphweid/xmlabc/duration"
	"github.com/jsphweid/xmlabc/model"
)

// OutVoice renders one voice of one measure. Beamed notes and elements are
// glued to what precedes them, other notes get a leading space.
func OutVoice(entries []model.Entry, divs, unitL int) string {
	tuplets := bracket.TupletPrefixes(entries)
	var b strings.Builder
	for i, e := range entries {
		switch x := e.(type) {
		case *model.Note:
			if x.Beam == 0 {
				b.WriteString(" ")
			}
			b.WriteString(RenderNote(x, tuplets[i], divs, unitL))
		case *model.Elem:
			b.WriteString(x.Str)
		}
	}
	return b.String()
}

// RenderNote writes tuplet prefix, decorations, pitch or chord, duration
// and trailing decorations. A chord whose notes are all tied gets a
// single tie after the closing bracket.
func RenderNote(n *model.Note, tuplet string, divs, unitL int) string {
	dur := duration.ForNote(n, divs, unitL)
	chord := n.IsChord()
	pitches := n.Pitches
	tie := ""
	if chord {
		untied := make([]string, 0, len(pitches))
		for _, p := range pitches {
			if strings.HasSuffix(p, "-") {
				untied = append(untied, strings.TrimSuffix(p, "-"))
			}
		}
		if len(untied) == len(pitches) {
			pitches = untied
			tie = "-"
		}
	}
	s := tuplet + n.Before
	if chord {
		s += "[" + strings.Join(pitches, "") + "]" + tie
	} else {
		s += strings.Join(pitches, "")
	}
	if strings.HasSuffix(s, "-") {
		s, tie = s[:len(s)-1], "-"
	}
	return s + dur + tie + n.After
}
