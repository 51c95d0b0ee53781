package bracket

import (
	"github.com/jsphweid/xmlabc/diag"
	"github.com/jsphweid/xmlabc/model"
)

type slurEnd struct {
	typ   string
	voice int
	note  *model.Note
	grace bool
}

// SlurMatcher pairs slur starts and stops by slur number. Slurs may span
// measures, so one matcher lives for a whole document.
type SlurMatcher struct {
	log     *diag.Log
	pending map[string]slurEnd
}

func NewSlurMatcher(log *diag.Log) *SlurMatcher {
	return &SlurMatcher{log: log, pending: map[string]slurEnd{}}
}

// Match registers one end of slur num on note. A completed pair in one
// voice, with the start first and not a grace slur ending on the note that
// closes the grace sequence, gets "(" in front of the start note and ")"
// after the stop note. Pairs spanning two voices are dropped.
func (s *SlurMatcher) Match(typ, num string, voice int, note *model.Note, grace, stopGrace bool, m *model.Measure) {
	if typ != "start" && typ != "stop" {
		return // continue has no abc equivalent
	}
	if num == "" {
		num = "1"
	}
	first, ok := s.pending[num]
	if !ok {
		s.pending[num] = slurEnd{typ: typ, voice: voice, note: note, grace: grace}
		return
	}
	if typ == first.typ {
		s.log.Warnf("double slur numbers %s-%s in part %d, measure %d, voice %d note %v, first discarded",
			typ, num, m.Part+1, m.Index+1, voice, note.Pitches)
		s.pending[num] = slurEnd{typ: typ, voice: voice, note: note, grace: grace}
		return
	}
	if voice == first.voice && first.typ == "start" && (!first.grace || !stopGrace) {
		first.note.Before = "(" + first.note.Before // keep left to right order
		note.After += ")"
	}
	delete(s.pending, num)
}

// Pending returns the number of slurs still waiting for their other end.
func (s *SlurMatcher) Pending() int {
	return len(s.pending)
}
