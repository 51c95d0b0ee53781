package model

import "strings"

// Entry is one item in a voice of one measure, either a *Note or an *Elem.
type Entry interface {
	Start() int
	Length() int
}

type Fraction struct {
	Num int
	Den int
}

type Note struct {
	Time   int       // in divisions
	Dur    int       // in divisions, 0 for grace notes
	Fact   *Fraction // time modification (actual, normal) of tuplet notes
	Tup    []string  // tuplet starts and stops
	Beam   int       // > 0 when beamed to the previous note
	Grace  bool
	Before string // abc code that goes before the note or chord
	After  string // the same after
	// "z" for a rest, "x" for an invisible rest, otherwise one abc pitch per
	// chord note, a trailing "-" marks a tie
	Pitches []string
	Keys    []uint8 // midi keys of the sounding pitches, parallel to Pitches
	Lyrics  map[int]string
}

func NewNote(dur int) *Note {
	return &Note{Dur: dur, Lyrics: map[int]string{}}
}

// NewRest returns an invisible rest used to fill holes in a voice.
func NewRest(t, dur int) *Note {
	n := NewNote(dur)
	n.Time = t
	n.Pitches = []string{"x"}
	return n
}

func (n *Note) Start() int  { return n.Time }
func (n *Note) Length() int { return n.Dur }

func (n *Note) IsRest() bool {
	return len(n.Pitches) > 0 && n.Pitches[0] == "z"
}

func (n *Note) IsChord() bool {
	return len(n.Pitches) > 1
}

func (n *Note) HasTup(tag string) bool {
	for _, t := range n.Tup {
		if t == tag {
			return true
		}
	}
	return false
}

// Tied reports whether the i-th pitch starts a tie.
func (n *Note) Tied(i int) bool {
	return i < len(n.Pitches) && strings.HasSuffix(n.Pitches[i], "-")
}

// Elem is any abc string that is not a note: barlines, inline fields,
// annotations, chord symbols.
type Elem struct {
	Time int
	Str  string
}

func (e *Elem) Start() int  { return e.Time }
func (e *Elem) Length() int { return 0 }

// Voices holds the entries of one measure, keyed by source voice number.
type Voices map[int][]Entry
