package model

type Measure struct {
	Part  int // part index
	Index int // measure index within the part
	Dur   int // nominal duration from the metre, in divisions
	Divs  int // divisions per quarter note

	Attr     string // signatures and tempo changes to put in front of every voice
	LeftBar  string // ":" at the start of a repeat, otherwise empty
	RightBar string
	Volta    string
}

func NewMeasure(part int) *Measure {
	m := &Measure{Part: part}
	m.Reset()
	return m
}

// Reset clears the fields that only hold for one measure.
func (m *Measure) Reset() {
	m.Attr = ""
	m.LeftBar = ""
	m.RightBar = "|"
	m.Volta = ""
}

type Lyric struct {
	Text    string
	Melisma bool // the last syllable continues into the next measure
}

// LyricLines maps a lyric line number to its text in one measure.
type LyricLines map[int]Lyric
