// Package musicxml decodes partwise MusicXML documents, plain or
// compressed, keeping the document order of the measure contents.
package musicxml

import (
	"encoding/xml"
	"io"
	"strconv"
)

type Score struct {
	XMLName        xml.Name       `xml:"score-partwise"`
	WorkTitle      string         `xml:"work>work-title"`
	MovementTitle  string         `xml:"movement-title"`
	Identification Identification `xml:"identification"`
	Credits        []Credit       `xml:"credit"`
	PartList       PartList       `xml:"part-list"`
	Parts          []Part         `xml:"part"`
}

type Identification struct {
	Creators []Creator `xml:"creator"`
}

type Creator struct {
	Type string `xml:"type,attr"`
	Text string `xml:",chardata"`
}

type Credit struct {
	Words []string `xml:"credit-words"`
}

type Part struct {
	Id       string    `xml:"id,attr"`
	Measures []Measure `xml:"measure"`
}

// Measure keeps its children in document order. Elements the converter
// has no use for are skipped.
type Measure struct {
	Number string
	Events []interface{}
}

func decodeEvent(d *xml.Decoder, t xml.StartElement) (interface{}, error) {
	var v interface{}
	switch t.Name.Local {
	case "note":
		v = &Note{}
	case "attributes":
		v = &Attributes{}
	case "direction":
		v = &Direction{}
	case "sound":
		v = &Sound{}
	case "harmony":
		v = &Harmony{}
	case "barline":
		v = &Barline{}
	case "backup":
		v = &Backup{}
	case "forward":
		v = &Forward{}
	case "print":
		v = &Print{}
	default:
		return nil, d.Skip()
	}
	return v, d.DecodeElement(v, &t)
}

func (m *Measure) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, attr := range start.Attr {
		if attr.Name.Local == "number" {
			m.Number = attr.Value
		}
	}
	for {
		token, err := d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := token.(type) {
		case xml.StartElement:
			ev, err := decodeEvent(d, t)
			if err != nil {
				return err
			}
			if ev != nil {
				m.Events = append(m.Events, ev)
			}
		case xml.EndElement:
			return nil
		}
	}
}

type Note struct {
	PrintObject string            `xml:"print-object,attr"`
	Chord       *struct{}         `xml:"chord"`
	Grace       *Grace            `xml:"grace"`
	Pitch       *Pitch            `xml:"pitch"`
	Rest        *struct{}         `xml:"rest"`
	Duration    *int              `xml:"duration"`
	Ties        []Tie             `xml:"tie"`
	Instrument  *Instrument       `xml:"instrument"`
	Voice       string            `xml:"voice"`
	Accidental  *string           `xml:"accidental"`
	TimeMod     *TimeModification `xml:"time-modification"`
	Staff       string            `xml:"staff"`
	Beams       []string          `xml:"beam"`
	Notations   []Node            `xml:"notations"`
	Lyrics      []Node            `xml:"lyric"`
}

type Grace struct {
	Slash string `xml:"slash,attr"`
}

type Pitch struct {
	Step   string   `xml:"step"`
	Alter  *float64 `xml:"alter"`
	Octave string   `xml:"octave"`
}

type Tie struct {
	Type string `xml:"type,attr"`
}

type Instrument struct {
	Id string `xml:"id,attr"`
}

type TimeModification struct {
	Actual int `xml:"actual-notes"`
	Normal int `xml:"normal-notes"`
}

func number(s string, def int) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// VoiceNumber returns the voice, 1 when missing.
func (n *Note) VoiceNumber() int { return number(n.Voice, 1) }

// StaffNumber returns the staff, 1 when missing.
func (n *Note) StaffNumber() int { return number(n.Staff, 1) }

// HasTie reports whether the note has a tie of the given type.
func (n *Note) HasTie(typ string) bool {
	for _, t := range n.Ties {
		if t.Type == typ {
			return true
		}
	}
	return false
}

// Notation returns all notation elements matching path, over all
// notations blocks of the note.
func (n *Note) Notation(path string) []*Node {
	var xs []*Node
	for i := range n.Notations {
		xs = append(xs, n.Notations[i].FindAll(path)...)
	}
	return xs
}

type Attributes struct {
	Divisions int         `xml:"divisions"`
	Keys      []Key       `xml:"key"`
	Times     []Time      `xml:"time"`
	Clefs     []Clef      `xml:"clef"`
	Transpose []Transpose `xml:"transpose"`
}

type Key struct {
	Fifths *int   `xml:"fifths"`
	Mode   string `xml:"mode"`
}

type Time struct {
	Beats    string `xml:"beats"`
	BeatType string `xml:"beat-type"`
}

type Clef struct {
	Number       string `xml:"number,attr"`
	Sign         string `xml:"sign"`
	Line         string `xml:"line"`
	OctaveChange string `xml:"clef-octave-change"`
}

type Transpose struct {
	Chromatic    int    `xml:"chromatic"`
	OctaveChange string `xml:"octave-change"`
}

type Direction struct {
	Placement string `xml:"placement,attr"`
	DefaultY  string `xml:"default-y,attr"`
	Types     []Node `xml:"direction-type"`
	Staff     string `xml:"staff"`
	Sound     *Sound `xml:"sound"`
}

// StaffNumber returns the staff, 1 when missing.
func (d *Direction) StaffNumber() int { return number(d.Staff, 1) }

type Sound struct {
	Tempo string `xml:"tempo,attr"`
}

type Harmony struct {
	Root    Step     `xml:"root"`
	Kind    string   `xml:"kind"`
	Degrees []Degree `xml:"degree"`
	Bass    *Step    `xml:"bass"`
	Staff   string   `xml:"staff"`
}

// StaffNumber returns the staff, 1 when missing.
func (h *Harmony) StaffNumber() int { return number(h.Staff, 1) }

// Step is the root or bass of a chord symbol.
type Step struct {
	RootStep  string `xml:"root-step"`
	RootAlter string `xml:"root-alter"`
	BassStep  string `xml:"bass-step"`
	BassAlter string `xml:"bass-alter"`
}

type Degree struct {
	Value string `xml:"degree-value"`
	Alter string `xml:"degree-alter"`
}

type Barline struct {
	Location string  `xml:"location,attr"`
	BarStyle string  `xml:"bar-style"`
	Repeat   *Repeat `xml:"repeat"`
	Ending   *Ending `xml:"ending"`
}

type Repeat struct {
	Direction string `xml:"direction,attr"`
}

type Ending struct {
	Number *string `xml:"number,attr"`
	Type   string  `xml:"type,attr"`
	Text   string  `xml:",chardata"`
}

type Backup struct {
	Duration int `xml:"duration"`
}

type Forward struct {
	Duration int `xml:"duration"`
}

type Print struct {
	NewSystem string `xml:"new-system,attr"`
	NewPage   string `xml:"new-page,attr"`
}
