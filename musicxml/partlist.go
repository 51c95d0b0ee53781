package musicxml

import (
	"encoding/xml"
	"io"
)

// PartList keeps part-groups and score-parts in document order, the
// grouping is expressed by the order of group starts and stops.
type PartList struct {
	Entries []PartListEntry
}

// PartListEntry holds either a Group or a Part.
type PartListEntry struct {
	Group *PartGroup
	Part  *ScorePart
}

type PartGroup struct {
	Number  string `xml:"number,attr"`
	Type    string `xml:"type,attr"`
	Symbol  string `xml:"group-symbol"`
	Barline string `xml:"group-barline"`
	Name    string `xml:"group-name"`
	Abbrev  string `xml:"group-abbreviation"`
}

type ScorePart struct {
	Id     string           `xml:"id,attr"`
	Name   string           `xml:"part-name"`
	Abbrev string           `xml:"part-abbreviation"`
	Midi   []MidiInstrument `xml:"midi-instrument"`
}

type MidiInstrument struct {
	Id      string   `xml:"id,attr"`
	Channel *int     `xml:"midi-channel"`
	Program *int     `xml:"midi-program"`
	Volume  *float64 `xml:"volume"`
	Pan     *float64 `xml:"pan"`
}

func (pl *PartList) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
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
			switch t.Name.Local {
			case "part-group":
				g := &PartGroup{}
				if err := d.DecodeElement(g, &t); err != nil {
					return err
				}
				pl.Entries = append(pl.Entries, PartListEntry{Group: g})
			case "score-part":
				p := &ScorePart{}
				if err := d.DecodeElement(p, &t); err != nil {
					return err
				}
				pl.Entries = append(pl.Entries, PartListEntry{Part: p})
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

// ScoreParts returns the score-parts in document order.
func (pl *PartList) ScoreParts() []*ScorePart {
	var ps []*ScorePart
	for _, e := range pl.Entries {
		if e.Part != nil {
			ps = append(ps, e.Part)
		}
	}
	return ps
}
