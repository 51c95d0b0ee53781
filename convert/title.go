package convert

import (
	"regexp"
	"strings"

	"github.com/jsphweid/xmlabc/emit"
	"github.com/jsphweid/xmlabc/model"
	"github.com/jsphweid/xmlabc/musicxml"
	"github.com/jsphweid/xmlabc/topology"
)

var lineBreaks = regexp.MustCompile(`\s*[\r\n]\s*`)

func creatorLines(text string) []string {
	var xs []string
	for _, l := range strings.Split(text, "\n") {
		xs = append(xs, strings.TrimSpace(l))
	}
	return xs
}

func creators(s *musicxml.Score) (composer, lyricist []string) {
	for _, c := range s.Identification.Creators {
		if c.Text == "" {
			continue
		}
		switch c.Type {
		case "composer":
			composer = append(composer, creatorLines(c.Text)...)
		case "lyricist", "transcriber":
			lyricist = append(lyricist, creatorLines(c.Text)...)
		}
	}
	return composer, lyricist
}

// mkTitle fills the title lines of the header: work and movement title,
// the credits that survive the filter, composers and lyricists.
func (p *Parser) mkTitle(s *musicxml.Score) {
	title, mvt := s.WorkTitle, s.MovementTitle
	composer, lyricist := creators(s)
	var credits []string
	for _, c := range s.Credits {
		credits = append(credits, lineBreaks.ReplaceAllString(strings.Join(c.Words, ""), " "))
	}
	credits = emit.FilterCredits(credits, title, mvt, composer, lyricist, p.opts.CreditFilter)

	var lines []string
	if title != "" {
		lines = append(lines, "T:"+title)
	}
	if mvt != "" {
		lines = append(lines, "T:"+mvt)
	}
	for _, c := range credits {
		lines = append(lines, "T:"+c)
	}
	for _, c := range composer {
		lines = append(lines, "C:"+c)
	}
	for _, c := range lyricist {
		lines = append(lines, "Z:"+c)
	}
	if len(lines) > 0 {
		p.out.Header.Title = strings.Join(lines, "\n")
	}
}

func midiSettings(m musicxml.MidiInstrument) model.MidiSettings {
	ms := model.DefaultMidiSettings()
	if m.Channel != nil {
		ms.Channel = *m.Channel
	}
	if m.Program != nil {
		ms.Program = *m.Program
	}
	if m.Volume != nil {
		ms.Volume = *m.Volume
	}
	if m.Pan != nil {
		ms.Pan = *m.Pan
	}
	if ms.Pan >= -90 && ms.Pan <= 90 {
		ms.Pan = (ms.Pan + 90) / 180 * 127 // -90..90 in musicxml
	}
	return ms
}

// doPartList collects the midi instruments of every part and returns the
// repaired part-list as a tree.
func (p *Parser) doPartList(s *musicxml.Score) []model.PartListNode {
	var events []topology.ListEvent
	for _, e := range s.PartList.Entries {
		if sp := e.Part; sp != nil {
			var instr []topology.Instrument
			for _, m := range sp.Midi {
				instr = append(instr, topology.Instrument{Id: m.Id, Settings: midiSettings(m)})
			}
			p.instMid = append(p.instMid, instr)
			events = append(events, topology.ListEvent{Part: &model.PartName{Name: sp.Name, Abbrev: sp.Abbrev}})
			continue
		}
		g := e.Group
		events = append(events, topology.ListEvent{
			Number: g.Number,
			Type:   g.Type,
			Group:  model.GroupData{Symbol: g.Symbol, Barline: g.Barline, Name: g.Name, Abbrev: g.Abbrev},
		})
	}
	return topology.Parse(topology.Repair(events))
}

func (p *Parser) metadata(s *musicxml.Score) model.ScoreMetadata {
	md := model.ScoreMetadata{
		Filename:   p.out.Name,
		Title:      s.WorkTitle,
		Voices:     p.out.VoiceCount(),
		UnitLength: p.defaultUnitLength(),
	}
	if md.Title == "" {
		md.Title = s.MovementTitle
	}
	if composer, _ := creators(s); len(composer) > 0 {
		md.Composer = composer[0]
	}
	return md
}
