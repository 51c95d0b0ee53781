package convert

import (
	"fmt"
	"strings"

	"github.com/jsphweid/xmlabc/model"
	"github.com/jsphweid/xmlabc/musicxml"
)

type ornament struct {
	path string
	abc  string
}

var ornaments = []ornament{
	{"ornaments/trill-mark", "T"},
	{"ornaments/mordent", "M"},
	{"ornaments/inverted-mordent", "P"},
	{"ornaments/turn", "!turn!"},
	{"ornaments/inverted-turn", "!invertedturn!"},
	{"ornaments/tremolo", "!///!"},
	{"technical/up-bow", "u"},
	{"technical/down-bow", "v"},
	{"technical/harmonic", "!open!"},
	{"technical/open-string", "!open!"},
	{"technical/stopped", "!plus!"},
	{"articulations/accent", "!>!"},
	{"articulations/strong-accent", "!>!"},
	{"articulations/staccato", "."},
	{"articulations/staccatissimo", "!wedge!"},
	{"articulations/spiccato", "!wedge!"},
	{"articulations/tenuto", "!tenuto!"},
	{"articulations/detached-legato", "!tenuto!."},
	{"articulations/breath-mark", "!breath!"},
	{"fermata", "!fermata!"},
	{"arpeggiate", "!arpeggio!"},
}

var acc2alt = map[string]int{
	"double-flat": -2, "flat-flat": -2, "flat": -1, "natural": 0,
	"sharp": 1, "sharp-sharp": 2, "double-sharp": 2,
}

var semitones = map[string]int{"C": 0, "D": 2, "E": 4, "F": 5, "G": 7, "A": 9, "B": 11}

// midiKey returns the sounding midi key of a written pitch.
func midiKey(step string, octave int, alter, transpose int) int {
	k := (octave+1)*12 + semitones[step] + alter + transpose
	if k < 0 || k > 127 {
		return -1
	}
	return k
}

func (p *Parser) doNotations(note *model.Note, n *musicxml.Note) {
	for _, o := range ornaments {
		if len(n.Notation(o.path)) > 0 {
			note.Before += o.abc
		}
	}
	if fs := n.Notation("technical/fingering"); len(fs) > 0 {
		note.Before += "!" + fs[0].Text + "!"
	}
	if ws := n.Notation("ornaments/wavy-line"); len(ws) > 0 {
		switch ws[0].Attr("type") {
		case "start":
			note.Before = "!trill(!" + note.Before // keep left to right order
		case "stop":
			note.After += "!trill)!"
		}
	}
}

// ntAbc spells a pitch in abc: octave marks and an accidental where the
// key and earlier accidentals in the measure do not already imply it.
func (p *Parser) ntAbc(step string, octave int, n *musicxml.Note, v int) string {
	ptc := step
	if octave > 4 {
		ptc = strings.ToLower(step)
	}
	if octave > 5 {
		ptc += strings.Repeat("'", octave-5)
	}
	if octave < 4 {
		ptc += strings.Repeat(",", 4-octave)
	}

	alt, hasAlt := 0, false
	if n.Pitch != nil && n.Pitch.Alter != nil {
		alt, hasAlt = int(*n.Pitch.Alter), true
	} else if p.msrAlts[step] != 0 {
		hasAlt = true // the key implies an alteration, so this is a natural
	}
	acc, hasAcc := 0, false
	if n.Accidental != nil {
		acc, hasAcc = acc2alt[*n.Accidental]
	}
	if !hasAcc && !hasAlt {
		return ptc
	}
	key := altKey{ptc, v}
	if hasAcc {
		alt = acc
	} else {
		if cur, ok := p.curAlts[key]; ok {
			if alt == cur {
				return ptc
			}
		} else if alt == p.msrAlts[step] {
			return ptc
		}
		if n.HasTie("stop") {
			return ptc
		}
		p.log.Warnf("accidental %d added in part %d, measure %d, voice %d note %s", alt, p.msr.Part+1, p.msr.Index+1, v, ptc)
	}
	if alt < -2 || alt > 2 {
		return ptc
	}
	p.curAlts[key] = alt
	return [...]string{"__", "_", "=", "^", "^^"}[alt+2] + ptc
}

func doSyllable(syl *musicxml.Node) string {
	txt := ""
	for i := range syl.Children {
		e := &syl.Children[i]
		switch e.Tag() {
		case "elision":
			txt += "~"
		case "text":
			r := strings.NewReplacer("_", `\_`, "-", `\-`, " ", "~")
			txt += r.Replace(e.Text)
		}
	}
	if txt == "" {
		return txt
	}
	if s, _ := syl.FindText("syllabic"); s == "begin" || s == "middle" {
		txt += "-"
	}
	if syl.Find("extend") != nil {
		txt += "_"
	}
	return txt
}

func (p *Parser) doNote(n *musicxml.Note) {
	note := model.NewNote(0)
	v := n.VoiceNumber()
	chord := n.Chord != nil
	rest := n.Rest != nil
	if tm := n.TimeMod; tm != nil && tm.Actual > 0 && tm.Normal > 0 {
		note.Fact = &model.Fraction{Num: tm.Actual, Den: tm.Normal}
	}
	for _, t := range n.Notation("tuplet") {
		note.Tup = append(note.Tup, t.Attr("type"))
	}
	note.Grace = n.Grace != nil
	if note.Grace && !p.inGrace {
		p.inGrace = true
		note.Before = "{"
		if n.Grace.Slash == "yes" {
			note.Before += "/" // acciaccatura
		}
	}
	stopGrace := !note.Grace && p.inGrace
	if stopGrace {
		p.inGrace = false
		if last := p.msc.LastNote(); last != nil {
			last.After += "}"
		}
	}
	if !rest && n.PrintObject == "no" {
		p.msc.Counter().IncNonPrintable(v)
		return
	}
	if n.Duration != nil && !note.Grace {
		note.Dur = *n.Duration
	}

	step, octave := "", 0
	if n.Pitch != nil {
		step = n.Pitch.Step
		fmt.Sscan(n.Pitch.Octave, &octave)
	}
	if !rest && (step == "" || n.Pitch.Octave == "") {
		p.msc.Counter().IncPitchless(v)
		step, octave = "E", 5
	}
	p.doNotations(note, n)

	pitch, key := "z", -1
	if !rest {
		pitch = p.ntAbc(step, octave, n, v)
		alter := 0
		if n.Pitch != nil && n.Pitch.Alter != nil {
			alter = int(*n.Pitch.Alter)
		}
		key = midiKey(step, octave, alter, p.transpose)
	}
	if n.HasTie("start") {
		pitch += "-"
	}
	for _, b := range n.Beams {
		if b == "continue" || b == "end" {
			note.Beam++
		}
	}
	if note.Grace {
		note.Beam++
	}
	for i := range n.Lyrics {
		num := 1
		if s := n.Lyrics[i].Attr("number"); s != "" {
			fmt.Sscan(s, &num)
		}
		note.Lyrics[num] = doSyllable(&n.Lyrics[i])
	}

	if chord {
		p.msc.AddChord(pitch, key)
	} else {
		p.msc.AppendNote(v, note, pitch, key)
	}
	for _, slur := range n.Notation("slur") {
		if last := p.msc.LastNote(); last != nil {
			p.slurs.Match(slur.Attr("type"), slur.Attr("number"), v, last, note.Grace, stopGrace, p.msr)
		}
	}
}
