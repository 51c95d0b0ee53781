package convert

import (
	"strconv"

	"github.com/jsphweid/xmlabc/musicxml"
)

var clefNames = map[string]string{
	"C1": "alto1", "C2": "alto2", "C3": "alto", "C4": "tenor",
	"F4": "bass", "F3": "bass3", "G2": "treble", "TAB": "", "percussion": "perc",
}

// abc software does not transpose the octave clefs by itself
var clefTranspose = map[string]string{"treble-8": " m=B,", "bass-8": " m=D,,"}

var (
	sharpOrder = []string{"F", "C", "G", "D", "A", "E", "B"}
	majorKeys  = []string{"Cb", "Gb", "Db", "Ab", "Eb", "Bb", "F", "C", "G", "D", "A", "E", "B", "F#", "C#"}
	minorKeys  = []string{"Ab", "Eb", "Bb", "F", "C", "G", "D", "A", "E", "B", "F#", "C#", "G#", "D#", "A#"}
)

// setKey returns the abc key name and the alteration of every step the
// key signature alters.
func setKey(fifths int, mode string) (string, map[string]int) {
	alts := map[string]int{}
	if fifths < -7 || fifths > 7 {
		return "none", alts
	}
	key := ""
	switch mode {
	case "major":
		key = majorKeys[7+fifths]
	case "minor":
		key = minorKeys[7+fifths] + "min"
	}
	if fifths >= 0 {
		for _, s := range sharpOrder[:fifths] {
			alts[s] = 1
		}
	} else {
		for _, s := range sharpOrder[7+fifths:] {
			alts[s] = -1
		}
	}
	return key, alts
}

func (p *Parser) doAttr(a *musicxml.Attributes) {
	if a.Divisions > 0 {
		p.msr.Divs = a.Divisions
	}
	steps := 0
	if len(a.Transpose) > 0 {
		steps = a.Transpose[0].Chromatic
	}
	first := p.first()
	if len(a.Keys) > 0 && a.Keys[0].Fifths != nil {
		mode := a.Keys[0].Mode
		if mode == "" {
			mode = "major"
		}
		key, alts := setKey(*a.Keys[0].Fifths, mode)
		p.msrAlts = alts
		if first && steps == 0 {
			p.out.Header.Key = key // not for a transposing instrument
		} else {
			p.msr.Attr += "[K:" + key + "]"
		}
	}
	if len(a.Times) > 0 && a.Times[0].Beats != "" {
		t := a.Times[0]
		mtr := t.Beats + "/" + t.BeatType
		if first {
			p.out.Header.Meter = mtr
		} else {
			p.msr.Attr += "[M:" + mtr + "]"
		}
		beats, err1 := strconv.Atoi(t.Beats)
		unit, err2 := strconv.Atoi(t.BeatType)
		if err1 == nil && err2 == nil && unit > 0 {
			p.msr.Dur = p.msr.Divs * beats * 4 / unit
		}
	}
	if len(a.Transpose) > 0 {
		if toct, err := strconv.Atoi(a.Transpose[0].OctaveChange); err == nil {
			steps += 12 * toct
		}
		p.transpose = steps
	}
	for _, c := range a.Clefs {
		n := 1
		if x, err := strconv.Atoi(c.Number); err == nil {
			n = x
		}
		cs := clefNames[c.Sign+c.Line]
		if c.OctaveChange != "" {
			if c.OctaveChange == "-1" {
				cs += "-8"
			} else {
				cs += "+8"
			}
		}
		cs += clefTranspose[cs]
		if steps != 0 {
			cs += " transpose=" + strconv.Itoa(steps)
		}
		if first {
			p.clefMap[n] = cs
		} else {
			p.msc.AppendElemCv(p.staff.Staves[n], "[K:"+cs+"]")
		}
	}
}
