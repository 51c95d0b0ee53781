package emit

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/jsphweid/xmlabc/bracket"
	"github.com/jsphweid/xmlabc/constants"
	"github.com/jsphweid/xmlabc/diag"
	"github.com/jsphweid/xmlabc/model"
	"github.com/jsphweid/xmlabc/timeline"
	"github.com/jsphweid/xmlabc/unitlen"
	"github.com/jsphweid/xmlabc/util"
)

// Header holds the tune wide fields that are collected while parsing the
// first measures and written in front of the voices at the end.
type Header struct {
	Title string // one or more T:, C:, Z: lines
	Key   string
	Meter string
	Tempo string // "" for no Q: field
	Clefs map[int]string
}

func NewHeader() *Header {
	return &Header{Title: "T:Title", Key: "none", Meter: "none", Clefs: map[int]string{}}
}

// Layout is what the header needs from the part list: the %%score
// elements, the name of every part and the staves of every part with
// their abc voice numbers.
type Layout struct {
	Staves []string
	Names  []model.PartName
	StfMap [][][]int
}

type Options struct {
	X         int // tune index, 1 based
	UnitDen   int // 0 computes the unit length per voice
	VolPan    bool
	LineWidth int // 0 for the default
	Volta     int
}

// Output collects the abc text of one tune.
type Output struct {
	Name   string
	Header *Header
	CmpL   []int // unit length of every abc voice, in voice order
	opts   Options
	log    *diag.Log
	lines  []string
	vceCnt int
}

func NewOutput(name string, opts Options, log *diag.Log) *Output {
	return &Output{Name: name, Header: NewHeader(), opts: opts, log: log, vceCnt: 1}
}

func (o *Output) Add(s string) {
	o.lines = append(o.lines, s)
}

// VoiceCount returns the number of abc voices written so far.
func (o *Output) VoiceCount() int { return o.vceCnt - 1 }

// Voices writes all non empty voices of a part and returns the map from
// source voice number to abc voice number.
func (o *Output) Voices(p *timeline.Part) map[int]int {
	vvmap := map[int]int{}
	maxll := o.opts.LineWidth
	if maxll <= 0 {
		maxll = constants.LineWidth
	}
	for _, v := range p.Voices {
		if p.Counter.Notes(v) == 0 {
			continue
		}
		unitL := o.opts.UnitDen
		if unitL == 0 {
			unitL = unitlen.Optimal(p.Measures, p.Divisions, v, p.Divs)
		}
		o.CmpL = append(o.CmpL, unitL)

		var bars []string
		lyrics := map[int][]string{}
		for im := range p.Measures {
			divs := unitlen.Divs(p.Divisions, im, p.Divs)
			bars = append(bars, OutVoice(p.Measures[im][v], divs, unitL))
			bracket.CheckMelismas(p.Lyrics, p.Measures, im, v)
			for n, lyr := range p.Lyrics[im][v] {
				lyrs := lyrics[n]
				for len(lyrs) < im {
					lyrs = append(lyrs, "")
				}
				lyrics[n] = append(lyrs, lyr.Text)
			}
		}
		for n, lyrs := range lyrics {
			for len(lyrs) < len(bars) {
				lyrs = append(lyrs, "")
			}
			lyrics[n] = lyrs
		}

		o.Add(fmt.Sprintf("V:%d", o.vceCnt))
		if p.RepBra {
			if (o.opts.Volta == 1 && o.vceCnt > 1) || (o.opts.Volta == 2 && v > p.Voices[0]) {
				o.Add("I:repbra 0")
			}
		}
		for _, l := range FoldLines(bars, lyrics, maxll) {
			o.Add(l)
		}
		vvmap[v] = o.vceCnt
		o.vceCnt++
	}
	p.Counter.Report(o.log, p.Index+1)
	return vvmap
}

func partLabel(s string) string {
	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, ".:", ".")
	return strings.Trim(s, ":")
}

// MkHeader puts the header lines in front of the collected voices. midi
// holds the settings of every abc voice, in voice order.
func (o *Output) MkHeader(layout Layout, midi []model.MidiSettings) {
	names := map[int]string{}
	for i, part := range layout.StfMap {
		if len(part) == 0 || len(part[0]) == 0 || i >= len(layout.Names) {
			continue
		}
		nm, snm := partLabel(layout.Names[i].Name), partLabel(layout.Names[i].Abbrev)
		var xs []string
		if nm != "" {
			xs = append(xs, fmt.Sprintf(`nm="%s"`, nm))
		}
		if snm != "" {
			xs = append(xs, fmt.Sprintf(`snm="%s"`, snm))
		}
		names[part[0][0]] = strings.Join(xs, " ")
	}

	h := o.Header
	hd := []string{fmt.Sprintf("X:%d", o.opts.X), h.Title}
	if len(layout.Staves) > 1 {
		hd = append(hd, "%%score "+strings.Join(layout.Staves, " "))
	}
	defL := unitlen.Default(o.CmpL, o.opts.UnitDen)
	hd = append(hd, fmt.Sprintf("L:1/%d", defL))
	if h.Tempo != "" {
		hd = append(hd, "Q:1/4="+h.Tempo)
	}
	hd = append(hd, "M:"+h.Meter, "I:linebreak $", "K:"+h.Key)
	for _, vnum := range util.SortedKeys(h.Clefs) {
		hd = append(hd, strings.TrimRight(fmt.Sprintf("V:%d %s %s", vnum, h.Clefs[vnum], names[vnum]), " "))
		ms := model.DefaultMidiSettings()
		if vnum-1 < len(midi) {
			ms = midi[vnum-1]
		}
		if o.opts.VolPan {
			if ms.Channel > 0 && ms.Channel != vnum {
				hd = append(hd, fmt.Sprintf("%%%%MIDI channel %d", ms.Channel))
			}
			if ms.Program > 0 {
				hd = append(hd, fmt.Sprintf("%%%%MIDI program %d", ms.Program-1))
			}
			if ms.Volume >= 0 {
				hd = append(hd, fmt.Sprintf("%%%%MIDI control 7 %.0f", ms.Volume))
			}
			if ms.Pan >= 0 {
				hd = append(hd, fmt.Sprintf("%%%%MIDI control 10 %.0f", ms.Pan))
			}
		} else if ms.Program > 0 {
			hd = append(hd, fmt.Sprintf("%%%%MIDI program %d", ms.Program-1))
		}
		if vnum-1 < len(o.CmpL) && o.CmpL[vnum-1] != defL {
			hd = append(hd, fmt.Sprintf("L:1/%d", o.CmpL[vnum-1]))
		}
	}
	o.lines = append(hd, o.lines...)
}

func (o *Output) String() string {
	var b strings.Builder
	for _, l := range o.lines {
		b.WriteString(l)
		b.WriteString("\n")
	}
	return b.String()
}

// WriteTo writes the tune in latin-1 when possible and in utf-8 otherwise.
func (o *Output) WriteTo(w io.Writer) (int64, error) {
	b, _ := Encode(o.String())
	n, err := w.Write(b)
	if err != nil {
		return int64(n), errors.Wrapf(err, "writing %s.abc", o.Name)
	}
	o.log.Infof("%s.abc written with %d voices", o.Name, len(o.Header.Clefs))
	return int64(n), nil
}
