package convert

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jsphweid/xmlabc/musicxml"
)

var dynamics = []string{"p", "pp", "ppp", "f", "ff", "fff", "mp", "mf", "sfz"}

func (p *Parser) doTempo(tempo string) {
	if tempo == "" {
		return
	}
	if strings.Contains(tempo, ".") {
		f, err := strconv.ParseFloat(tempo, 64)
		if err != nil {
			p.log.Warnf("bad tempo %q in part %d, measure %d", tempo, p.msr.Part+1, p.msr.Index+1)
			return
		}
		tempo = fmt.Sprintf("%.2f", f)
	} else {
		n, err := strconv.Atoi(tempo)
		if err != nil {
			p.log.Warnf("bad tempo %q in part %d, measure %d", tempo, p.msr.Part+1, p.msr.Index+1)
			return
		}
		tempo = strconv.Itoa(n)
	}
	if p.first() {
		p.out.Header.Tempo = tempo
	} else {
		p.msr.Attr += "[Q:1/4=" + tempo + "]"
	}
}

// doDirection puts wedges, words, dynamics, coda and segno in the first
// voice of the staff of the direction.
func (p *Parser) doDirection(d *musicxml.Direction) {
	if d.Sound != nil {
		p.doTempo(d.Sound.Tempo)
	}
	if len(d.Types) == 0 {
		return
	}
	dt := &d.Types[0]
	vs := p.firstVoice(d.StaffNumber())
	if w := dt.Find("wedge"); w != nil {
		x := ""
		switch w.Attr("type") {
		case "crescendo":
			x, p.wedgeType = "!<(!", "<"
		case "diminuendo":
			x, p.wedgeType = "!>(!", ">"
		case "stop":
			if p.wedgeType == "<" {
				x = "!<)!"
			} else {
				x = "!>)!"
			}
		default:
			p.log.Warnf("wrong wedge type %q in part %d, measure %d", w.Attr("type"), p.msr.Part+1, p.msr.Index+1)
		}
		if x != "" {
			p.msc.AppendElem(vs, x)
		}
	}
	if txt, _ := dt.FindText("words"); txt != "" {
		plc := "^"
		if d.Placement == "below" {
			plc = "_"
		}
		if y, err := strconv.ParseFloat(d.DefaultY, 64); err == nil && y < 0 {
			plc = "_"
		}
		txt = strings.NewReplacer(`"`, `\"`, "\n", " ").Replace(txt)
		p.msc.AppendElem(vs, `"`+plc+txt+`"`)
	}
	for _, k := range dynamics {
		if dt.Find("dynamics/"+k) != nil {
			p.msc.AppendElem(vs, "!"+k+"!")
		}
	}
	if dt.Find("coda") != nil {
		p.msc.AppendElem(vs, "O")
	}
	if dt.Find("segno") != nil {
		p.msc.AppendElem(vs, "S")
	}
}

var (
	shortKinds = map[string]string{
		"major": "", "minor": "m", "augmented": "+", "diminished": "dim",
		"dominant": "7", "half-diminished": "m7b5",
	}
	triads = map[string]string{
		"major": "maj", "dominant": "", "minor": "m", "diminished": "dim",
		"augmented": "+", "suspended": "sus",
	}
	modifications = map[string]string{
		"second": "2", "fourth": "4", "seventh": "7", "sixth": "6",
		"ninth": "9", "11th": "11", "13th": "13",
	}
	alterSigns = map[string]string{"1": "#", "0": "", "-1": "b"}
)

// doHarmony writes a chord symbol to the first voice of the staff.
func (p *Parser) doHarmony(h *musicxml.Harmony) {
	vt := p.firstVoice(h.StaffNumber())
	root := h.Root.RootStep + alterSigns[h.Root.RootAlter]
	kind, sus := h.Kind, ""
	if k, ok := shortKinds[kind]; ok {
		kind = k
	} else if i := strings.Index(kind, "-"); i >= 0 {
		kind = triads[kind[:i]] + modifications[kind[i+1:]]
		if strings.HasPrefix(kind, "sus") {
			kind, sus = "", kind // the sus suffix goes to the end
		}
	}
	for _, d := range h.Degrees {
		kind += alterSigns[d.Alter] + d.Value
	}
	kind = strings.NewReplacer("79", "9", "713", "13", "maj6", "6").Replace(kind)
	bass := ""
	if h.Bass != nil && h.Bass.BassStep != "" {
		bass = "/" + h.Bass.BassStep + alterSigns[h.Bass.BassAlter]
	}
	p.msc.AppendElem(vt, `"`+root+kind+sus+bass+`"`)
}

// doBarline returns 1 for a forward and 2 for a backward repeat when
// unfolding, otherwise it sets the barlines and voltas of the measure
// and returns 0.
func (p *Parser) doBarline(b *musicxml.Barline) int {
	rep := ""
	if b.Repeat != nil {
		rep = b.Repeat.Direction
	}
	if p.opts.Unfold {
		switch rep {
		case "":
			return 0
		case "forward":
			return 1
		default:
			return 2
		}
	}
	if b.Location == "right" || b.Location == "" {
		switch b.BarStyle {
		case "light-light":
			p.msr.RightBar = "||"
		case "light-heavy":
			p.msr.RightBar = "|]"
		}
	}
	if rep != "" {
		if rep == "forward" {
			p.msr.LeftBar = ":"
		} else {
			p.msr.RightBar = ":|"
		}
	}
	if e := b.Ending; e != nil {
		if e.Type == "start" {
			n := "1"
			if e.Number != nil {
				n = *e.Number
			}
			n = strings.NewReplacer(".", "", " ", "").Replace(n)
			for _, x := range strings.Split(n, ",") {
				if _, err := strconv.Atoi(x); err != nil {
					n = `"` + strings.TrimSpace(n) + `"`
					break
				}
			}
			if txt := strings.TrimSpace(e.Text); txt != "" {
				n = `"` + txt + `"`
			}
			p.msr.Volta = n
		} else if p.msr.RightBar == "|" {
			p.msr.RightBar = "||"
		}
	}
	return 0
}

func (p *Parser) doPrint(e *musicxml.Print) string {
	if e.NewSystem == "yes" || e.NewPage == "yes" {
		return "$"
	}
	return ""
}
