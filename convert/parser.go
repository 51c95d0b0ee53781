package convert

import (
	"github.com/jsphweid/xmlabc/bracket"
	"github.com/jsphweid/xmlabc/config"
	"github.com/jsphweid/xmlabc/diag"
	"github.com/jsphweid/xmlabc/emit"
	"github.com/jsphweid/xmlabc/model"
	"github.com/jsphweid/xmlabc/musicxml"
	"github.com/jsphweid/xmlabc/timeline"
	"github.com/jsphweid/xmlabc/topology"
)

type altKey struct {
	pitch string
	voice int
}

// Parser walks one MusicXML document part by part and measure by measure
// and feeds the timeline and the abc output.
type Parser struct {
	opts  config.Options
	log   *diag.Log
	out   *emit.Output
	msc   *timeline.Music
	msr   *model.Measure
	slurs *bracket.SlurMatcher

	wedgeType string
	inGrace   bool
	transpose int // chromatic steps of the current part, for midi keys

	staff   *topology.StaffMap // voice layout of the current part
	clefMap map[int]string     // staff -> clef of the first measure
	gStfMap [][][]int          // abc voices per staff, for all parts
	midiMap []model.MidiSettings
	instMid [][]topology.Instrument // midi instruments of every score-part

	msrAlts map[string]int // alterations implied by the key, by step
	curAlts map[altKey]int // passing accidentals of the current measure

	parts  []*timeline.Part
	vvmaps []map[int]int
}

// NewParser prepares the conversion of tune number x of a batch.
func NewParser(name string, x int, opts config.Options, log *diag.Log) *Parser {
	return &Parser{
		opts: opts,
		log:  log,
		out: emit.NewOutput(name, emit.Options{
			X:         x,
			UnitDen:   opts.UnitDen,
			VolPan:    opts.VolPan,
			LineWidth: opts.LineWidth,
			Volta:     opts.Volta,
		}, log),
		msc:     timeline.New(log, opts.Volta),
		slurs:   bracket.NewSlurMatcher(log),
		clefMap: map[int]string{},
		msrAlts: map[string]int{},
		curAlts: map[altKey]int{},
	}
}

// first reports whether nothing has been written in the first measure
// yet, signatures found there go to the header.
func (p *Parser) first() bool {
	return p.msc.Time() == 0 && p.msr.Index == 0
}

// firstVoice returns the voice that gets the directions of a staff.
func (p *Parser) firstVoice(staff int) int {
	if vs := p.staff.Staves[staff]; len(vs) > 0 {
		return vs[0]
	}
	p.log.Warnf("no voice on staff %d in part %d, measure %d", staff, p.msr.Part+1, p.msr.Index+1)
	if len(p.staff.Voices) > 0 {
		return p.staff.Voices[0]
	}
	return 1
}

func noteRefs(part *musicxml.Part) []topology.NoteRef {
	var refs []topology.NoteRef
	for _, m := range part.Measures {
		for _, ev := range m.Events {
			n, ok := ev.(*musicxml.Note)
			if !ok {
				continue
			}
			ref := topology.NoteRef{Voice: n.VoiceNumber(), Staff: n.StaffNumber()}
			if n.Instrument != nil {
				ref.Instrument = n.Instrument.Id
			}
			refs = append(refs, ref)
		}
	}
	return refs
}

// parsePart converts all measures of one part, jumping back once at every
// end repeat when unfolding.
func (p *Parser) parsePart(ip int, part *musicxml.Part) {
	p.staff = topology.LocStaffMap(noteRefs(part))
	p.clefMap = map[int]string{}
	p.transpose = 0
	p.msc.StartPart(p.staff.Voices)
	p.msr = model.NewMeasure(ip)

	repeated, target := 0, 0
	for p.msr.Index < len(part.Measures) {
		m := &part.Measures[p.msr.Index]
		rep, lbrk := 0, ""
		p.msr.Reset()
		p.curAlts = map[altKey]int{}
		for _, ev := range m.Events {
			switch e := ev.(type) {
			case *musicxml.Note:
				p.doNote(e)
			case *musicxml.Attributes:
				p.doAttr(e)
			case *musicxml.Direction:
				p.doDirection(e)
			case *musicxml.Sound:
				p.doTempo(e.Tempo)
			case *musicxml.Harmony:
				p.doHarmony(e)
			case *musicxml.Barline:
				rep = p.doBarline(e)
			case *musicxml.Backup:
				p.msc.IncTime(-e.Duration)
			case *musicxml.Forward:
				p.msc.IncTime(e.Duration)
			case *musicxml.Print:
				lbrk = p.doPrint(e)
			}
		}
		p.msc.AddBar(lbrk, p.msr)
		switch {
		case rep == 1:
			target = p.msr.Index
			p.msr.Index++
		case rep == 2 && repeated < 1:
			p.msr.Index = target
			repeated++
		case rep == 2:
			repeated = 0
			p.msr.Index++
		default:
			p.msr.Index++
		}
	}

	tp := p.msc.FinishPart(ip, p.msr.Divs)
	vvmap := p.out.Voices(tp)
	p.gStfMap = append(p.gStfMap, p.staff.AbcStaves(vvmap, p.clefMap, p.out.Header.Clefs))
	var instr []topology.Instrument
	if ip < len(p.instMid) {
		instr = p.instMid[ip]
	}
	p.midiMap = append(p.midiMap, topology.MidiMap(instr, p.staff.Instrument, vvmap)...)
	p.parts = append(p.parts, tp)
	p.vvmaps = append(p.vvmaps, vvmap)
}

// Parse converts a whole document. ErrNoNotes is returned when no voice
// has any notes.
func (p *Parser) Parse(s *musicxml.Score) (*Result, error) {
	p.mkTitle(s)
	partlist := p.doPartList(s)
	for ip := range s.Parts {
		p.parsePart(ip, &s.Parts[ip])
	}
	if p.out.VoiceCount() == 0 {
		p.log.Infof("nothing written, %s has no notes ...", p.out.Name)
		return nil, ErrNoNotes
	}
	names, staves := topology.ScoreMap(partlist, p.gStfMap, p.log)
	p.out.MkHeader(emit.Layout{Staves: staves, Names: names, StfMap: p.gStfMap}, p.midiMap)
	return &Result{
		Name:      p.out.Name,
		Output:    p.out,
		Parts:     p.parts,
		VoiceMaps: p.vvmaps,
		Midi:      p.midiMap,
		Meta:      p.metadata(s),
	}, nil
}
