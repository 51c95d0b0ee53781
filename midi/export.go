package midi

import (
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/jsphweid/xmlabc/constants"
	"github.com/jsphweid/xmlabc/convert"
	"github.com/jsphweid/xmlabc/model"
	"github.com/jsphweid/xmlabc/timeline"
	"github.com/jsphweid/xmlabc/unitlen"
)

const velocity = 80

// Song is what the midi export needs from a converted tune.
type Song struct {
	Parts     []*timeline.Part
	VoiceMaps []map[int]int        // per part: source voice -> abc voice
	Settings  []model.MidiSettings // per abc voice
	Tempo     float64              // quarter notes per minute
	Beats     uint8
	BeatType  uint8
}

// FromResult takes tempo and meter from the tune header, 120 bpm and 4/4
// when they are missing.
func FromResult(res *convert.Result) Song {
	s := Song{
		Parts:     res.Parts,
		VoiceMaps: res.VoiceMaps,
		Settings:  res.Midi,
		Tempo:     120,
		Beats:     4,
		BeatType:  4,
	}
	h := res.Output.Header
	if t, err := strconv.ParseFloat(h.Tempo, 64); err == nil && t > 0 {
		s.Tempo = t
	}
	if xs := strings.Split(h.Meter, "/"); len(xs) == 2 {
		b, err1 := strconv.Atoi(xs[0])
		bt, err2 := strconv.Atoi(xs[1])
		if err1 == nil && err2 == nil && b > 0 && b < 256 && bt > 0 && bt < 256 {
			s.Beats, s.BeatType = uint8(b), uint8(bt)
		}
	}
	return s
}

type timed struct {
	tick uint64
	off  bool
	msg  midi.Message
}

func ticks(dur, divs int) uint64 {
	if divs <= 0 {
		divs = 1
	}
	return uint64(dur * constants.MidiResolution / divs)
}

// measureStarts returns the start tick of every measure of a part. A
// measure lasts as long as its longest voice.
func measureStarts(p *timeline.Part) []uint64 {
	starts := make([]uint64, len(p.Measures)+1)
	for im, m := range p.Measures {
		divs := unitlen.Divs(p.Divisions, im, p.Divs)
		var length uint64
		for _, es := range m {
			end := 0
			for _, e := range es {
				if t := e.Start() + e.Length(); t > end {
					end = t
				}
			}
			if l := ticks(end, divs); l > length {
				length = l
			}
		}
		starts[im+1] = starts[im] + length
	}
	return starts
}

func channel(ms model.MidiSettings, vnum int) uint8 {
	if ms.Channel >= 1 && ms.Channel <= 16 {
		return uint8(ms.Channel - 1)
	}
	return uint8((vnum - 1) % 16)
}

func clamp(x float64) uint8 {
	switch {
	case x < 0:
		return 0
	case x > 127:
		return 127
	}
	return uint8(x + 0.5)
}

// voiceEvents turns one source voice of a part into note events. Tied
// keys sound on until the last note of the tie. Grace notes are left out.
func voiceEvents(p *timeline.Part, starts []uint64, v int, ch uint8) []timed {
	var evs []timed
	held := map[uint8]bool{}
	for im, m := range p.Measures {
		divs := unitlen.Divs(p.Divisions, im, p.Divs)
		for _, e := range m[v] {
			n, ok := e.(*model.Note)
			if !ok || n.Grace || n.Dur == 0 {
				continue
			}
			start := starts[im] + ticks(n.Time, divs)
			end := start + ticks(n.Dur, divs)
			tieable := len(n.Keys) == len(n.Pitches)
			for i, k := range n.Keys {
				if held[k] {
					delete(held, k)
				} else {
					evs = append(evs, timed{start, false, midi.NoteOn(ch, k, velocity)})
				}
				if tieable && n.Tied(i) {
					held[k] = true
				} else {
					evs = append(evs, timed{end, true, midi.NoteOff(ch, k)})
				}
			}
		}
	}
	last := starts[len(starts)-1]
	for k := range held {
		evs = append(evs, timed{last, true, midi.NoteOff(ch, k)})
	}
	return evs
}

func track(evs []timed) smf.Track {
	sort.SliceStable(evs, func(i, j int) bool {
		if evs[i].tick != evs[j].tick {
			return evs[i].tick < evs[j].tick
		}
		return evs[i].off && !evs[j].off
	})
	var tr smf.Track
	var now uint64
	for _, e := range evs {
		tr.Add(uint32(e.tick-now), e.msg)
		now = e.tick
	}
	tr.Close(0)
	return tr
}

// Export writes one track with tempo and meter followed by one track per
// abc voice.
func Export(w io.Writer, song Song) error {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(constants.MidiResolution)

	var conductor smf.Track
	conductor.Add(0, smf.MetaMeter(song.Beats, song.BeatType))
	conductor.Add(0, smf.MetaTempo(song.Tempo))
	conductor.Close(0)
	if err := s.Add(conductor); err != nil {
		return errors.Wrap(err, "adding tempo track")
	}

	for ip, p := range song.Parts {
		if ip >= len(song.VoiceMaps) {
			break
		}
		starts := measureStarts(p)
		vvmap := song.VoiceMaps[ip]
		voices := make([]int, 0, len(vvmap))
		for v := range vvmap {
			voices = append(voices, v)
		}
		sort.Slice(voices, func(i, j int) bool { return vvmap[voices[i]] < vvmap[voices[j]] })

		for _, v := range voices {
			vnum := vvmap[v]
			ms := model.DefaultMidiSettings()
			if vnum-1 < len(song.Settings) {
				ms = song.Settings[vnum-1]
			}
			ch := channel(ms, vnum)
			evs := []timed{}
			if ms.Program > 0 {
				evs = append(evs, timed{0, false, midi.ProgramChange(ch, uint8(ms.Program-1))})
			}
			if ms.Volume >= 0 {
				evs = append(evs, timed{0, false, midi.ControlChange(ch, 7, clamp(ms.Volume))})
			}
			if ms.Pan >= 0 {
				evs = append(evs, timed{0, false, midi.ControlChange(ch, 10, clamp(ms.Pan))})
			}
			evs = append(evs, voiceEvents(p, starts, v, ch)...)
			if err := s.Add(track(evs)); err != nil {
				return errors.Wrapf(err, "adding track of voice %d", vnum)
			}
		}
	}
	if _, err := s.WriteTo(w); err != nil {
		return errors.Wrap(err, "writing midi file")
	}
	return nil
}
