// Package timeline accumulates the notes and elements of a part, measure
// by measure and voice by voice, and freezes every measure into ordered,
// gap free voices.
package timeline

import (
	"strings"

	"github.com/jsphweid/xmlabc/diag"
	"github.com/jsphweid/xmlabc/model"
	"github.com/jsphweid/xmlabc/rhythm"
	"github.com/jsphweid/xmlabc/util"
)

// Part is the frozen music of one part, ready for output.
type Part struct {
	Index     int
	Voices    []int // source voice numbers, ascending
	Measures  []model.Voices
	Lyrics    []map[int]model.LyricLines // per measure: voice -> lyric lines
	Counter   *Counter
	Divs      int
	Divisions []int // divisions per quarter of every measure
	RepBra    bool  // a volta occurs somewhere in the part
}

type Music struct {
	log      *diag.Log
	time     int // the current time in divisions
	maxTime  int // the maximum time in the current measure
	voiceIds map[int]bool
	voices   model.Voices
	lyrics   map[int][]map[int]string // voice -> syllables of every real note
	lastNote *model.Note

	measures  []model.Voices
	lyricDict []map[int]model.LyricLines
	divisions []int
	counter   *Counter
	repBra    bool
	volta     int // volta typesetting mode, see config.Options
}

func New(log *diag.Log, volta int) *Music {
	return &Music{
		log:      log,
		voiceIds: map[int]bool{},
		voices:   model.Voices{},
		lyrics:   map[int][]map[int]string{},
		counter:  NewCounter(),
		volta:    volta,
	}
}

// StartPart registers the voice numbers used in a new part and clears the
// per part counters.
func (mu *Music) StartPart(voices []int) {
	mu.voiceIds = map[int]bool{}
	for _, v := range voices {
		mu.voiceIds[v] = true
	}
	mu.initVoices()
	mu.counter = NewCounter()
	mu.counter.Clear(voices)
}

func (mu *Music) initVoices() {
	mu.voices = model.Voices{}
	mu.lyrics = map[int][]map[int]string{}
	for v := range mu.voiceIds {
		mu.voices[v] = nil
		mu.lyrics[v] = nil
	}
}

func (mu *Music) VoiceIds() []int {
	return util.SortedKeys(mu.voiceIds)
}

func (mu *Music) Counter() *Counter { return mu.counter }

func (mu *Music) Time() int { return mu.time }

func (mu *Music) LastNote() *model.Note { return mu.lastNote }

// ensure registers a voice that shows up only after the part started.
func (mu *Music) ensure(v int) {
	if !mu.voiceIds[v] {
		mu.voiceIds[v] = true
		mu.counter.notes[v] += 0
	}
}

func (mu *Music) IncTime(dt int) {
	mu.time += dt
	if mu.time > mu.maxTime {
		mu.maxTime = mu.time
	}
}

func (mu *Music) appendObj(v int, e model.Entry, dur int) {
	mu.ensure(v)
	mu.voices[v] = append(mu.voices[v], e)
	mu.IncTime(dur)
}

func (mu *Music) AppendElem(v int, str string) {
	mu.appendObj(v, &model.Elem{Time: mu.time, Str: str}, 0)
}

// AppendElemCv inserts the element in all voices.
func (mu *Music) AppendElemCv(voices []int, str string) {
	for _, v := range voices {
		mu.AppendElem(v, str)
	}
}

// InsertElem puts an element at the start of voice v in the current
// measure.
func (mu *Music) InsertElem(v int, str string) {
	mu.ensure(v)
	e := &model.Elem{Time: 0, Str: str}
	mu.voices[v] = append([]model.Entry{e}, mu.voices[v]...)
}

// AppendNote adds a note with its first pitch. key < 0 means the pitch
// does not sound (a rest).
func (mu *Music) AppendNote(v int, note *model.Note, pitch string, key int) {
	note.Pitches = append(note.Pitches, pitch)
	if key >= 0 {
		note.Keys = append(note.Keys, uint8(key))
	}
	note.Time = mu.time
	mu.appendObj(v, note, note.Dur)
	if pitch != "z" {
		mu.lastNote = note
		mu.counter.IncNote(v)
		if !note.Grace {
			mu.lyrics[v] = append(mu.lyrics[v], note.Lyrics)
		}
	}
}

// AddChord adds a pitch to the last note. Chord notes are assumed to follow
// their first note immediately.
func (mu *Music) AddChord(pitch string, key int) bool {
	if mu.lastNote == nil {
		return false
	}
	mu.lastNote.Pitches = append(mu.lastNote.Pitches, pitch)
	if key >= 0 {
		mu.lastNote.Keys = append(mu.lastNote.Keys, uint8(key))
	}
	return true
}

// lastRec returns the barline of voice v in the previous measure.
func (mu *Music) lastRec(v int) *model.Elem {
	if len(mu.measures) == 0 {
		return nil
	}
	es := mu.measures[len(mu.measures)-1][v]
	if len(es) == 0 {
		return nil
	}
	el, _ := es[len(es)-1].(*model.Elem)
	return el
}

func (mu *Music) lastMelisma(v, num int) bool {
	if len(mu.lyricDict) == 0 {
		return false
	}
	return mu.lyricDict[len(mu.lyricDict)-1][v][num].Melisma
}

// AddBar closes the current measure: barlines, repeat signs, voltas and
// line breaks are added, every voice is sorted and made sequential, lyrics
// are folded per line number and broken rhythms are introduced.
func (mu *Music) AddBar(lbrk string, m *model.Measure) {
	if m.Dur > 0 && mu.maxTime > m.Dur {
		mu.log.Warnf("measure %d in part %d longer than metre", m.Index+1, m.Part+1)
	}
	mu.time = mu.maxTime // the time of the barlines inserted here
	ids := mu.VoiceIds()
	lyricDict := map[int]model.LyricLines{}
	for _, v := range ids {
		if m.LeftBar != "" || m.Volta != "" {
			if p := mu.lastRec(v); p != nil {
				x := p.Str
				if m.LeftBar != "" {
					x = strings.ReplaceAll(strings.ReplaceAll(x+m.LeftBar, ":|:", "::"), "||", "|")
				}
				if mu.volta == 3 {
					// volta only on the lowest voice of the first part
					if m.Part+v == ids[0] {
						x += m.Volta
					}
				} else if m.Volta != "" {
					x += m.Volta
					mu.repBra = true
				}
				p.Str = x
			} else if m.LeftBar != "" {
				mu.InsertElem(v, "|:")
			}
		}
		if lbrk != "" {
			if p := mu.lastRec(v); p != nil {
				p.Str += lbrk
			}
		}
		if m.Attr != "" {
			mu.InsertElem(v, m.Attr)
		}
		mu.AppendElem(v, " "+m.RightBar)
		mu.voices[v] = SortMeasure(mu.voices[v], m, mu.log)

		syls := mu.lyrics[v]
		maxNum := 0
		for _, d := range syls {
			for num := range d {
				maxNum = util.Max(maxNum, num)
			}
		}
		lines := model.LyricLines{}
		for i := maxNum; i > 0; i-- {
			xs := make([]string, len(syls))
			for j, d := range syls {
				xs[j] = d[i]
			}
			lines[i] = AbcLyric(xs, mu.lastMelisma(v, i))
		}
		lyricDict[v] = lines
		rhythm.MkBroken(mu.voices[v])
	}
	mu.measures = append(mu.measures, mu.voices)
	mu.lyricDict = append(mu.lyricDict, lyricDict)
	mu.divisions = append(mu.divisions, m.Divs)
	mu.time, mu.maxTime = 0, 0
	mu.initVoices()
}

// FinishPart hands over the frozen measures of the current part and resets
// the accumulator for the next one.
func (mu *Music) FinishPart(index, divs int) *Part {
	p := &Part{
		Index:     index,
		Voices:    mu.VoiceIds(),
		Measures:  mu.measures,
		Lyrics:    mu.lyricDict,
		Counter:   mu.counter,
		Divs:      divs,
		Divisions: mu.divisions,
		RepBra:    mu.repBra,
	}
	mu.measures, mu.lyricDict, mu.divisions = nil, nil, nil
	return p
}
