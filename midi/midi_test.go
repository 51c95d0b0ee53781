package midi

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/jsphweid/xmlabc/convert"
	"github.com/jsphweid/xmlabc/diag"
	"github.com/jsphweid/xmlabc/emit"
	"github.com/jsphweid/xmlabc/model"
	"github.com/jsphweid/xmlabc/timeline"
)

func note(t, dur int, pitch string, key uint8) *model.Note {
	n := model.NewNote(dur)
	n.Time = t
	n.Pitches = []string{pitch}
	n.Keys = []uint8{key}
	return n
}

func rest(t, dur int) *model.Note {
	n := model.NewNote(dur)
	n.Time = t
	n.Pitches = []string{"z"}
	return n
}

func TestExportMergesTies(t *testing.T) {
	assert := assert.New(t)

	grace := note(0, 0, "G", 67)
	grace.Grace = true
	part := &timeline.Part{
		Voices: []int{1},
		Measures: []model.Voices{
			{1: {grace, note(0, 2, "C", 60), note(2, 2, "E-", 64), &model.Elem{Time: 4, Str: " |"}}},
			{1: {note(0, 2, "E", 64), rest(2, 2), &model.Elem{Time: 4, Str: " |"}}},
		},
		Divs:      2,
		Divisions: []int{2, 2},
	}
	song := Song{
		Parts:     []*timeline.Part{part},
		VoiceMaps: []map[int]int{{1: 1}},
		Settings:  []model.MidiSettings{{Channel: 1, Program: 1, Volume: 100, Pan: 64}},
		Tempo:     120,
		Beats:     4,
		BeatType:  4,
	}

	var buf bytes.Buffer
	assert.Nil(Export(&buf, song))

	s, err := Read(&buf)
	assert.Nil(err)
	assert.Len(s.Tracks, 2)
	assert.Equal(smf.MetricTicks(960), s.TimeFormat)
	assert.Equal([]Chord{
		{Tick: 0, Keys: []uint8{60}},
		{Tick: 960, Keys: []uint8{64}},
	}, Chords(s))
}

func TestExportAlignsMeasuresOfAllVoices(t *testing.T) {
	part := &timeline.Part{
		Voices: []int{1, 2},
		Measures: []model.Voices{
			{1: {note(0, 4, "c", 72)}, 2: {note(0, 2, "C", 60)}},
			{1: {note(0, 4, "d", 74)}, 2: {note(0, 4, "D", 62)}},
		},
		Divs: 1,
	}
	song := Song{
		Parts:     []*timeline.Part{part},
		VoiceMaps: []map[int]int{{1: 1, 2: 2}},
		Tempo:     100,
		Beats:     4,
		BeatType:  4,
	}

	var buf bytes.Buffer
	assert.Nil(t, Export(&buf, song))
	s, err := Read(&buf)
	assert.Nil(t, err)
	assert.Len(t, s.Tracks, 3)

	var keys []string
	for _, c := range Chords(s) {
		keys = append(keys, c.Key())
	}
	// the second measure starts after the longer voice
	assert.Equal(t, []string{"60-72", "72", "62-74"}, keys)
	assert.Equal(t, int64(4*960), Chords(s)[2].Tick)
}

func TestReadGarbage(t *testing.T) {
	_, err := Read(strings.NewReader("not a midi file"))
	assert.NotNil(t, err)
}

func TestChordKey(t *testing.T) {
	assert.Equal(t, "60-64-67", Chord{Keys: []uint8{67, 60, 64}}.Key())
}

func TestFromResult(t *testing.T) {
	assert := assert.New(t)

	out := emit.NewOutput("x", emit.Options{}, diag.New(nil))
	res := &convert.Result{Output: out}

	song := FromResult(res)
	assert.Equal(120.0, song.Tempo)
	assert.Equal(uint8(4), song.Beats)

	out.Header.Tempo = "96"
	out.Header.Meter = "3/8"
	song = FromResult(res)
	assert.Equal(96.0, song.Tempo)
	assert.Equal(uint8(3), song.Beats)
	assert.Equal(uint8(8), song.BeatType)
}
