package timeline

import (
	"testing"

	"github.com/jsphweid/xmlabc/diag"
	"github.com/jsphweid/xmlabc/model"
	"github.com/stretchr/testify/assert"
)

func quarter(lyrics map[int]string) *model.Note {
	n := model.NewNote(24)
	if lyrics != nil {
		n.Lyrics = lyrics
	}
	return n
}

func TestAddBarAppendsBarlineAtMaxTime(t *testing.T) {
	log := diag.New(nil)
	mu := New(log, 0)
	mu.StartPart([]int{1, 2})
	m := model.NewMeasure(0)
	m.Divs, m.Dur = 24, 96

	mu.AppendNote(1, quarter(nil), "c", 60)
	mu.AppendNote(1, model.NewNote(72), "z", -1)
	mu.IncTime(-96)
	mu.AppendNote(2, quarter(nil), "C", 48)
	mu.AddBar("", m)
	p := mu.FinishPart(0, 24)

	assert := assert.New(t)
	assert.Equal([]int{1, 2}, p.Voices)
	assert.Len(p.Measures, 1)
	v1 := p.Measures[0][1]
	assert.Equal(" |", v1[len(v1)-1].(*model.Elem).Str)
	assert.Equal(96, v1[len(v1)-1].Start())
	v2 := p.Measures[0][2]
	// voice 2 only reached time 24 but the barline sits at 96
	assert.Equal([]string{"x"}, v2[1].(*model.Note).Pitches)
	assert.Equal(72, v2[1].(*model.Note).Dur)
	assert.Equal(96, v2[2].Start())
	assert.Empty(log.Warnings())
}

func TestLongMeasureIsReported(t *testing.T) {
	log := diag.New(nil)
	mu := New(log, 0)
	mu.StartPart([]int{1})
	m := model.NewMeasure(0)
	m.Divs, m.Dur = 24, 48
	mu.AppendNote(1, model.NewNote(72), "c", 60)
	mu.AddBar("", m)
	assert.Equal(t, []string{"measure 1 in part 1 longer than metre"}, log.Warnings())
}

func TestRepeatAndVoltaModifyPreviousBarline(t *testing.T) {
	mu := New(diag.New(nil), 0)
	mu.StartPart([]int{1})
	m := model.NewMeasure(0)
	m.Divs = 24
	mu.AppendNote(1, quarter(nil), "c", 60)
	m.RightBar = "||"
	mu.AddBar("", m)

	m.Reset()
	m.Index = 1
	m.LeftBar = ":"
	m.Volta = "1"
	mu.AppendNote(1, quarter(nil), "d", 62)
	mu.AddBar("$", m)
	p := mu.FinishPart(0, 24)

	first := p.Measures[0][1]
	assert := assert.New(t)
	assert.Equal(" |:1$", first[len(first)-1].(*model.Elem).Str)
	assert.True(p.RepBra)
}

func TestLeftRepeatInFirstMeasureIsInserted(t *testing.T) {
	mu := New(diag.New(nil), 0)
	mu.StartPart([]int{1})
	m := model.NewMeasure(0)
	m.LeftBar = ":"
	m.Attr = "[K:G]"
	mu.AppendNote(1, quarter(nil), "c", 60)
	mu.AddBar("", m)
	p := mu.FinishPart(0, 24)

	v := p.Measures[0][1]
	assert := assert.New(t)
	assert.Equal("[K:G]", v[0].(*model.Elem).Str)
	assert.Equal("|:", v[1].(*model.Elem).Str)
}

func TestLyricsAreFoldedPerLine(t *testing.T) {
	mu := New(diag.New(nil), 0)
	mu.StartPart([]int{1})
	m := model.NewMeasure(0)
	mu.AppendNote(1, quarter(map[int]string{1: "la_", 2: "do"}), "c", 60)
	mu.AppendNote(1, quarter(nil), "d", 62)
	mu.AppendNote(1, model.NewNote(24), "z", -1)
	mu.AddBar("", m)
	mu.AppendNote(1, quarter(nil), "e", 64)
	mu.AppendNote(1, quarter(map[int]string{1: "di"}), "f", 65)
	mu.AddBar("", m)
	p := mu.FinishPart(0, 24)

	assert := assert.New(t)
	assert.Equal(model.Lyric{Text: "la _", Melisma: true}, p.Lyrics[0][1][1])
	assert.Equal(model.Lyric{Text: "do *"}, p.Lyrics[0][1][2])
	assert.Equal(model.Lyric{Text: "_ di"}, p.Lyrics[1][1][1])
	_, ok := p.Lyrics[1][1][2]
	assert.False(ok)
}

func TestCounterReport(t *testing.T) {
	log := diag.New(nil)
	c := NewCounter()
	c.Clear([]int{1, 2})
	c.IncNote(1)
	c.IncPitchless(1)
	c.IncNonPrintable(2)
	c.Report(log, 1)
	assert.Equal(t, []string{
		"part 1, voice 1 has 1 notes without pitch",
		"part 1, voice 2 has 1 skipped non printable notes",
		"part 1, skipped empty voice 2",
	}, log.Warnings())
}

func TestAbcLyric(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(model.Lyric{}, AbcLyric([]string{"", ""}, true))
	assert.Equal(model.Lyric{Text: "_ a b"}, AbcLyric([]string{"", "a", "b"}, true))
	assert.Equal(model.Lyric{Text: `a\_ *`}, AbcLyric([]string{`a\_`, ""}, false))
}
