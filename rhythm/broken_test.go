package rhythm

import (
	"testing"

	"github.com/jsphweid/xmlabc/duration"
	"github.com/jsphweid/xmlabc/model"
	"github.com/stretchr/testify/assert"
)

func note(dur, beam int) *model.Note {
	n := model.NewNote(dur)
	n.Beam = beam
	n.Pitches = []string{"c"}
	return n
}

func TestShortLongPairGetsForwardMarker(t *testing.T) {
	n1, n2 := note(2, 0), note(6, 1)
	MkBroken([]model.Entry{n1, n2})

	assert := assert.New(t)
	assert.Equal(4, n1.Dur)
	assert.Equal(4, n2.Dur)
	assert.Equal("<", n1.After)
	assert.Equal("", n2.After)
}

func TestLongShortPairGetsBackwardMarker(t *testing.T) {
	n1, n2 := note(18, 0), note(6, 1)
	n1.After = ")"
	MkBroken([]model.Entry{n1, n2})

	assert := assert.New(t)
	assert.Equal(12, n1.Dur)
	assert.Equal(12, n2.Dur)
	assert.Equal(">)", n1.After)
	// dotted eighth + sixteenth at 24 divisions is two eighths at L:1/8
	assert.Equal("", duration.ForNote(n1, 24, 8))
}

func TestPairsAreNotChained(t *testing.T) {
	n1, n2, n3 := note(2, 0), note(6, 1), note(2, 1)
	MkBroken([]model.Entry{n1, n2, n3})

	assert := assert.New(t)
	assert.Equal("<", n1.After)
	assert.Equal("", n2.After)
	assert.Equal(2, n3.Dur)
}

func TestIneligiblePairsAreLeftAlone(t *testing.T) {
	cases := map[string][]*model.Note{
		"unbeamed":   {note(2, 0), note(6, 0)},
		"tuplet":     {note(2, 0), note(6, 1)},
		"zero first": {note(0, 0), note(6, 1)},
	}
	cases["tuplet"][1].Fact = &model.Fraction{Num: 3, Den: 2}
	for name, ns := range cases {
		t.Run(name, func(t *testing.T) {
			before := []int{ns[0].Dur, ns[1].Dur}
			MkBroken([]model.Entry{ns[0], &model.Elem{Str: "!p!"}, ns[1]})
			assert.Equal(t, before, []int{ns[0].Dur, ns[1].Dur})
			assert.Equal(t, "", ns[0].After)
		})
	}
}
