package duration

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/jsphweid/xmlabc/model"
	"github.com/stretchr/testify/assert"
)

// parse reads an abc length string back into a fraction
func parse(s string) (int, int) {
	num, den := 1, 1
	if s == "" {
		return num, den
	}
	parts := strings.SplitN(s, "/", 2)
	if parts[0] != "" {
		num, _ = strconv.Atoi(parts[0])
	}
	if len(parts) == 2 {
		if parts[1] == "" {
			den = 2
		} else {
			den, _ = strconv.Atoi(parts[1])
		}
	}
	return num, den
}

func TestFormat(t *testing.T) {
	cases := []struct {
		num, den int
		want     string
	}{
		{1, 1, ""},
		{1, 2, "/"},
		{1, 4, "/4"},
		{3, 1, "3"},
		{3, 2, "3/2"},
		{7, 16, "7/16"},
	}
	for _, c := range cases {
		t.Run(fmt.Sprintf("%d/%d", c.num, c.den), func(t *testing.T) {
			assert.Equal(t, c.want, Format(c.num, c.den))
		})
	}
}

func TestZeroDurationIsEmpty(t *testing.T) {
	assert.Equal(t, "", Abc(0, 24, 8, &model.Fraction{Num: 3, Den: 2}))
}

func TestQuarterAtEighthUnit(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("2", Abc(24, 24, 8, nil))
	assert.Equal("", Abc(12, 24, 8, nil))
	assert.Equal("/", Abc(6, 24, 8, nil))
	assert.Equal("3", Abc(36, 24, 8, nil))
	assert.Equal("8", Abc(96, 24, 8, nil))
}

func TestTupletFactorIsApplied(t *testing.T) {
	// a triplet eighth lasts 8 divisions at 24 per quarter
	assert.Equal(t, "", Abc(8, 24, 8, &model.Fraction{Num: 3, Den: 2}))
}

func TestRoundTripsAgainstReducedFraction(t *testing.T) {
	assert := assert.New(t)
	for _, divs := range []int{1, 2, 3, 24, 480} {
		for _, unit := range []int{4, 8, 16} {
			for dur := 1; dur < divs*4*10; dur += 1 + dur/7 {
				s := Abc(dur, divs, unit, nil)
				num, den := parse(s)
				assert.LessOrEqual(den, 64)
				wn, wd := Simplify(dur*unit, divs*4)
				if wd <= 64 {
					assert.Equal([2]int{wn, wd}, [2]int{num, den}, "dur %d divs %d unit %d", dur, divs, unit)
				} else {
					got := float64(num) / float64(den)
					want := float64(wn) / float64(wd)
					assert.InDelta(want, got, 1.0/64)
				}
			}
		}
	}
}

func TestLimitDenominator(t *testing.T) {
	assert := assert.New(t)
	n, d := LimitDenominator(1, 1000, 64)
	assert.Equal([2]int{0, 1}, [2]int{n, d})
	n, d = LimitDenominator(100, 301, 64)
	assert.Equal([2]int{1, 3}, [2]int{n, d})
	n, d = LimitDenominator(5, 8, 64)
	assert.Equal([2]int{5, 8}, [2]int{n, d})
}
