// Package unitlen picks the abc unit note length (L:1/n) per voice.
package unitlen

import (
	"github.com/jsphweid/xmlabc/constants"
	"github.com/jsphweid/xmlabc/duration"
	"github.com/jsphweid/xmlabc/model"
)

// Divs returns the divisions per quarter of measure im, falling back to
// the last known value of the part.
func Divs(divisions []int, im, fallback int) int {
	if im < len(divisions) && divisions[im] > 0 {
		return divisions[im]
	}
	return fallback
}

// TextLength sums the length of the duration strings of all notes with a
// real duration in voice v over all measures.
func TextLength(measures []model.Voices, divisions []int, v, divs, unitL int) int {
	total := 0
	for im, m := range measures {
		d := Divs(divisions, im, divs)
		for _, e := range m[v] {
			n, ok := e.(*model.Note)
			if !ok || n.Dur == 0 {
				continue
			}
			total += len(duration.ForNote(n, d, unitL))
		}
	}
	return total
}

// Optimal returns the candidate unit length giving the shortest text for
// voice v. Candidates are tried in order and the first one wins a tie.
func Optimal(measures []model.Voices, divisions []int, v, divs int) int {
	best, bestLen := 0, -1
	for _, unitL := range constants.UnitLengths {
		l := TextLength(measures, divisions, v, divs, unitL)
		if bestLen < 0 || l < bestLen {
			best, bestLen = unitL, l
		}
	}
	return best
}

// Default returns the unit length used by most voices, the smaller one on
// a tie. A non zero override always wins.
func Default(perVoice []int, override int) int {
	if override != 0 {
		return override
	}
	counts := map[int]int{}
	for _, u := range perVoice {
		counts[u]++
	}
	best, bestCount := constants.DefaultUnitLength, 0
	for u, c := range counts {
		if c > bestCount || (c == bestCount && u < best) {
			best, bestCount = u, c
		}
	}
	return best
}
