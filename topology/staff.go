// Package topology maps source voices to staves and abc voice numbers and
// renders the part-list hierarchy as a %%score line.
package topology

import (
	"sort"

	"github.com/jsphweid/xmlabc/util"
)

// NoteRef is what the staff vote needs to know about a note.
type NoteRef struct {
	Voice      int
	Staff      int
	Instrument string
}

// StaffMap is the voice layout of one part.
type StaffMap struct {
	Voices     []int         // all voice numbers used in the part, ascending
	Staves     map[int][]int // staff -> voices
	Instrument map[int]string
}

// LocStaffMap assigns every voice to the staff holding most of its notes.
// Votes are sorted ascending on (count, staff) and the last one wins, so
// on equal counts the highest staff number is chosen.
func LocStaffMap(notes []NoteRef) *StaffMap {
	votes := map[int]map[int]int{}
	sm := &StaffMap{Staves: map[int][]int{}, Instrument: map[int]string{}}
	for _, n := range notes {
		if votes[n.Voice] == nil {
			votes[n.Voice] = map[int]int{}
		}
		votes[n.Voice][n.Staff]++
		if n.Instrument != "" {
			sm.Instrument[n.Voice] = n.Instrument
		}
	}
	sm.Voices = util.SortedKeys(votes)
	for _, v := range sm.Voices {
		type vote struct{ count, staff int }
		var xs []vote
		for staff, count := range votes[v] {
			xs = append(xs, vote{count, staff})
		}
		sort.Slice(xs, func(i, j int) bool {
			if xs[i].count != xs[j].count {
				return xs[i].count < xs[j].count
			}
			return xs[i].staff < xs[j].staff
		})
		stf := xs[len(xs)-1].staff
		sm.Staves[stf] = append(sm.Staves[stf], v)
	}
	return sm
}

// AbcStaves translates the staves to abc voice numbers, dropping voices
// that were not written, and assigns every abc voice the clef of its
// staff. Staves without a known clef get treble.
func (sm *StaffMap) AbcStaves(vvmap map[int]int, clefMap map[int]string, clefs map[int]string) [][]int {
	var part [][]int
	for _, stf := range util.SortedKeys(sm.Staves) {
		var loc []int
		for _, v := range sm.Staves[stf] {
			if av, ok := vvmap[v]; ok {
				loc = append(loc, av)
			}
		}
		if len(loc) == 0 {
			continue
		}
		sort.Ints(loc)
		part = append(part, loc)
		clef, ok := clefMap[stf]
		if !ok {
			clef = "treble"
		}
		for _, av := range loc {
			clefs[av] = clef
		}
	}
	return part
}
