package timeline

import (
	"github.com/jsphweid/xmlabc/diag"
	"github.com/jsphweid/xmlabc/util"
)

// Counter keeps per voice statistics for one part.
type Counter struct {
	notes        map[int]int
	nonPrintable map[int]int
	pitchless    map[int]int
}

func NewCounter() *Counter {
	c := &Counter{}
	c.Clear(nil)
	return c
}

// Clear resets all counters to zero for the given voices.
func (c *Counter) Clear(voices []int) {
	c.notes, c.nonPrintable, c.pitchless = map[int]int{}, map[int]int{}, map[int]int{}
	for _, v := range voices {
		c.notes[v] = 0
		c.nonPrintable[v] = 0
		c.pitchless[v] = 0
	}
}

func (c *Counter) IncNote(v int)         { c.notes[v]++ }
func (c *Counter) IncNonPrintable(v int) { c.nonPrintable[v]++ }
func (c *Counter) IncPitchless(v int)    { c.pitchless[v]++ }

func (c *Counter) Notes(v int) int { return c.notes[v] }

// Report prints a summary of all non zero counters of part ip (1 based).
func (c *Counter) Report(log *diag.Log, ip int) {
	for _, v := range util.SortedKeys(c.notes) {
		if n := c.nonPrintable[v]; n != 0 {
			log.Warnf("part %d, voice %d has %d skipped non printable notes", ip, v, n)
		}
		if n := c.pitchless[v]; n != 0 {
			log.Warnf("part %d, voice %d has %d notes without pitch", ip, v, n)
		}
		if c.notes[v] == 0 {
			log.Warnf("part %d, skipped empty voice %d", ip, v)
		}
	}
}
