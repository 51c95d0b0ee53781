package midi

import (
	"fmt"
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"
)

type keyEvent struct {
	tick int64
	off  bool
	key  uint8
}

// Chord is the set of keys sounding from Tick on.
type Chord struct {
	Tick int64
	Keys []uint8
}

// Key renders the keys in ascending order, e.g. "60-64-67".
func (c Chord) Key() string {
	keys := append([]uint8(nil), c.Keys...)
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	var res string
	for i, k := range keys {
		res += fmt.Sprintf("%v", k)
		if i < len(keys)-1 {
			res += "-"
		}
	}
	return res
}

// Chords merges all tracks and returns the sounding keys after every
// change, in tick order. Silences are left out.
func Chords(s *smf.SMF) []Chord {
	var events []keyEvent
	for _, track := range s.Tracks {
		var absTicks int64
		for _, event := range track {
			absTicks += int64(event.Delta)
			var channel, key, velocity uint8
			switch {
			case event.Message.GetNoteOn(&channel, &key, &velocity):
				events = append(events, keyEvent{tick: absTicks, key: key})
			case event.Message.GetNoteOff(&channel, &key, &velocity):
				events = append(events, keyEvent{tick: absTicks, off: true, key: key})
			}
		}
	}

	// smaller ticks first, then note offs
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].off && !events[j].off
	})

	var chords []Chord
	pressed := map[uint8]bool{}
	for i, evt := range events {
		if evt.off {
			delete(pressed, evt.key)
		} else {
			pressed[evt.key] = true
		}
		if i+1 < len(events) && events[i+1].tick == evt.tick {
			continue
		}
		if len(pressed) == 0 {
			continue
		}
		c := Chord{Tick: evt.tick}
		for k := range pressed {
			c.Keys = append(c.Keys, k)
		}
		sort.Slice(c.Keys, func(i, j int) bool { return c.Keys[i] < c.Keys[j] })
		chords = append(chords, c)
	}
	return chords
}
