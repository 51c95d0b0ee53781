package topology

import (
	"sort"

	"github.com/jsphweid/xmlabc/model"
)

// Instrument is one midi-instrument of a score-part.
type Instrument struct {
	Id       string
	Settings model.MidiSettings
}

// MidiMap returns the midi settings of the written voices of one part in
// abc voice order. A voice takes the instrument it plays on, else the
// first instrument of the part.
func MidiMap(instruments []Instrument, voiceInst map[int]string, vvmap map[int]int) []model.MidiSettings {
	def := model.DefaultMidiSettings()
	if len(instruments) > 0 {
		def = instruments[0].Settings
	}
	byId := map[string]model.MidiSettings{}
	for _, in := range instruments {
		byId[in.Id] = in.Settings
	}
	type entry struct {
		abc int
		ms  model.MidiSettings
	}
	var xs []entry
	for v, av := range vvmap {
		ms, ok := byId[voiceInst[v]]
		if !ok {
			ms = def
		}
		xs = append(xs, entry{av, ms})
	}
	sort.Slice(xs, func(i, j int) bool { return xs[i].abc < xs[j].abc })
	out := make([]model.MidiSettings, len(xs))
	for i, x := range xs {
		out[i] = x.ms
	}
	return out
}
