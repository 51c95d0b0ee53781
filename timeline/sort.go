package timeline

import (
	"sort"

	"github.com/jsphweid/xmlabc/diag"
	"github.com/jsphweid/xmlabc/model"
)

// SortMeasure orders the entries of one voice in one measure on time and
// makes them sequential: holes are filled with invisible rests and
// overlapping notes are merged, shortened or dropped.
func SortMeasure(voice []model.Entry, m *model.Measure, log *diag.Log) []model.Entry {
	sort.SliceStable(voice, func(i, j int) bool {
		return voice[i].Start() < voice[j].Start()
	})
	time := 0
	var v []model.Entry
	for _, e := range voice {
		if e.Start() > time {
			v = append(v, model.NewRest(time, e.Start()-time))
		}
		if el, ok := e.(*model.Elem); ok {
			if el.Time < time {
				el.Time = time // elements without duration move to where they fit
			}
			v = append(v, el)
			time = el.Time
			continue
		}
		nx := e.(*model.Note)
		if nx.Time < time {
			if nx.IsRest() {
				log.Warnf("overlap in part %d, measure %d: rest discarded", m.Part+1, m.Index+1)
				continue
			}
			prev, ok := lastNote(v)
			if !ok || prev.Time > nx.Time {
				log.Warnf("overlapping notes in one voice! part %d, measure %d, note %v discarded", m.Part+1, m.Index+1, nx.Pitches)
				continue
			}
			if prev.IsRest() {
				prev.Dur = nx.Time - prev.Time
				if prev.Dur == 0 {
					v = v[:len(v)-1]
				}
				log.Warnf("overlap in part %d, measure %d: rest shortened", m.Part+1, m.Index+1)
			} else {
				prev.Pitches = append(prev.Pitches, nx.Pitches...)
				prev.Keys = append(prev.Keys, nx.Keys...)
				log.Warnf("overlap in part %d, measure %d: added chord", m.Part+1, m.Index+1)
				nx.Dur = nx.Time + nx.Dur - time // the remains
				if nx.Dur <= 0 {
					continue
				}
				nx.Time = time
			}
		}
		v = append(v, nx)
		time = nx.Time + nx.Dur
	}
	// a measure without notes or forwards never advances the time, its
	// barline then sits at time zero
	if time == 0 {
		log.Warnf("empty measure in part %d, measure %d, it should contain at least a rest to advance the time!", m.Part+1, m.Index+1)
	}
	return v
}

// lastNote returns the last retained entry when it is a note.
func lastNote(v []model.Entry) (*model.Note, bool) {
	if len(v) == 0 {
		return nil, false
	}
	n, ok := v[len(v)-1].(*model.Note)
	return n, ok
}
