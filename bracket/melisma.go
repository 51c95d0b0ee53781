package bracket

import (
	"strings"

	"github.com/jsphweid/xmlabc/model"
)

// Melisma returns one "_" for every real note of the measure up to the
// first rest.
func Melisma(entries []model.Entry) string {
	var ms []string
	for _, e := range entries {
		n, ok := e.(*model.Note)
		if !ok || n.Grace {
			continue
		}
		if n.IsRest() {
			break
		}
		ms = append(ms, "_")
	}
	return strings.Join(ms, " ")
}

// CheckMelismas continues every melisma of the previous measure of voice v
// into measure im when that lyric line has no syllables there.
func CheckMelismas(lyrics []map[int]model.LyricLines, measures []model.Voices, im, v int) {
	if im == 0 {
		return
	}
	cur := lyrics[im][v]
	for n, prev := range lyrics[im-1][v] {
		if _, ok := cur[n]; ok || !prev.Melisma {
			continue
		}
		if ms := Melisma(measures[im][v]); ms != "" {
			if cur == nil {
				cur = model.LyricLines{}
				lyrics[im][v] = cur
			}
			cur[n] = model.Lyric{Text: ms}
		}
	}
}
