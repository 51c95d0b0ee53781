package timeline

import (
	"strings"

	"github.com/jsphweid/xmlabc/model"
)

// AbcLyric joins the syllables of one lyric line in one measure, one per
// note. Notes without a syllable get "_" while a melisma runs and "*"
// otherwise. The returned flag tells whether a melisma is still running.
func AbcLyric(syllables []string, melisma bool) model.Lyric {
	if strings.Join(syllables, "") == "" {
		return model.Lyric{}
	}
	res := make([]string, 0, len(syllables))
	for _, x := range syllables {
		switch {
		case x == "":
			if melisma {
				x = "_"
			} else {
				x = "*"
			}
		case strings.HasSuffix(x, "_") && !strings.HasSuffix(x, `\_`):
			x = strings.TrimSuffix(x, "_")
			melisma = true
		default:
			melisma = false
		}
		res = append(res, x)
	}
	return model.Lyric{Text: strings.Join(res, " "), Melisma: melisma}
}
