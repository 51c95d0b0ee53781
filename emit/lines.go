package emit

import (
	"fmt"
	"strings"

	"github.com/jsphweid/xmlabc/util"
)

// FoldLines packs rendered measures into lines shorter than maxll
// characters. Every line ends with the running bar count and is followed
// by the lyric lines of the same measures, in line number order.
func FoldLines(bars []string, lyrics map[int][]string, maxll int) []string {
	var out []string
	bn := 0
	for len(bars) > 0 {
		ib := 1
		chunk := bars[0]
		for ib < len(bars) && len(chunk)+len(bars[ib]) < maxll {
			chunk += bars[ib]
			ib++
		}
		bn += ib
		out = append(out, fmt.Sprintf("%s %%%d", chunk, bn))
		bars = bars[ib:]
		for _, n := range util.SortedKeys(lyrics) {
			lyrs := lyrics[n]
			k := util.Min(ib, len(lyrs))
			out = append(out, "w: "+strings.Join(lyrs[:k], "|")+"|")
			lyrics[n] = lyrs[k:]
		}
	}
	return out
}
