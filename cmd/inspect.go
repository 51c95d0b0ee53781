package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jsphweid/xmlabc/config"
	"github.com/jsphweid/xmlabc/convert"
	"github.com/jsphweid/xmlabc/diag"
	"github.com/jsphweid/xmlabc/midi"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Inspects a score or a midi file",
	Long: `Prints the parts, voices and unit lengths of a MusicXML score, or the
chords of a midi file written by convert --midi.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			panic("Need 1 arg...")
		}
		inspect(args[0])
	},
}

func inspect(path string) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".mid" || ext == ".midi" {
		s, err := midi.ReadFile(path)
		if err != nil {
			panic(err)
		}
		for _, c := range midi.Chords(s) {
			fmt.Printf("tick: %v\n", c.Tick)
			fmt.Printf("keys: %v\n", c.Key())
		}
		return
	}

	res, err := convert.ConvertFile(path, 1, config.Options{}, diag.Stderr())
	if err != nil {
		panic(err)
	}
	fmt.Printf("%v\n", res)
	for ip, p := range res.Parts {
		fmt.Printf("part %d: %d measures, %d divisions, voices %v\n", ip+1, len(p.Measures), p.Divs, p.Voices)
		for _, v := range p.Voices {
			if vnum, ok := res.VoiceMaps[ip][v]; ok {
				fmt.Printf("  voice %d -> V:%d L:1/%d\n", v, vnum, res.Output.CmpL[vnum-1])
			}
		}
	}
}
