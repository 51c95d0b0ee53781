package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jsphweid/xmlabc/config"
	"github.com/jsphweid/xmlabc/constants"
	"github.com/jsphweid/xmlabc/convert"
	"github.com/jsphweid/xmlabc/db"
	"github.com/jsphweid/xmlabc/diag"
	"github.com/jsphweid/xmlabc/midi"
	"github.com/jsphweid/xmlabc/util"
)

var (
	configPath string
	flagOpts   config.Options
)

func init() {
	f := convertCmd.Flags()
	f.StringVar(&configPath, "config", "", "yaml file with options, flags take precedence")
	f.BoolVarP(&flagOpts.Unfold, "unfold", "u", false, "unfold simple repeats")
	f.BoolVarP(&flagOpts.VolPan, "volpan", "m", false, "write midi volume and panning")
	f.IntVarP(&flagOpts.CreditFilter, "credits", "c", 0, "credit text filter level (0-6)")
	f.IntVarP(&flagOpts.UnitDen, "unit", "d", 0, "unit length denominator for all voices, 0 chooses per voice")
	f.IntVarP(&flagOpts.LineWidth, "width", "n", 0, "maximum number of characters per line of notes")
	f.StringVarP(&flagOpts.OutDir, "outdir", "o", "", "directory for the .abc files, stdout when empty")
	f.IntVarP(&flagOpts.Volta, "volta", "v", 0, "volta typesetting behaviour (0-3)")
	f.BoolVar(&flagOpts.Midi, "midi", false, "also write a .mid file for every tune")
	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert [files...]",
	Short: "Converts MusicXML files to ABC",
	Long: `Converts MusicXML files to ABC. Arguments may be glob patterns.
Tunes go to stdout separated by a blank line unless an output directory is given.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts, err := options(cmd)
		cobra.CheckErr(err)
		catalog, err := db.New()
		cobra.CheckErr(err)
		ConvertAll(util.GatherScorePaths(args), opts, catalog, diag.Stderr())
	},
}

// options reads the options file and lays the explicitly given flags over it.
func options(cmd *cobra.Command) (config.Options, error) {
	opts, err := config.Load(configPath)
	if err != nil {
		return opts, err
	}
	f := cmd.Flags()
	if f.Changed("unfold") {
		opts.Unfold = flagOpts.Unfold
	}
	if f.Changed("volpan") {
		opts.VolPan = flagOpts.VolPan
	}
	if f.Changed("credits") {
		opts.CreditFilter = flagOpts.CreditFilter
	}
	if f.Changed("unit") {
		opts.UnitDen = flagOpts.UnitDen
	}
	if f.Changed("width") {
		opts.LineWidth = flagOpts.LineWidth
	}
	if f.Changed("outdir") {
		opts.OutDir = flagOpts.OutDir
	}
	if f.Changed("volta") {
		opts.Volta = flagOpts.Volta
	}
	if f.Changed("midi") {
		opts.Midi = flagOpts.Midi
	}
	if opts.OutDir == "" {
		opts.OutDir = constants.GetOutDir()
	}
	return opts, opts.Validate()
}

// ConvertAll converts every path as tune number position + 1. A failing
// document is reported and the batch goes on. It returns the number of
// tunes written.
func ConvertAll(paths []string, opts config.Options, catalog db.Catalog, log *diag.Log) int {
	written := 0
	for i, path := range paths {
		if util.IsDir(path) || !util.IsScoreFile(path) {
			log.Infof("skipping %s, not a MusicXML file", path)
			continue
		}
		if _, err := os.Stat(path); err != nil {
			log.Infof("skipping %s, file not found", path)
			continue
		}
		res, err := convert.ConvertFile(path, i+1, opts, log)
		if errors.Is(err, convert.ErrNoNotes) {
			continue
		}
		if err != nil {
			log.Infof("conversion of %s failed: %v", path, err)
			continue
		}
		if err := writeTune(res, opts); err != nil {
			log.Infof("%v", err)
			continue
		}
		if err := catalog.PutScore(res.Meta); err != nil {
			log.Infof("%v", err)
		}
		written++
	}
	return written
}

func writeTune(res *convert.Result, opts config.Options) error {
	if opts.OutDir == "" {
		if _, err := res.Output.WriteTo(os.Stdout); err != nil {
			return err
		}
		fmt.Println()
	} else {
		if err := os.MkdirAll(opts.OutDir, 0755); err != nil {
			return errors.Wrap(err, "creating output directory")
		}
		f, err := os.Create(filepath.Join(opts.OutDir, res.Name+".abc"))
		if err != nil {
			return errors.Wrapf(err, "creating %s.abc", res.Name)
		}
		defer f.Close()
		if _, err := res.Output.WriteTo(f); err != nil {
			return err
		}
	}
	if !opts.Midi {
		return nil
	}
	f, err := os.Create(filepath.Join(opts.OutDir, res.Name+".mid"))
	if err != nil {
		return errors.Wrapf(err, "creating %s.mid", res.Name)
	}
	defer f.Close()
	return midi.Export(f, midi.FromResult(res))
}
