// Package convert translates MusicXML documents to abc tunes.
package convert

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/jsphweid/xmlabc/config"
	"github.com/jsphweid/xmlabc/diag"
	"github.com/jsphweid/xmlabc/emit"
	"github.com/jsphweid/xmlabc/model"
	"github.com/jsphweid/xmlabc/musicxml"
	"github.com/jsphweid/xmlabc/timeline"
	"github.com/jsphweid/xmlabc/unitlen"
)

var ErrNoNotes = errors.New("no notes")

// Result is one converted tune with the frozen parts it was written from.
type Result struct {
	Name      string
	Output    *emit.Output
	Parts     []*timeline.Part
	VoiceMaps []map[int]int        // per part: source voice -> abc voice
	Midi      []model.MidiSettings // per abc voice
	Meta      model.ScoreMetadata
}

func (r *Result) Abc() string {
	return r.Output.String()
}

func (p *Parser) defaultUnitLength() int {
	return unitlen.Default(p.out.CmpL, p.opts.UnitDen)
}

// Convert converts one decoded document as tune number x. A panic during
// the conversion of a malformed document is returned as an error.
func Convert(name string, x int, s *musicxml.Score, opts config.Options, log *diag.Log) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, errors.Errorf("%s: %v", name, r)
		}
	}()
	return NewParser(name, x, opts, log).Parse(s)
}

// TuneName is the file name without directory and extension.
func TuneName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func ConvertFile(path string, x int, opts config.Options, log *diag.Log) (*Result, error) {
	s, err := musicxml.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return Convert(TuneName(path), x, s, opts, log)
}

// ConvertData converts an uploaded document.
func ConvertData(name string, data []byte, opts config.Options, log *diag.Log) (*Result, error) {
	s, err := musicxml.Load(name, data)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", name)
	}
	return Convert(TuneName(name), 1, s, opts, log)
}

func (r *Result) String() string {
	return fmt.Sprintf("%s: %d voices", r.Name, r.Meta.Voices)
}
