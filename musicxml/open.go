package musicxml

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/html/charset"
)

func Decode(r io.Reader) (*Score, error) {
	var s Score
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	if err := dec.Decode(&s); err != nil {
		return nil, errors.Wrap(err, "decoding musicxml")
	}
	return &s, nil
}

// DecodeMXL decodes the first MusicXML file in a compressed archive,
// skipping the META-INF entries.
func DecodeMXL(r io.ReaderAt, size int64) (*Score, error) {
	z, err := zip.NewReader(r, size)
	if err != nil {
		return nil, errors.Wrap(err, "opening mxl archive")
	}
	for _, f := range z.File {
		if strings.HasPrefix(f.Name, "META") || strings.ToLower(filepath.Ext(f.Name)) != ".xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, errors.Wrapf(err, "opening %s", f.Name)
		}
		defer rc.Close()
		return Decode(rc)
	}
	return nil, errors.New("no musicxml file in mxl archive")
}

func IsCompressed(name string) bool {
	return strings.ToLower(filepath.Ext(name)) == ".mxl"
}

// Load decodes a document held in memory, name decides between plain and
// compressed.
func Load(name string, data []byte) (*Score, error) {
	if IsCompressed(name) {
		return DecodeMXL(bytes.NewReader(data), int64(len(data)))
	}
	return Decode(bytes.NewReader(data))
}

func Open(path string) (*Score, error) {
	if IsCompressed(path) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return Load(path, data)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()
	return Decode(f)
}
