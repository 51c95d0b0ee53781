package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"

	"github.com/jsphweid/xmlabc/config"
	"github.com/jsphweid/xmlabc/db"
	"github.com/jsphweid/xmlabc/diag"
	"github.com/jsphweid/xmlabc/midi"
	"github.com/jsphweid/xmlabc/model"
)

const song = `<?xml version="1.0" encoding="UTF-8"?>
<score-partwise version="3.1">
  <work><work-title>Song</work-title></work>
  <part-list><score-part id="P1"><part-name>Flute</part-name></score-part></part-list>
  <part id="P1">
    <measure number="1">
      <attributes><divisions>1</divisions><time><beats>2</beats><beat-type>4</beat-type></time><clef><sign>G</sign><line>2</line></clef></attributes>
      <note><pitch><step>C</step><octave>4</octave></pitch><duration>1</duration></note>
      <note><pitch><step>E</step><octave>4</octave></pitch><duration>1</duration></note>
    </measure>
  </part>
</score-partwise>`

func writeSong(t *testing.T, dir, name string) string {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(song), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConvertAll(t *testing.T) {
	assert := assert.New(t)
	in, out := t.TempDir(), t.TempDir()
	path := writeSong(t, in, "song.xml")

	opts := config.Options{OutDir: out, Midi: true}
	paths := []string{filepath.Join(in, "missing.xml"), filepath.Join(in, "notes.txt"), path}
	assert.Equal(1, ConvertAll(paths, opts, db.Noop{}, diag.New(nil)))

	abc, err := os.ReadFile(filepath.Join(out, "song.abc"))
	assert.Nil(err)
	assert.True(strings.HasPrefix(string(abc), "X:3\nT:Song\n"))
	assert.Contains(string(abc), "M:2/4")

	s, err := midi.ReadFile(filepath.Join(out, "song.mid"))
	assert.Nil(err)
	var keys []string
	for _, c := range midi.Chords(s) {
		keys = append(keys, c.Key())
	}
	assert.Equal([]string{"60", "64"}, keys)
}

func upload(t *testing.T, h http.Handler, name string) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", name)
	if err != nil {
		t.Fatal(err)
	}
	io.WriteString(fw, song)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func get(h http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

type memCatalog map[string]model.ScoreMetadata

func (m memCatalog) PutScore(meta model.ScoreMetadata) error {
	m[meta.Filename] = meta
	return nil
}

func (m memCatalog) GetScores(names []string) (map[string]model.ScoreMetadata, error) {
	res := map[string]model.ScoreMetadata{}
	for _, name := range names {
		if meta, ok := m[name]; ok {
			res[name] = meta
		}
	}
	return res, nil
}

func TestServe(t *testing.T) {
	assert := assert.New(t)
	uploadDir = t.TempDir()
	catalog = memCatalog{}
	rescan = func(f func()) { f() }
	h := NewRouter()

	w := upload(t, h, "song.xml")
	assert.Equal(http.StatusOK, w.Code)
	var up model.UploadResponse
	assert.Nil(json.Unmarshal(w.Body.Bytes(), &up))
	assert.True(strings.HasSuffix(up.Filename, "-song.xml"))

	w = get(h, http.MethodGet, "/files")
	var entries []model.FileEntry
	assert.Nil(json.Unmarshal(w.Body.Bytes(), &entries))
	assert.Equal([]model.FileEntry{{Name: up.Filename}}, entries)

	w = get(h, http.MethodGet, "/abc?name="+up.Filename)
	assert.Equal(http.StatusOK, w.Code)
	assert.Contains(w.Body.String(), "T:Song")

	// converted files are listed with their title
	ScanUploads()
	w = get(h, http.MethodGet, "/files")
	assert.Nil(json.Unmarshal(w.Body.Bytes(), &entries))
	assert.Equal([]model.FileEntry{{Name: up.Filename, Title: "Song"}}, entries)

	w = get(h, http.MethodPost, "/convert?d=16&name="+up.Filename)
	assert.Equal(http.StatusOK, w.Code)
	var conv model.ConvertResponse
	assert.Nil(json.Unmarshal(w.Body.Bytes(), &conv))
	assert.Contains(conv.Abc, "L:1/16")
	assert.Equal(strings.TrimSuffix(up.Filename, ".xml"), conv.Name)
	assert.NotEmpty(conv.Id)
	assert.NotNil(conv.Warnings)

	w = get(h, http.MethodGet, "/download?name="+up.Filename)
	assert.Equal(http.StatusOK, w.Code)
	assert.Equal(song, w.Body.String())
	assert.Contains(w.Header().Get("Content-Disposition"), `filename="song.xml"`)
}

func TestServeErrors(t *testing.T) {
	uploadDir = t.TempDir()
	catalog = db.Noop{}
	rescan = func(f func()) { f() }
	h := NewRouter()
	name := filepath.Base(writeSong(t, uploadDir, "song.xml"))

	for i, tc := range []struct {
		method, target string
		status         int
	}{
		{http.MethodGet, "/abc?name=../song.xml", http.StatusNotFound},
		{http.MethodGet, "/abc?name=other.xml", http.StatusNotFound},
		{http.MethodGet, "/download", http.StatusNotFound},
		{http.MethodPost, "/convert?d=3&name=" + name, http.StatusBadRequest},
		{http.MethodPost, "/convert?v=x&name=" + name, http.StatusBadRequest},
		{http.MethodPost, "/files", http.StatusMethodNotAllowed},
	} {
		t.Run(tc.target, func(t *testing.T) {
			w := get(h, tc.method, tc.target)
			assert.Equal(t, tc.status, w.Code, "case %d", i)
		})
	}

	w := upload(t, h, "notes.txt")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStoreUploadRemovesPartialFile(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "song.xml")

	src := io.MultiReader(strings.NewReader("<score-partwise>"), iotest.ErrReader(io.ErrUnexpectedEOF))
	assert.NotNil(storeUpload(path, src))
	_, err := os.Stat(path)
	assert.True(os.IsNotExist(err))

	assert.Nil(storeUpload(path, strings.NewReader(song)))
	data, err := os.ReadFile(path)
	assert.Nil(err)
	assert.Equal(song, string(data))
}

func TestOriginalName(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("song.xml", originalName("123e4567-e89b-12d3-a456-426614174000-song.xml"))
	assert.Equal("my-song.xml", originalName("123e4567-e89b-12d3-a456-426614174000-my-song.xml"))
	assert.Equal("a-b-c-d-e-f.xml", originalName("a-b-c-d-e-f.xml"))
	assert.Equal("song.xml", originalName("song.xml"))
}
