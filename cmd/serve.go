package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/jsphweid/xmlabc/config"
	"github.com/jsphweid/xmlabc/constants"
	"github.com/jsphweid/xmlabc/convert"
	"github.com/jsphweid/xmlabc/db"
	"github.com/jsphweid/xmlabc/diag"
	"github.com/jsphweid/xmlabc/model"
	"github.com/jsphweid/xmlabc/util"
)

// largest accepted upload
const maxUpload = 32 << 20

var (
	uploadDir string
	catalog   db.Catalog = db.Noop{}
	rescan    = debounce.New(500 * time.Millisecond)

	filesMu sync.RWMutex
	files   []model.FileEntry
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves conversions over http",
	Long:  `Serves uploads, listing, conversion and download of MusicXML documents.`,
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

// LoadServeFiles prepares the upload directory, the catalog and the file list.
func LoadServeFiles() {
	uploadDir = constants.GetUploadDir()
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		panic("Could not create upload dir: " + err.Error())
	}
	c, err := db.New()
	if err != nil {
		panic(err)
	}
	catalog = c
	ScanUploads()
}

// ScanUploads rebuilds the file list from the upload directory. Titles come
// from the catalog when it knows the file.
func ScanUploads() {
	entries, err := os.ReadDir(uploadDir)
	if err != nil {
		log.Printf("could not read %s: %v", uploadDir, err)
		return
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && util.IsScoreFile(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	// the catalog knows tunes by name without extension
	tunes := make([]string, len(names))
	for i, name := range names {
		tunes[i] = convert.TuneName(name)
	}
	metas, err := catalog.GetScores(tunes)
	if err != nil {
		log.Printf("catalog lookup failed: %v", err)
	}
	res := make([]model.FileEntry, 0, len(names))
	for i, name := range names {
		res = append(res, model.FileEntry{Name: name, Title: metas[tunes[i]].Title})
	}

	filesMu.Lock()
	files = res
	filesMu.Unlock()
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

// uploadPath resolves a file name from a request. Only plain names of
// existing uploads are accepted.
func uploadPath(name string) (string, bool) {
	if name == "" || name != filepath.Base(name) {
		return "", false
	}
	path := filepath.Join(uploadDir, name)
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return "", false
	}
	return path, true
}

// queryOptions reads converter options from the query, with the same
// letters as the convert flags.
func queryOptions(r *http.Request) (config.Options, error) {
	q := r.URL.Query()
	var opts config.Options
	opts.Unfold = q.Get("u") == "1" || q.Get("u") == "true"
	opts.VolPan = q.Get("m") == "1" || q.Get("m") == "true"
	ints := map[string]*int{"c": &opts.CreditFilter, "d": &opts.UnitDen, "n": &opts.LineWidth, "v": &opts.Volta}
	for key, dst := range ints {
		s := q.Get(key)
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return opts, fmt.Errorf("option %s: %q is not a number", key, s)
		}
		*dst = n
	}
	return opts, opts.Validate()
}

// storeUpload copies src to path. A partly written file is removed.
func storeUpload(path string, src io.Reader) error {
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return err
	}
	return dst.Close()
}

func HandleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	src, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file in request: "+err.Error())
		return
	}
	defer src.Close()

	original := filepath.Base(header.Filename)
	if !util.IsScoreFile(original) {
		writeError(w, http.StatusBadRequest, original+" is not a MusicXML file")
		return
	}
	name := uuid.New().String() + "-" + original
	if err := storeUpload(filepath.Join(uploadDir, name), src); err != nil {
		writeError(w, http.StatusInternalServerError, "could not store upload")
		return
	}
	rescan(ScanUploads)
	writeJSON(w, http.StatusOK, model.UploadResponse{Filename: name})
}

func HandleFiles(w http.ResponseWriter, r *http.Request) {
	filesMu.RLock()
	defer filesMu.RUnlock()
	writeJSON(w, http.StatusOK, files)
}

// convertUpload converts a stored upload, records it in the catalog and
// answers with the abc text and the warnings of the conversion.
func convertUpload(w http.ResponseWriter, r *http.Request) (*convert.Result, *diag.Log, bool) {
	path, ok := uploadPath(r.URL.Query().Get("name"))
	if !ok {
		writeError(w, http.StatusNotFound, "no such file")
		return nil, nil, false
	}
	opts, err := queryOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, nil, false
	}
	dl := diag.New(nil)
	res, err := convert.ConvertFile(path, 1, opts, dl)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return nil, nil, false
	}
	if err := catalog.PutScore(res.Meta); err != nil {
		dl.Infof("%v", err)
	}
	return res, dl, true
}

func HandleAbc(w http.ResponseWriter, r *http.Request) {
	res, _, ok := convertUpload(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, res.Abc())
}

func HandleConvert(w http.ResponseWriter, r *http.Request) {
	res, dl, ok := convertUpload(w, r)
	if !ok {
		return
	}
	warnings := dl.Warnings()
	if warnings == nil {
		warnings = []string{}
	}
	writeJSON(w, http.StatusOK, model.ConvertResponse{
		Id:       uuid.New().String(),
		Name:     res.Name,
		Abc:      res.Abc(),
		Warnings: warnings,
	})
}

func HandleDownload(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	path, ok := uploadPath(name)
	if !ok {
		writeError(w, http.StatusNotFound, "no such file")
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", originalName(name)))
	http.ServeFile(w, r, path)
}

// originalName strips the uuid prefix of a stored upload.
func originalName(name string) string {
	id, rest, found := strings.Cut(name, "-")
	for i := 0; found && i < 4; i++ {
		var part string
		part, rest, found = strings.Cut(rest, "-")
		id += "-" + part
	}
	if _, err := uuid.Parse(id); found && err == nil {
		return rest
	}
	return name
}

func NewRouter() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/upload", HandleUpload).Methods("POST")
	router.HandleFunc("/files", HandleFiles).Methods("GET")
	router.HandleFunc("/abc", HandleAbc).Methods("GET")
	router.HandleFunc("/download", HandleDownload).Methods("GET")
	router.HandleFunc("/convert", HandleConvert).Methods("POST")
	return cors.Default().Handler(router)
}

func serve() {
	LoadServeFiles()
	addr := ":" + constants.GetPort()
	fmt.Printf("listening on %s\n", addr)
	log.Fatal(http.ListenAndServe(addr, NewRouter()))
}
