package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/jsphweid/tabdex/constants"
	"github.com/jsphweid/tabdex/db"
	"github.com/jsphweid/tabdex/midi"
	"github.com/jsphweid/tabdex/model"
	"github.com/jsphweid/tabdex/pipeline"
	"github.com/jsphweid/tabdex/sample"
	"github.com/jsphweid/tabdex/score"
	"github.com/jsphweid/tabdex/store"
	"github.com/jsphweid/tabdex/transcode"
	"github.com/jsphweid/tabdex/util"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

const maxUploadBytes = 10 << 20

var (
	index      *store.Store
	fileNumMap model.FileNumToScorePath
	catalog    *db.Catalog
)

func init() {
	serveCmd.Flags().StringVar(&cfg.Port, "port", cfg.Port, "port to listen on (PORT)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the chord index",
	Long:  `Serves chord search, score transcoding and MIDI excerpts over HTTP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

// LoadServeFiles opens the index built by the index command.
func LoadServeFiles() error {
	s, err := store.New(indexDBPath())
	if err != nil {
		return err
	}
	nums, err := util.ReadBinary[model.FileNumToScorePath](fileNumMapPath())
	if err != nil {
		s.Close()
		return err
	}
	c, err := openCatalog()
	if err != nil {
		s.Close()
		return err
	}
	index, fileNumMap, catalog = s, nums, c
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%v must be a non-negative number", key)
	}
	return n, nil
}

func enrich(results []model.SearchResult) {
	if catalog == nil || len(results) == 0 {
		return
	}
	var names []string
	for _, r := range results {
		names = append(names, r.Filename)
	}
	metadatas, err := catalog.GetSongMetadatas(names)
	if err != nil {
		logger.Warn("could not load metadata", "error", err)
		return
	}
	for i := range results {
		if m, ok := metadatas[results[i].Filename]; ok {
			results[i].SongMetadata = &m
		}
	}
}

func HandleSearch(w http.ResponseWriter, r *http.Request) {
	label := r.URL.Query().Get("chord")
	voicing := r.URL.Query().Get("voicing")
	if label == "" {
		writeError(w, http.StatusBadRequest, "chord is required")
		return
	}
	start, err := queryInt(r, "start", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := queryInt(r, "limit", constants.DefaultPageSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit = util.Min(limit, constants.MaxBatchGet)

	total, err := index.CountChord(label, voicing)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	found, err := index.FindChord(label, voicing, limit, start)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	results := make([]model.SearchResult, 0, len(found))
	for _, o := range found {
		name, err := index.SongName(o.FileNum)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		results = append(results, model.SearchResult{
			FileId:   o.FileNum,
			Filename: name,
			Measure:  o.Measure,
			Beat:     o.Beat,
			Notes:    o.Notes,
			Voicing:  o.Voicing,
		})
	}
	enrich(results)

	writeJSON(w, http.StatusOK, model.SearchResponse{
		Chord:      label,
		Voicing:    voicing,
		Start:      start,
		NumMatches: total,
		Results:    results,
	})
}

func faultBodies(faults []transcode.Fault) []model.FaultBody {
	res := make([]model.FaultBody, 0, len(faults))
	for _, f := range faults {
		res = append(res, model.FaultBody{Kind: string(f.Kind), Measure: f.Measure, Note: f.Note, Detail: f.Detail})
	}
	return res
}

// HandleTranscode transcodes the request body. The name query parameter
// picks the decoder by extension and defaults to JSON.
func HandleTranscode(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "upload.json"
	}
	if !score.IsSupported(name) {
		writeError(w, http.StatusBadRequest, "unsupported score format: "+name)
		return
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}

	rec, err := pipeline.Transcode(0, name, data)
	if errors.Is(err, transcode.ErrMalformedDocument) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	transcode.LogFaults(logger, name, rec.Faults)

	writeJSON(w, http.StatusOK, model.TranscodeResponse{Song: rec.Song, Faults: faultBodies(rec.Faults)})
}

// HandleSample renders a few beats of an indexed song, starting at a
// measure, as MIDI.
func HandleSample(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	fileNum, err := strconv.ParseUint(vars["fileNum"], 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad fileNum")
		return
	}
	measure, err := strconv.Atoi(vars["measure"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad measure")
		return
	}
	beats, err := queryInt(r, "beats", sample.MaxBeats)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	path, ok := fileNumMap[uint32(fileNum)]
	if !ok {
		writeError(w, http.StatusNotFound, "no such file")
		return
	}
	doc, err := score.ReadScoreFile(path)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	song, _, err := transcode.TranscodeSong(doc)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	excerpt, err := sample.Create(song, measure, beats)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "audio/midi")
	if err := midi.Write(w, excerpt, transcode.Divisions(doc)); err != nil {
		logger.Error("could not write sample", "error", err)
	}
}

func NewRouter() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/search", HandleSearch).Methods("GET")
	router.HandleFunc("/transcode", HandleTranscode).Methods("POST")
	router.HandleFunc("/sample/{fileNum:[0-9]+}/{measure:[0-9]+}", HandleSample).Methods("GET")
	return cors.Default().Handler(router)
}

func serve() error {
	if err := LoadServeFiles(); err != nil {
		return err
	}
	defer index.Close()

	logger.Info("serving", "port", cfg.Port, "songs", len(fileNumMap), "catalog", catalog != nil)
	return http.ListenAndServe(":"+cfg.Port, NewRouter())
}
