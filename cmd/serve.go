package cmd

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/jsphweid/rollprep/chunk"
	"github.com/jsphweid/rollprep/config"
	"github.com/jsphweid/rollprep/dataset"
	"github.com/jsphweid/rollprep/logging"
	"github.com/jsphweid/rollprep/model"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	servedSplit string
	served      *dataset.Dataset
)

func init() {
	serveCmd.Flags().StringVar(&servedSplit, "split", "train", "split to serve")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves samples of a split",
	Long: `Serves the samples of one split over http:

  GET /length         {"length": n}
  GET /samples/{i}    {"index": i, "input": [[...]], "target": [[...]]}`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := LoadServeDataset(cfg, servedSplit); err != nil {
			return err
		}
		logging.Named("serve").Info("listening",
			zap.String("addr", cfg.Listen),
			zap.String("split", servedSplit),
			zap.Int("samples", served.Len()),
			zap.Int("seq_len", served.SeqLen()),
			zap.Int("width", served.Width()))
		return http.ListenAndServe(cfg.Listen, NewRouter())
	},
}

// LoadServeDataset loads the chunk of split from the output directory.
func LoadServeDataset(cfg *config.Config, split string) error {
	path, err := chunk.FindSplit(cfg.OutDir, split)
	if err != nil {
		return err
	}
	_, rolls, err := chunk.Read(path)
	if err != nil {
		return err
	}
	ds, err := dataset.New(rolls, cfg.SeqLen, dataset.Options{Boundary: cfg.Boundary, PadFrames: cfg.PadFrames})
	if err != nil {
		return err
	}
	served = ds
	return nil
}

func NewRouter() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/length", HandleLength).Methods("GET")
	router.HandleFunc("/samples/{index}", HandleSample).Methods("GET")
	return cors.Default().Handler(router)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Named("serve").Warn("could not write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func HandleLength(w http.ResponseWriter, r *http.Request) {
	if served == nil {
		writeError(w, http.StatusServiceUnavailable, "no dataset loaded")
		return
	}
	writeJSON(w, http.StatusOK, model.LengthResponse{Length: served.Len()})
}

func toFloats(frames []model.Frame) [][]float32 {
	res := make([][]float32, len(frames))
	for i, frame := range frames {
		row := make([]float32, len(frame))
		for j, v := range frame {
			row[j] = float32(v)
		}
		res[i] = row
	}
	return res
}

func HandleSample(w http.ResponseWriter, r *http.Request) {
	if served == nil {
		writeError(w, http.StatusServiceUnavailable, "no dataset loaded")
		return
	}
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "index must be an integer")
		return
	}

	s, err := served.Get(index)
	if errors.Is(err, dataset.ErrIndexOutOfRange) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, model.SampleResponse{
		Index:  index,
		Input:  toFloats(s.Input),
		Target: toFloats(s.Target),
	})
}
