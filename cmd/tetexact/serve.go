package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tetexact/ssacore/internal/ssa"
	"github.com/tetexact/ssacore/internal/ssalog"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Build a model and serve it over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("model", "", "path to a ModelConfig JSON file")
	serveCmd.Flags().String("addr", ":8080", "HTTP listen address")
	viper.BindPFlag("model", serveCmd.Flags().Lookup("model"))
	viper.BindPFlag("addr", serveCmd.Flags().Lookup("addr"))
}

// server wraps one Engine with the mutators a daemon needs: advancing it,
// inspecting it, and exporting its metrics, in the style of
// daniacca-achemdb's cmd/achemdb-server Server type.
type server struct {
	engine  *ssa.Engine
	metrics *ssa.Metrics
	log     ssa.Logger
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *server) handleStep(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.Step(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeStatus(w)
}

type runRequest struct {
	EndTime float64 `json:"end_time"`
}

func (s *server) handleRun(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.engine.Run(req.EndTime); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeStatus(w)
}

func (s *server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.writeStatus(w)
}

type statusResponse struct {
	Time   float64 `json:"time"`
	NSteps uint64  `json:"nsteps"`
	A0     float64 `json:"a0"`
}

func (s *server) writeStatus(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(statusResponse{Time: s.engine.Time(), NSteps: s.engine.NSteps(), A0: s.engine.A0()})
}

func runServe(cmd *cobra.Command, args []string) error {
	modelPath := viper.GetString("model")
	if modelPath == "" {
		return fmt.Errorf("--model is required")
	}
	cfg, err := loadModelConfig(modelPath)
	if err != nil {
		return err
	}

	log := ssalog.New(logrus.InfoLevel)
	rng := ssa.NewRNG(uint64(time.Now().UnixNano()), 0xC0FFEE)
	e, err := ssa.Build(cfg, rng, log)
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}

	reg := prometheus.NewRegistry()
	m := ssa.NewMetrics(reg, cfg.Name)

	s := &server{engine: e, metrics: m, log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/step", s.handleStep)
	mux.HandleFunc("/run", s.handleRun)
	mux.HandleFunc("/status", s.handleStatus)
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	addr := viper.GetString("addr")
	log.Infof("tetexact serving %q on %s", cfg.Name, addr)
	return http.ListenAndServe(addr, mux)
}
