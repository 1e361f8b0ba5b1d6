package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/xtding233/collect-sim/internal/calc"
	"github.com/xtding233/collect-sim/internal/log"
	"github.com/xtding233/collect-sim/internal/metrics"
	"github.com/xtding233/collect-sim/internal/preset"
)

type errResp struct {
	Err string `json:"err"`
}

type handlers struct {
	calc    *calc.Calculator
	presets *preset.Loader
}

func (h *handlers) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/simulate", h.handleSimulate)
	mux.HandleFunc("/last", h.handleLast)
	mux.HandleFunc("/presets/run", h.handlePresetRun)
	mux.Handle("/metrics", metrics.Handler())
	return mux
}

func parseInt(r *http.Request, key string) (int, bool, string) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0, false, ""
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false, "invalid " + key
	}
	return v, true, ""
}

func parseUint64(r *http.Request, key string) (*uint64, string) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return nil, ""
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return nil, "invalid " + key
	}
	return &v, ""
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *handlers) writeCalcErr(w http.ResponseWriter, r *http.Request, err error) {
	code := http.StatusInternalServerError
	if calc.IsInvalidInput(err) {
		code = http.StatusBadRequest
	} else {
		log.Error(r.Context(), "calculate failed", zap.Error(err))
	}
	writeJSON(w, code, errResp{Err: err.Error()})
}

// GET /simulate?weights=5,10,15&targets=1,3&trials=10000[&seed=42]
func (h *handlers) handleSimulate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	weights := r.URL.Query().Get("weights")
	if weights == "" {
		http.Error(w, "missing param weights", http.StatusBadRequest)
		return
	}
	trials, ok, msg := parseInt(r, "trials")
	if msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}
	if !ok {
		http.Error(w, "missing param trials", http.StatusBadRequest)
		return
	}
	seed, msg := parseUint64(r, "seed")
	if msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	out, err := h.calc.Calculate(r.Context(), calc.Input{
		Weights: weights,
		Targets: r.URL.Query().Get("targets"),
		Trials:  trials,
		Seed:    seed,
	})
	if err != nil {
		h.writeCalcErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /last
func (h *handlers) handleLast(w http.ResponseWriter, r *http.Request) {
	out, ok := h.calc.Last()
	if !ok {
		writeJSON(w, http.StatusNotFound, errResp{Err: "no successful run yet"})
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /presets/run?name=five_cards[&trials=500&seed=1]
func (h *handlers) handlePresetRun(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "missing param name", http.StatusBadRequest)
		return
	}
	var o preset.Overrides
	trials, ok, msg := parseInt(r, "trials")
	if msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}
	if ok {
		o.Trials = &trials
	}
	seed, msg := parseUint64(r, "seed")
	if msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}
	o.Seed = seed

	in, err := h.presets.Resolve(name, o)
	if err != nil {
		code := http.StatusBadRequest
		if errors.Is(err, preset.ErrUnknownPreset) {
			code = http.StatusNotFound
		}
		writeJSON(w, code, errResp{Err: err.Error()})
		return
	}
	out, err := h.calc.Calculate(r.Context(), in)
	if err != nil {
		h.writeCalcErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
