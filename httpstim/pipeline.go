package httpstim

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/radiodyne/rxstim/stimulus"
	"github.com/radiodyne/rxstim/waveform"
)

// HTTPPipeline exposes one stimulus pipeline over HTTP.  The
// underlying pipeline is single threaded; mount each instance under
// its own URL and keep one client per channel, the way the bench
// drives one instrument per endpoint.
type HTTPPipeline struct {
	pl *stimulus.Pipeline

	// RouteTable maps the pipeline's routes; Bind it to a router to
	// serve.
	RouteTable RouteTable
}

// NewHTTPPipeline wraps pl with its route table.
func NewHTTPPipeline(pl *stimulus.Pipeline) *HTTPPipeline {
	h := &HTTPPipeline{pl: pl}
	h.RouteTable = RouteTable{
		{http.MethodGet, "/carrier"}:    h.GetCarrier,
		{http.MethodPost, "/carrier"}:   h.SetCarrier,
		{http.MethodGet, "/program"}:    h.GetProgram,
		{http.MethodPost, "/program"}:   h.SetProgram,
		{http.MethodGet, "/time"}:       GetFloat(func() (float64, error) { return pl.Generator().Now(), nil }),
		{http.MethodPost, "/advance"}:   SetFloat(h.advance),
		{http.MethodGet, "/output"}:     GetFloat(func() (float64, error) { return pl.Generator().Output(), nil }),
		{http.MethodGet, "/sample"}:     GetJSON(func() (interface{}, error) { return pl.Converter().Output(), nil }),
		{http.MethodGet, "/adc-config"}: GetJSON(func() (interface{}, error) { return pl.Converter().Config(), nil }),
		{http.MethodPost, "/reset"}:     SetInt(h.reset),
		{http.MethodPost, "/run"}:       h.Run,
	}
	return h
}

// GetCarrier replies with the carrier parameters.
func (h *HTTPPipeline) GetCarrier(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.pl.Generator().Carrier())
}

// SetCarrier replaces the carrier parameters.
func (h *HTTPPipeline) SetCarrier(w http.ResponseWriter, r *http.Request) {
	var c waveform.Carrier
	err := json.NewDecoder(r.Body).Decode(&c)
	defer r.Body.Close()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.pl.Generator().SetCarrier(c)
	w.WriteHeader(http.StatusOK)
}

// GetProgram replies with the active segment table.
func (h *HTTPPipeline) GetProgram(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.pl.Generator().Program().Segments())
}

// SetProgram validates and installs a new segment table.
func (h *HTTPPipeline) SetProgram(w http.ResponseWriter, r *http.Request) {
	var segs []waveform.Segment
	err := json.NewDecoder(r.Body).Decode(&segs)
	defer r.Body.Close()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	prog, err := waveform.NewProgram(segs...)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.pl.Generator().SetProgram(prog)
	w.WriteHeader(http.StatusOK)
}

func (h *HTTPPipeline) advance(step float64) error {
	if step < 0 {
		return fmt.Errorf("time step must be nonnegative, got %g", step)
	}
	h.pl.Generator().AdvanceTime(step)
	return nil
}

func (h *HTTPPipeline) reset(edges int) error {
	if edges < 0 {
		return fmt.Errorf("reset edge count must be nonnegative, got %d", edges)
	}
	h.pl.ResetFor(edges)
	return nil
}

// Run consumes {"f64": duration}, runs the pipeline to that virtual
// time and replies with the records as CSV.
func (h *HTTPPipeline) Run(w http.ResponseWriter, r *http.Request) {
	var f FloatT
	err := json.NewDecoder(r.Body).Decode(&f)
	defer r.Body.Close()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	recs, err := h.pl.Run(f.F64)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	if err := stimulus.WriteCSV(w, recs); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
