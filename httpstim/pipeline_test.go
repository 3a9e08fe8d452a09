package httpstim_test

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"

	"github.com/radiodyne/rxstim/adc"
	"github.com/radiodyne/rxstim/httpstim"
	"github.com/radiodyne/rxstim/stimulus"
	"github.com/radiodyne/rxstim/waveform"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	prog := waveform.MustProgram(
		waveform.Segment{End: 1, Kind: waveform.KindConstant, Params: [6]float64{1}},
		waveform.Segment{Kind: waveform.KindEnd},
	)
	gen := waveform.NewGenerator(prog, waveform.Carrier{Amp: 0, Freq: 1, Offset: 2.5})
	conv, err := adc.New(adc.Config{BitWidth: 8, VoltageScale: 5})
	if err != nil {
		t.Fatal(err)
	}
	conv.Warn = log.New(ioutil.Discard, "", 0)
	pl, err := stimulus.New(gen, conv, 1e-4, 10)
	if err != nil {
		t.Fatal(err)
	}
	r := chi.NewRouter()
	httpstim.NewHTTPPipeline(pl).RouteTable.Bind(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, into interface{}) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: %s", url, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		t.Fatal(err)
	}
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestCarrierRoundTrip(t *testing.T) {
	srv := newServer(t)
	resp := postJSON(t, srv.URL+"/carrier", waveform.Carrier{Amp: 3, Freq: 2e6, Offset: 1})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set carrier: %s", resp.Status)
	}
	var c waveform.Carrier
	getJSON(t, srv.URL+"/carrier", &c)
	if c.Amp != 3 || c.Freq != 2e6 || c.Offset != 1 {
		t.Errorf("carrier mangled: %+v", c)
	}
}

func TestAdvanceAndOutput(t *testing.T) {
	srv := newServer(t)
	resp := postJSON(t, srv.URL+"/advance", httpstim.FloatT{F64: 0.25})
	resp.Body.Close()
	var now httpstim.FloatT
	getJSON(t, srv.URL+"/time", &now)
	if now.F64 != 0.25 {
		t.Errorf("expected time 0.25, got %g", now.F64)
	}
	var out httpstim.FloatT
	getJSON(t, srv.URL+"/output", &out)
	if out.F64 != 2.5 {
		t.Errorf("expected DC output 2.5, got %g", out.F64)
	}
}

func TestAdvanceRejectsNegative(t *testing.T) {
	srv := newServer(t)
	resp := postJSON(t, srv.URL+"/advance", httpstim.FloatT{F64: -1})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for negative step, got %s", resp.Status)
	}
}

func TestProgramValidationOverHTTP(t *testing.T) {
	srv := newServer(t)
	// missing end sentinel
	resp := postJSON(t, srv.URL+"/program", []waveform.Segment{
		{End: 1, Kind: waveform.KindConstant},
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid program, got %s", resp.Status)
	}
	var segs []waveform.Segment
	getJSON(t, srv.URL+"/program", &segs)
	if len(segs) != 2 {
		t.Errorf("installed program should be untouched, got %d segments", len(segs))
	}
}

func TestRunReturnsCSV(t *testing.T) {
	srv := newServer(t)
	resp := postJSON(t, srv.URL+"/run", httpstim.FloatT{F64: 0.005})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("run: %s", resp.Status)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/csv" {
		t.Errorf("expected text/csv, got %s", ct)
	}
	recs, err := stimulus.ReadCSV(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 5 {
		t.Errorf("expected 5 records, got %d", len(recs))
	}
}

func TestEndpointsList(t *testing.T) {
	srv := newServer(t)
	var eps []string
	getJSON(t, srv.URL+"/endpoints", &eps)
	if len(eps) == 0 {
		t.Fatal("no endpoints listed")
	}
	joined := strings.Join(eps, "\n")
	for _, want := range []string{"GET /carrier", "POST /run", "GET /sample"} {
		if !strings.Contains(joined, want) {
			t.Errorf("endpoint list missing %q", want)
		}
	}
}
