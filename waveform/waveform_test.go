package waveform_test

import (
	"math"
	"testing"

	"github.com/radiodyne/rxstim/waveform"
)

const tol = 1e-9

func almost(a, b float64) bool { return math.Abs(a-b) < tol }

func TestLinearEndpointExactness(t *testing.T) {
	v1, t1, v2, t2 := 1.5, 2.0, -3.5, 6.0
	if got := waveform.Linear(v1, t1, v2, t2, t1); got != v1 {
		t.Errorf("linear at t1: expected exactly %g, got %g", v1, got)
	}
	if got := waveform.Linear(v1, t1, v2, t2, t2); got != v2 {
		t.Errorf("linear at t2: expected exactly %g, got %g", v2, got)
	}
	if got := waveform.Linear(0, 0, 1, 1, 0.5); !almost(got, 0.5) {
		t.Errorf("linear midpoint: expected 0.5, got %g", got)
	}
}

func TestLinearDomainViolationPanics(t *testing.T) {
	cases := []struct {
		name       string
		t1, t2, at float64
	}{
		{"before window", 1, 2, 0.5},
		{"after window", 1, 2, 2.5},
		{"empty window", 2, 2, 2},
		{"inverted window", 3, 1, 2},
	}
	for _, tc := range cases {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("%s: expected panic", tc.name)
				}
			}()
			waveform.Linear(0, tc.t1, 1, tc.t2, tc.at)
		}()
	}
}

func TestSinusoidQuarterPeriod(t *testing.T) {
	if got := waveform.Sinusoid(1, 1, 0, 0.25); !almost(got, 1) {
		t.Errorf("sin(pi/2): expected 1, got %g", got)
	}
}

func TestGaussianPeakAndSymmetry(t *testing.T) {
	amp, sigma, center, tscale := 2.0, 1.0, 5.0, 1e-6
	if got := waveform.Gaussian(amp, sigma, center, tscale, center); !almost(got, amp) {
		t.Errorf("peak: expected %g, got %g", amp, got)
	}
	l := waveform.Gaussian(amp, sigma, center, tscale, center-3e-6)
	r := waveform.Gaussian(amp, sigma, center, tscale, center+3e-6)
	if !almost(l, r) {
		t.Errorf("gaussian not symmetric about center: %g vs %g", l, r)
	}
	if l >= amp {
		t.Errorf("off-peak value %g should be below peak %g", l, amp)
	}
}

func rampProgram() waveform.Program {
	return waveform.MustProgram(
		waveform.Segment{End: 1, Kind: waveform.KindLinear, Params: [6]float64{0, 1}},
		waveform.Segment{Kind: waveform.KindEnd, Params: [6]float64{0.5}},
	)
}

func TestPiecewiseRampAndFallback(t *testing.T) {
	p := rampProgram()
	if got := p.Eval(0.5); !almost(got, 0.5) {
		t.Errorf("ramp midpoint: expected 0.5, got %g", got)
	}
	if got := p.Eval(1.5); got != 0.5 {
		t.Errorf("past last window: expected fallback 0.5, got %g", got)
	}
}

// a time landing exactly on a window's end belongs to that window,
// not the next one
func TestBoundaryOwnership(t *testing.T) {
	p := waveform.MustProgram(
		waveform.Segment{End: 1, Kind: waveform.KindConstant, Params: [6]float64{10}},
		waveform.Segment{End: 2, Kind: waveform.KindConstant, Params: [6]float64{20}},
		waveform.Segment{Kind: waveform.KindEnd, Params: [6]float64{0}},
	)
	if got := p.Eval(1); got != 10 {
		t.Errorf("t=1 should use the first segment, got %g", got)
	}
	if got := p.Eval(2); got != 20 {
		t.Errorf("t=2 should use the second segment, got %g", got)
	}
	// the linear window endpoint is also exact through the table
	ramp := rampProgram()
	if got := ramp.Eval(1); got != 1 {
		t.Errorf("ramp at its own end: expected 1, got %g", got)
	}
}

func TestPiecewiseDispatch(t *testing.T) {
	p := waveform.MustProgram(
		waveform.Segment{End: 1, Kind: waveform.KindSinusoid, Params: [6]float64{1, 1, 0}},
		waveform.Segment{End: 2, Kind: waveform.KindGaussian, Params: [6]float64{3, 1, 1.5, 1}},
		waveform.Segment{Kind: waveform.KindEnd},
	)
	if got := p.Eval(0.25); !almost(got, 1) {
		t.Errorf("sinusoid window: expected 1, got %g", got)
	}
	if got := p.Eval(1.5); !almost(got, 3) {
		t.Errorf("gaussian window at center: expected 3, got %g", got)
	}
}

func TestPiecewiseDeterminism(t *testing.T) {
	p := rampProgram()
	// order of queries must not matter: no cached cursor
	a1 := p.Eval(0.75)
	b := p.Eval(0.25)
	a2 := p.Eval(0.75)
	if a1 != a2 {
		t.Errorf("re-evaluation differs: %g vs %g", a1, a2)
	}
	if !almost(b, 0.25) {
		t.Errorf("backward query: expected 0.25, got %g", b)
	}
}

func TestNegativeTimePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for negative time")
		}
	}()
	rampProgram().Eval(-1)
}

func TestProgramValidation(t *testing.T) {
	cases := []struct {
		name string
		segs []waveform.Segment
	}{
		{"empty", nil},
		{"no end sentinel", []waveform.Segment{
			{End: 1, Kind: waveform.KindConstant},
		}},
		{"early end sentinel", []waveform.Segment{
			{Kind: waveform.KindEnd},
			{End: 1, Kind: waveform.KindConstant},
			{Kind: waveform.KindEnd},
		}},
		{"nonincreasing end times", []waveform.Segment{
			{End: 2, Kind: waveform.KindConstant},
			{End: 2, Kind: waveform.KindConstant},
			{Kind: waveform.KindEnd},
		}},
		{"zero-length first window", []waveform.Segment{
			{End: 0, Kind: waveform.KindConstant},
			{Kind: waveform.KindEnd},
		}},
	}
	for _, tc := range cases {
		if _, err := waveform.NewProgram(tc.segs...); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestGeneratorOutput(t *testing.T) {
	// unity envelope isolates the carrier path
	p := waveform.MustProgram(
		waveform.Segment{End: 10, Kind: waveform.KindConstant, Params: [6]float64{1}},
		waveform.Segment{Kind: waveform.KindEnd},
	)
	g := waveform.NewGenerator(p, waveform.Carrier{Amp: 2, Freq: 1, Phase: 0, Offset: 0.5})
	g.AdvanceTime(0.25)
	if g.Now() != 0.25 {
		t.Errorf("expected time 0.25, got %g", g.Now())
	}
	want := 2*math.Sin(2*math.Pi*0.25) + 0.5
	if got := g.Output(); !almost(got, want) {
		t.Errorf("expected %g, got %g", want, got)
	}
	if g.Output() != g.Output() {
		t.Error("output changed without a time advance")
	}
}

func TestNegativeStepPanics(t *testing.T) {
	g := waveform.NewGenerator(rampProgram(), waveform.Carrier{Amp: 1, Freq: 1})
	defer func() {
		if recover() == nil {
			t.Error("expected panic for negative step")
		}
	}()
	g.AdvanceTime(-0.1)
}
