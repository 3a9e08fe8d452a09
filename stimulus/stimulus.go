// Package stimulus drives a waveform generator into an ADC model,
// interleaving the two virtual clocks of the simulation: the fine
// time-advance step of the continuous waveform and the coarser sample
// clock of the converter's registered output.
//
// Within one sample clock period the generator's time is advanced and
// the analog value computed before the converter is clocked, so the
// latched code always reflects the analog input as of the edge.
package stimulus

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/radiodyne/rxstim/adc"
	"github.com/radiodyne/rxstim/waveform"
)

// Record is the state of the pipeline at one sample clock edge.
type Record struct {
	// T is the virtual time of the edge in seconds.
	T float64 `json:"t"`

	// Analog is the generator output presented to the converter.
	Analog float64 `json:"analog"`

	// Code is the latched digital code.
	Code int64 `json:"code"`

	// Overrange indicates the analog input was outside the
	// converter's span at the edge.
	Overrange bool `json:"overrange"`
}

// Pipeline couples one generator to one converter.  Multiple
// pipelines may share a waveform.Program or an adc.Config; the
// pipeline itself is single threaded.
type Pipeline struct {
	gen  *waveform.Generator
	conv *adc.ADC

	// TimeStep is the fine time advance per generator step, seconds.
	TimeStep float64

	// SampleEvery is the number of generator steps per sample clock
	// edge (the ratio of the two clocks).
	SampleEvery int

	resetEdges int
}

// New validates the clock configuration and returns a pipeline.
func New(gen *waveform.Generator, conv *adc.ADC, timeStep float64, sampleEvery int) (*Pipeline, error) {
	if timeStep <= 0 {
		return nil, errors.Errorf("stimulus: time step must be positive, got %g", timeStep)
	}
	if sampleEvery < 1 {
		return nil, errors.Errorf("stimulus: sample clock divider must be >= 1, got %d", sampleEvery)
	}
	return &Pipeline{gen: gen, conv: conv, TimeStep: timeStep, SampleEvery: sampleEvery}, nil
}

// Generator returns the generator driving the pipeline.
func (p *Pipeline) Generator() *waveform.Generator { return p.gen }

// Converter returns the ADC model at the end of the pipeline.
func (p *Pipeline) Converter() *adc.ADC { return p.conv }

// ResetFor asserts the converter's reset for the next n sample clock
// edges.  Time still advances while reset is held.
func (p *Pipeline) ResetFor(n int) { p.resetEdges = n }

// Step advances the generator through one sample clock period and
// clocks the converter once, returning the record for the edge.
func (p *Pipeline) Step() Record {
	for i := 0; i < p.SampleEvery; i++ {
		p.gen.AdvanceTime(p.TimeStep)
	}
	analog := p.gen.Output()
	reset := p.resetEdges > 0
	if reset {
		p.resetEdges--
	}
	s := p.conv.Sample(analog, reset)
	return Record{T: p.gen.Now(), Analog: analog, Code: s.Code, Overrange: s.Overrange}
}

// Run steps the pipeline until the generator's time base passes
// duration (the only termination condition of a run) and returns one
// record per sample edge.
func (p *Pipeline) Run(duration float64) ([]Record, error) {
	if duration <= 0 {
		return nil, errors.Errorf("stimulus: run duration must be positive, got %g", duration)
	}
	// count edges up front; comparing the accumulated float time
	// base against duration would drop the final edge to rounding
	edges := p.edgeCount(duration)
	out := make([]Record, 0, edges)
	for i := 0; i < edges; i++ {
		out = append(out, p.Step())
	}
	return out, nil
}

// Stream runs the pipeline in paced wall-clock time, delivering one
// record per sample edge to sink at the given rate.  It stops when the
// virtual duration elapses, the context is canceled, or sink returns
// an error.
func (p *Pipeline) Stream(ctx context.Context, duration float64, pace time.Duration, sink func(Record) error) error {
	if pace <= 0 {
		return errors.New("stimulus: pace must be positive")
	}
	lim := rate.NewLimiter(rate.Every(pace), 1)
	edges := p.edgeCount(duration)
	for i := 0; i < edges; i++ {
		if err := lim.Wait(ctx); err != nil {
			return err
		}
		if err := sink(p.Step()); err != nil {
			return err
		}
	}
	return nil
}

// edgeCount returns the number of whole sample clock periods in the
// virtual duration remaining past the current time.
func (p *Pipeline) edgeCount(duration float64) int {
	period := p.TimeStep * float64(p.SampleEvery)
	remaining := duration - p.gen.Now()
	if remaining <= 0 {
		return 0
	}
	return int(math.Floor(remaining/period + 1e-9))
}
