package waveform

import "fmt"

// Carrier holds the parameters of the carrier sinusoid the envelope
// modulates.
type Carrier struct {
	Amp    float64 `yaml:"amp" json:"amp"`
	Freq   float64 `yaml:"freq" json:"freq"`
	Phase  float64 `yaml:"phase" json:"phase"`
	Offset float64 `yaml:"offset" json:"offset"`
}

// Generator produces the composite stimulus.  Its only mutable state
// is the virtual time base; the output is a pure function of the
// current time, the program and the carrier.
type Generator struct {
	prog Program
	car  Carrier
	t    float64
}

// NewGenerator returns a generator at time zero.
func NewGenerator(prog Program, car Carrier) *Generator {
	return &Generator{prog: prog, car: car}
}

// Carrier returns the carrier parameters.
func (g *Generator) Carrier() Carrier { return g.car }

// SetCarrier replaces the carrier parameters.  The time base is
// unaffected.
func (g *Generator) SetCarrier(c Carrier) { g.car = c }

// Program returns the active program.
func (g *Generator) Program() Program { return g.prog }

// SetProgram replaces the active program.  The time base is
// unaffected.
func (g *Generator) SetProgram(p Program) { g.prog = p }

// Now returns the current virtual time.
func (g *Generator) Now() float64 { return g.t }

// AdvanceTime moves the time base forward by step.  Simulated time
// never runs backward; a negative step is a driver bug and panics.
func (g *Generator) AdvanceTime(step float64) {
	if step < 0 {
		panic(fmt.Sprintf("waveform: negative time step %g", step))
	}
	g.t += step
}

// OutputAt evaluates the stimulus at an arbitrary time without
// touching the time base: envelope(t) * carrier(t) + offset.
func (g *Generator) OutputAt(t float64) float64 {
	return g.prog.Eval(t)*Sinusoid(g.car.Amp, g.car.Freq, g.car.Phase, t) + g.car.Offset
}

// Output evaluates the stimulus at the current time.
func (g *Generator) Output() float64 {
	return g.OutputAt(g.t)
}
