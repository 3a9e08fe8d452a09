package waveform

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies the function a segment evaluates inside its window.
type Kind int

// Segment kinds.  End is the mandatory table terminator; its stored
// value is the fallback once time passes the last window.
const (
	KindConstant Kind = iota
	KindLinear
	KindSinusoid
	KindGaussian
	KindEnd
)

var kindNames = map[Kind]string{
	KindConstant: "constant",
	KindLinear:   "linear",
	KindSinusoid: "sinusoid",
	KindGaussian: "gaussian",
	KindEnd:      "end",
}

var kindValues = map[string]Kind{
	"constant": KindConstant,
	"linear":   KindLinear,
	"sinusoid": KindSinusoid,
	"gaussian": KindGaussian,
	"end":      KindEnd,
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalJSON encodes the kind as its lowercase name.
func (k Kind) MarshalJSON() ([]byte, error) {
	s, ok := kindNames[k]
	if !ok {
		return nil, errors.Errorf("waveform: unknown segment kind %d", int(k))
	}
	return json.Marshal(s)
}

// UnmarshalJSON decodes a kind from its lowercase name.
func (k *Kind) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, ok := kindValues[s]
	if !ok {
		return errors.Errorf("waveform: unknown segment kind %q", s)
	}
	*k = v
	return nil
}

// MarshalYAML encodes the kind as its lowercase name.
func (k Kind) MarshalYAML() (interface{}, error) {
	s, ok := kindNames[k]
	if !ok {
		return nil, errors.Errorf("waveform: unknown segment kind %d", int(k))
	}
	return s, nil
}

// UnmarshalYAML decodes a kind from its lowercase name.
func (k *Kind) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v, ok := kindValues[s]
	if !ok {
		return errors.Errorf("waveform: unknown segment kind %q", s)
	}
	*k = v
	return nil
}

// Segment is one time window of a Program.  Params depend on Kind:
//
//	constant  Params[0] = value
//	linear    Params[0] = start value, Params[1] = end value; the
//	          window start and End are the line's endpoints
//	sinusoid  Params[0] = amplitude, Params[1] = frequency,
//	          Params[2] = phase
//	gaussian  Params[0] = amplitude, Params[1] = sigma,
//	          Params[2] = center, Params[3] = time scale
//	end       Params[0] = fallback value; End time is ignored
type Segment struct {
	End    float64    `yaml:"end" json:"end"`
	Kind   Kind       `yaml:"kind" json:"kind"`
	Params [6]float64 `yaml:"params,flow" json:"params"`
}

// Program is an immutable, validated segment table.  It is read only
// and may be shared across generators without synchronization.
type Program struct {
	segs []Segment
}

// NewProgram validates segs and returns a Program.  The table must be
// terminated by exactly one End segment and the end times of the
// preceding segments must strictly increase; anything else is a
// configuration error reported at load time, never at evaluation
// time.
func NewProgram(segs ...Segment) (Program, error) {
	if len(segs) == 0 {
		return Program{}, errors.New("waveform: empty program")
	}
	last := len(segs) - 1
	if segs[last].Kind != KindEnd {
		return Program{}, errors.New("waveform: program must be terminated by an end segment")
	}
	prevEnd := 0.0
	for i, s := range segs[:last] {
		if s.Kind == KindEnd {
			return Program{}, errors.Errorf("waveform: segment %d: end sentinel before final position", i)
		}
		if s.End <= prevEnd {
			return Program{}, errors.Errorf("waveform: segment %d: end time %g does not increase past %g", i, s.End, prevEnd)
		}
		prevEnd = s.End
	}
	// defensive copy; the caller keeps no handle into the table
	own := make([]Segment, len(segs))
	copy(own, segs)
	return Program{segs: own}, nil
}

// MustProgram is NewProgram for static tables in tests and examples.
func MustProgram(segs ...Segment) Program {
	p, err := NewProgram(segs...)
	if err != nil {
		panic(err)
	}
	return p
}

// Segments returns a copy of the segment table.
func (p Program) Segments() []Segment {
	out := make([]Segment, len(p.segs))
	copy(out, p.segs)
	return out
}

// Eval evaluates the envelope at time t.
//
// The table is scanned linearly from the start on every call; there is
// no cursor, so evaluation order across calls does not matter.  A time
// exactly at a window's end belongs to that window, not the next one.
// Past the last window the End sentinel's stored value is returned.
// A t that precedes every window (negative time) is a programming
// error and panics.
func (p Program) Eval(t float64) float64 {
	if p.segs == nil {
		panic("waveform: evaluating zero-value program")
	}
	if t < 0 {
		panic(fmt.Sprintf("waveform: time %g precedes the program's first window", t))
	}
	windowStart := 0.0
	for _, s := range p.segs {
		if s.Kind == KindEnd {
			return s.Params[0]
		}
		if t > s.End {
			windowStart = s.End
			continue
		}
		switch s.Kind {
		case KindConstant:
			return Constant(s.Params[0])
		case KindLinear:
			return Linear(s.Params[0], windowStart, s.Params[1], s.End, t)
		case KindSinusoid:
			return Sinusoid(s.Params[0], s.Params[1], s.Params[2], t)
		case KindGaussian:
			return Gaussian(s.Params[0], s.Params[1], s.Params[2], s.Params[3], t)
		default:
			panic(fmt.Sprintf("waveform: segment has unknown kind %v", s.Kind))
		}
	}
	// unreachable: NewProgram guarantees the end sentinel
	panic("waveform: program not terminated by an end segment")
}
