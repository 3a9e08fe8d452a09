// Package adc provides a purely mathematical model of an ideal
// analog to digital converter for driving receiver simulations.
//
// The model is deliberately free of physical non-idealities (noise,
// nonlinearity, jitter, aperture effects).  It conditions an analog
// voltage into a normalized [0,1] range, quantizes with truncation,
// and latches the code on a sample clock edge the way the register
// in the real front end does.
package adc

import (
	"log"
	"os"

	"github.com/pkg/errors"

	"github.com/radiodyne/rxstim/mathx"
)

// Config describes the converter.  It is immutable once handed to New
// and may be shared freely between instances.
type Config struct {
	// BitWidth is the width of the output code in bits.
	BitWidth int `yaml:"bitWidth" koanf:"bitWidth"`

	// Bipolar selects a range centered on VoltageOffset, spanning
	// +/- VoltageScale/2.  Unipolar spans offset to offset+scale.
	Bipolar bool `yaml:"bipolar" koanf:"bipolar"`

	// VoltageScale is the full scale span of the input in volts.
	VoltageScale float64 `yaml:"voltageScale" koanf:"voltageScale"`

	// VoltageOffset is the center (bipolar) or bottom (unipolar)
	// of the input range in volts.
	VoltageOffset float64 `yaml:"voltageOffset" koanf:"voltageOffset"`

	// TwosComplement records how the downstream consumer interprets
	// the code.  It is informational; the emitted value follows
	// Bipolar.
	TwosComplement bool `yaml:"twosComplement" koanf:"twosComplement"`
}

// Sample is one registered conversion result.
type Sample struct {
	// Code is the quantized output.  Unipolar codes span
	// [0, 2^bits-1], bipolar codes [-2^(bits-1), 2^(bits-1)-1].
	Code int64 `json:"code"`

	// Overrange indicates the analog input was outside the
	// configured span at the sample edge.
	Overrange bool `json:"overrange"`
}

// ADC models an ideal converter.  The zero value is not usable; use New.
type ADC struct {
	cfg Config

	// quantization constants, fixed at construction
	maxCode  float64 // 2^bits - 1
	halfCode int64   // 2^(bits-1), subtracted in bipolar mode
	top      float64
	bottom   float64

	// latched output register
	out Sample

	// Warn receives overrange diagnostics.  Defaults to the process
	// logger; replace it to redirect or silence them.
	Warn *log.Logger
}

// New validates cfg and returns a converter.  The output register
// holds the reset (all zero) pattern until the first clock edge.
func New(cfg Config) (*ADC, error) {
	if cfg.VoltageScale <= 0 {
		return nil, errors.Errorf("adc: voltage scale must be positive, got %g", cfg.VoltageScale)
	}
	// 62 leaves headroom so 2^bits-1 and the bipolar offset both
	// fit an int64 without truncation
	if cfg.BitWidth < 1 || cfg.BitWidth > 62 {
		return nil, errors.Errorf("adc: bit width must be in [1,62], got %d", cfg.BitWidth)
	}
	a := &ADC{
		cfg:      cfg,
		maxCode:  float64((int64(1) << uint(cfg.BitWidth)) - 1),
		halfCode: int64(1) << uint(cfg.BitWidth-1),
		Warn:     log.New(os.Stderr, "adc: ", log.LstdFlags),
	}
	if cfg.Bipolar {
		a.top = cfg.VoltageOffset + cfg.VoltageScale/2
		a.bottom = cfg.VoltageOffset - cfg.VoltageScale/2
	} else {
		a.top = cfg.VoltageOffset + cfg.VoltageScale
		a.bottom = cfg.VoltageOffset
	}
	return a, nil
}

// Config returns the configuration the converter was built with.
func (a *ADC) Config() Config { return a.cfg }

// Top returns the highest in-range input voltage.
func (a *ADC) Top() float64 { return a.top }

// Bottom returns the lowest in-range input voltage.
func (a *ADC) Bottom() float64 { return a.bottom }

// Condition maps an analog voltage onto [0,1], clamping out of range
// inputs to the nearest rail.  The clamp guarantees Quantize can never
// produce an out of range code regardless of input magnitude.
func (a *ADC) Condition(analog float64) float64 {
	return mathx.Clamp((analog-a.bottom)/a.cfg.VoltageScale, 0, 1)
}

// Quantize converts a normalized value in [0,1] to the output code.
// The scaled value is truncated toward zero, not rounded; the hardware
// this models truncates and changing it would shift every boundary
// code.
func (a *ADC) Quantize(normalized float64) int64 {
	code := int64(normalized * a.maxCode)
	if a.cfg.Bipolar {
		code -= a.halfCode
	}
	return code
}

// Overrange reports whether analog lies outside the configured span.
// It is combinational (level sensitive, never latched) and purely
// diagnostic: quantization clamps and proceeds regardless.
func (a *ADC) Overrange(analog float64) bool {
	over := analog > a.top || analog < a.bottom
	if over && a.Warn != nil {
		a.Warn.Printf("overrange input %g V (range %g to %g V)", analog, a.bottom, a.top)
	}
	return over
}

// Sample latches a conversion of analog on a rising sample clock edge
// and returns the new register contents.  While reset is asserted the
// register is forced to the all zero pattern and the input is ignored.
func (a *ADC) Sample(analog float64, reset bool) Sample {
	if reset {
		a.out = Sample{}
		return a.out
	}
	a.out = Sample{
		Code:      a.Quantize(a.Condition(analog)),
		Overrange: analog > a.top || analog < a.bottom,
	}
	return a.out
}

// Output returns the currently latched sample without clocking the
// converter.  Repeated reads between edges return identical values.
func (a *ADC) Output() Sample { return a.out }
