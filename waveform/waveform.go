// Package waveform synthesizes deterministic analog stimulus for
// receiver simulations.
//
// A Program is an ordered table of time-windowed function segments
// (constant, linear ramp, sinusoid, Gaussian) that describes a
// modulation envelope, e.g. an IFF style pulse pattern.  A Generator
// advances a virtual time base and multiplies the envelope by a
// carrier sinusoid to produce the composite stimulus one sample at a
// time.  Everything is a pure function of time and immutable
// configuration, so runs are reproducible bit for bit.
package waveform

import (
	"fmt"
	"math"
)

// Constant returns v for any time.
func Constant(v float64) float64 { return v }

// Linear evaluates the line through (t1,v1) and (t2,v2) at t.
//
// t must satisfy t1 <= t <= t2 and the window must have positive
// length.  Violations are test configuration bugs and panic rather
// than return a value that would silently corrupt the stimulus.
func Linear(v1, t1, v2, t2, t float64) float64 {
	if t2 <= t1 {
		panic(fmt.Sprintf("waveform: linear segment window [%g,%g] has nonpositive length", t1, t2))
	}
	if t < t1 || t > t2 {
		panic(fmt.Sprintf("waveform: time %g outside linear segment window [%g,%g]", t, t1, t2))
	}
	return v1 + (v2-v1)/(t2-t1)*(t-t1)
}

// Sinusoid evaluates amp * sin(2*pi*freq*t + phase).
func Sinusoid(amp, freq, phase, t float64) float64 {
	return amp * math.Sin(2*math.Pi*freq*t+phase)
}

// Gaussian evaluates a Gaussian peak of height amp centered at
// center.  Time is scaled by tscale before the exponent so sigma can
// be expressed in convenient units (e.g. microseconds against a time
// base in seconds).
func Gaussian(amp, sigma, center, tscale, t float64) float64 {
	x := (t - center) / tscale
	return amp * math.Exp(-x*x/(2*sigma*sigma))
}
