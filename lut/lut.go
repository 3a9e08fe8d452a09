// Package lut generates quantized sinusoid lookup tables for the
// receiver's block ROMs, in Intel MIF format for synthesis or Verilog
// hex memory format for simulation.
//
// Quarter and eighth rotation tables hold a fraction of the period
// for designs that reconstruct the full wave from symmetry; endpoint
// mode shortens the angle step by one address so the final entry
// lands exactly on the end of the sweep (useful for the fractional
// rotations, where e.g. an eighth table's last entry should be
// sin(pi/4)).
package lut

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"
)

// Function selects the tabulated function.
type Function int

// Tabulated functions.
const (
	Sin Function = iota
	Cos
)

func (f Function) String() string {
	if f == Cos {
		return "cos"
	}
	return "sin"
}

// Rotation selects how much of the period the table covers.
type Rotation int

// Rotation spans.
const (
	Full Rotation = iota
	Quarter
	Eighth
)

func (r Rotation) String() string {
	switch r {
	case Quarter:
		return "quad"
	case Eighth:
		return "eighth"
	}
	return "full"
}

func (r Rotation) sweep() float64 {
	switch r {
	case Quarter:
		return 0.5 * math.Pi
	case Eighth:
		return 0.25 * math.Pi
	}
	return 2 * math.Pi
}

// Format selects the output file format.
type Format int

// Output formats.
const (
	// MIF is the Intel Memory Initialization File format (MTI is
	// close enough to read it too).
	MIF Format = iota
	// Mem is the Verilog $readmemh hex format.
	Mem
)

func (f Format) String() string {
	if f == Mem {
		return "mem"
	}
	return "mif"
}

// Table describes one lookup table.
type Table struct {
	// AddrWidth sets the depth to 2^AddrWidth entries.
	AddrWidth int

	// DataWidth is the stored word width in bits.
	DataWidth int

	// Scale is the full scale value.  Zero means the maximum
	// positive two's complement value, 2^(DataWidth-1)-1.
	Scale int64

	Function Function
	Rotation Rotation

	// Endpoint includes the end of the sweep as the final entry by
	// shortening the angle step by one address.
	Endpoint bool
}

func (t Table) validate() error {
	if t.AddrWidth < 1 || t.AddrWidth > 24 {
		return errors.Errorf("lut: address width must be in [1,24], got %d", t.AddrWidth)
	}
	if t.DataWidth < 2 || t.DataWidth > 32 {
		return errors.Errorf("lut: data width must be in [2,32], got %d", t.DataWidth)
	}
	if max := int64(1)<<uint(t.DataWidth-1) - 1; t.Scale > max {
		return errors.Errorf("lut: full scale %d exceeds maximum %d for %d signed bits", t.Scale, max, t.DataWidth)
	}
	if t.Scale < 0 {
		return errors.Errorf("lut: full scale must be nonnegative, got %d", t.Scale)
	}
	return nil
}

// Depth returns the number of table entries.
func (t Table) Depth() int { return 1 << uint(t.AddrWidth) }

func (t Table) scale() float64 {
	if t.Scale != 0 {
		return float64(t.Scale)
	}
	return float64(int64(1)<<uint(t.DataWidth-1) - 1)
}

// Values returns the signed table contents, rounded to nearest.
func (t Table) Values() ([]int64, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	depth := t.Depth()
	samples := depth
	if t.Endpoint {
		// squeeze both the origin and the endpoint into the sweep
		samples = depth - 1
	}
	step := t.Rotation.sweep() / float64(samples)
	f := math.Sin
	if t.Function == Cos {
		f = math.Cos
	}
	max := t.scale()
	out := make([]int64, depth)
	for i := range out {
		out[i] = int64(math.Round(max * f(float64(i)*step)))
	}
	return out, nil
}

// Codes returns the table contents as unsigned words of DataWidth
// bits, negatives converted to two's complement.
func (t Table) Codes() ([]uint64, error) {
	vals, err := t.Values()
	if err != nil {
		return nil, err
	}
	out := make([]uint64, len(vals))
	wrap := int64(1) << uint(t.DataWidth)
	for i, v := range vals {
		if v < 0 {
			v += wrap
		}
		out[i] = uint64(v)
	}
	return out, nil
}

// nibbles returns the hex digit count needed for width bits.
func nibbles(width int) int { return (width + 3) / 4 }

// WriteMIF writes the table in Intel MIF format.
func (t Table) WriteMIF(w io.Writer) error {
	codes, err := t.Codes()
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "DEPTH=%d; %% Memory Depth in Address Locations %%\n", t.Depth())
	fmt.Fprintf(bw, "WIDTH=%d; %% Memory Width in Bits %%\n", t.DataWidth)
	fmt.Fprint(bw, "ADDRESS_RADIX = HEX;\n")
	fmt.Fprint(bw, "DATA_RADIX = HEX;\n")
	fmt.Fprint(bw, "CONTENT\nBEGIN\n")
	an, dn := nibbles(t.AddrWidth), nibbles(t.DataWidth)
	for addr, code := range codes {
		fmt.Fprintf(bw, "%0*X : %0*X ;\n", an, addr, dn, code)
	}
	fmt.Fprint(bw, "END;\n")
	return bw.Flush()
}

// WriteMem writes the table in Verilog hex memory format.
func (t Table) WriteMem(w io.Writer) error {
	codes, err := t.Codes()
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	fmt.Fprint(bw, "// Verilog Hex Memory Format\n")
	fmt.Fprintf(bw, "// DEPTH=%d\n", t.Depth())
	fmt.Fprintf(bw, "// WIDTH=%d\n", t.DataWidth)
	fmt.Fprint(bw, "// DATA_RADIX = HEX\n")
	dn := nibbles(t.DataWidth)
	for _, code := range codes {
		fmt.Fprintf(bw, "%0*X\n", dn, code)
	}
	return bw.Flush()
}

// Write writes the table to w in the given format.
func (t Table) Write(w io.Writer, f Format) error {
	if f == Mem {
		return t.WriteMem(w)
	}
	return t.WriteMIF(w)
}

// Filename returns the conventional output name,
// <prefix>_<dw>x<depth>_[scaled_]<rotation>_<fn>_lut.<fmt>.
func (t Table) Filename(prefix string, f Format) string {
	scaled := ""
	if t.Scale != 0 {
		scaled = "scaled_"
	}
	return fmt.Sprintf("%s_%dx%d_%s%s_%s_lut.%s", prefix, t.DataWidth, t.Depth(), scaled, t.Rotation, t.Function, f)
}

// Generate writes the table to its conventional filename in the
// current directory and returns the name.
func (t Table) Generate(prefix string, f Format) (string, error) {
	if err := t.validate(); err != nil {
		return "", err
	}
	name := t.Filename(prefix, f)
	file, err := os.Create(name)
	if err != nil {
		return "", err
	}
	defer file.Close()
	return name, t.Write(file, f)
}
