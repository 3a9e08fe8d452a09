// Package bitvec manipulates bit vectors with HDL-style indexing.
//
// Vectors are ordered MSB first, the way a logic analyzer clocks
// serial data in, and sliced with (high downto low) bit indices so
// captured frames can be carved up with the same indices the VHDL
// uses.
package bitvec

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Vector is an ordered sequence of bits.  The zero value is an empty
// vector ready for use.
type Vector struct {
	bits []byte
}

// New returns a vector from bits given MSB first.  Values other than
// 0 and 1 are rejected.
func New(bits ...byte) (Vector, error) {
	for i, b := range bits {
		if b > 1 {
			return Vector{}, errors.Errorf("bitvec: bit %d has non-binary value %d", i, b)
		}
	}
	own := make([]byte, len(bits))
	copy(own, bits)
	return Vector{bits: own}, nil
}

// FromUint returns a width-bit vector holding v.  Bits above width are
// discarded.
func FromUint(v uint64, width int) Vector {
	bits := make([]byte, width)
	for i := 0; i < width; i++ {
		bits[i] = byte(v >> uint(width-1-i) & 1)
	}
	return Vector{bits: bits}
}

// Len returns the number of bits.
func (v Vector) Len() int { return len(v.bits) }

// Append adds one bit at the LSB end, as a shift register would.
func (v *Vector) Append(bit byte) error {
	if bit > 1 {
		return errors.Errorf("bitvec: non-binary value %d", bit)
	}
	v.bits = append(v.bits, bit)
	return nil
}

// Bit returns the bit at HDL index i, where index 0 is the LSB.
func (v Vector) Bit(i int) byte {
	return v.bits[len(v.bits)-1-i]
}

// Slice returns the subvector (hi downto lo), HDL indexed.
func (v Vector) Slice(hi, lo int) Vector {
	if hi < lo {
		panic(fmt.Sprintf("bitvec: slice (%d downto %d) is inverted", hi, lo))
	}
	if hi >= len(v.bits) || lo < 0 {
		panic(fmt.Sprintf("bitvec: slice (%d downto %d) out of range for %d bits", hi, lo, len(v.bits)))
	}
	start := len(v.bits) - 1 - hi
	out := make([]byte, hi-lo+1)
	copy(out, v.bits[start:start+hi-lo+1])
	return Vector{bits: out}
}

// Value returns the integer value of the vector.  Vectors longer than
// 64 bits do not fit a uint64; use Slice first.
func (v Vector) Value() (uint64, error) {
	if len(v.bits) > 64 {
		return 0, errors.Errorf("bitvec: %d bits exceed uint64", len(v.bits))
	}
	var out uint64
	for _, b := range v.bits {
		out = out<<1 | uint64(b)
	}
	return out, nil
}

// Uint is Value for vectors known to fit; it panics otherwise.
func (v Vector) Uint() uint64 {
	u, err := v.Value()
	if err != nil {
		panic(err)
	}
	return u
}

// Bytes packs the vector MSB first into bytes.  The final byte is
// left-padded with zeros if the length is not a multiple of 8.
func (v Vector) Bytes() []byte {
	n := (len(v.bits) + 7) / 8
	out := make([]byte, n)
	pad := n*8 - len(v.bits)
	for i, b := range v.bits {
		pos := i + pad
		out[pos/8] = out[pos/8]<<1 | b
	}
	return out
}

// BinString renders the vector as 0s and 1s without a prefix.
func (v Vector) BinString() string {
	var sb strings.Builder
	for _, b := range v.bits {
		sb.WriteByte('0' + b)
	}
	return sb.String()
}

// String renders the vector as hex with a 0x prefix.
func (v Vector) String() string {
	if len(v.bits) == 0 {
		return "0x0"
	}
	if len(v.bits) <= 64 {
		return fmt.Sprintf("%#x", v.Uint())
	}
	var sb strings.Builder
	sb.WriteString("0x")
	for _, b := range v.Bytes() {
		fmt.Fprintf(&sb, "%02x", b)
	}
	return sb.String()
}
