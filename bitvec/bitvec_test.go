package bitvec_test

import (
	"fmt"
	"testing"

	"github.com/radiodyne/rxstim/bitvec"
)

func ExampleFromUint() {
	v := bitvec.FromUint(0xA5, 8)
	fmt.Println(v.BinString())
	fmt.Println(v)
	// Output:
	// 10100101
	// 0xa5
}

func TestNewRejectsNonBinary(t *testing.T) {
	if _, err := bitvec.New(0, 1, 2); err == nil {
		t.Error("expected error for non-binary bit")
	}
}

func TestAppendBuildsMSBFirst(t *testing.T) {
	var v bitvec.Vector
	for _, b := range []byte{1, 0, 1, 1} {
		if err := v.Append(b); err != nil {
			t.Fatal(err)
		}
	}
	if v.Len() != 4 {
		t.Fatalf("expected 4 bits, got %d", v.Len())
	}
	if got := v.Uint(); got != 0xB {
		t.Errorf("expected 0xB, got %#x", got)
	}
}

func TestBitUsesHDLIndex(t *testing.T) {
	v := bitvec.FromUint(0x8, 4) // 1000
	if v.Bit(3) != 1 {
		t.Error("bit 3 (MSB) should be 1")
	}
	if v.Bit(0) != 0 {
		t.Error("bit 0 (LSB) should be 0")
	}
}

func TestSliceDownto(t *testing.T) {
	// 48-bit SD command frame layout: slice(45,40) is the command index
	v := bitvec.FromUint(0x400000000095, 48) // CMD0 with CRC 0x95
	if got := v.Slice(45, 40).Uint(); got != 0 {
		t.Errorf("command index: expected 0, got %d", got)
	}
	if got := v.Slice(47, 46).Uint(); got != 1 {
		t.Errorf("start+tx bits: expected 0b01, got %#b", got)
	}
	if got := v.Slice(7, 0).Uint(); got != 0x95 {
		t.Errorf("crc7+stop: expected 0x95, got %#x", got)
	}
}

func TestSliceErrorsPanic(t *testing.T) {
	v := bitvec.FromUint(5, 4)
	for _, tc := range [][2]int{{0, 3}, {4, 0}, {3, -1}} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("slice (%d downto %d): expected panic", tc[0], tc[1])
				}
			}()
			v.Slice(tc[0], tc[1])
		}()
	}
}

func TestBytesPadding(t *testing.T) {
	v := bitvec.FromUint(0xABC, 12)
	got := v.Bytes()
	if len(got) != 2 || got[0] != 0x0A || got[1] != 0xBC {
		t.Errorf("expected [0x0A 0xBC], got % x", got)
	}
}

func TestValueTooWide(t *testing.T) {
	var v bitvec.Vector
	for i := 0; i < 65; i++ {
		v.Append(1)
	}
	if _, err := v.Value(); err == nil {
		t.Error("expected error for 65-bit value")
	}
}
