// Package sdcard decodes SD card command traffic from logic analyzer
// captures of the receiver's storage interface.
//
// The input is the analyzer's CSV export with one row per sample and
// columns clk, cmd and data (a hex nibble, unused by the command-line
// decode).  Command bits are clocked in on the rising edge of clk
// once the falling edge of cmd marks the start of a frame, mirroring
// how the card itself receives them.
package sdcard

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/snksoft/crc"

	"github.com/radiodyne/rxstim/bitvec"
)

// Kind classifies a decoded transaction.
type Kind int

// Transaction kinds.  Responses follow the SD card spec's naming.
const (
	KindCommand Kind = iota
	KindR1
	KindR2
	KindR3
	KindR6
)

func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindR1:
		return "R1"
	case KindR2:
		return "R2"
	case KindR3:
		return "R3"
	case KindR6:
		return "R6"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// crc7 is the SD bus checksum: 7 bits, polynomial x^7+x^3+1, zero
// init, no reflection.
var crc7 = &crc.Parameters{Width: 7, Polynomial: 0x09, Init: 0, ReflectIn: false, ReflectOut: false, FinalXor: 0}

// Transaction is one decoded command or response frame.
type Transaction struct {
	Kind Kind

	// Raw is the complete frame as captured, 48 or 136 bits.
	Raw bitvec.Vector

	// Index is the command index.  For responses it echoes the
	// command field of the frame (63 for R3, 3 for R6).
	Index uint8

	// ACMD is set on commands that follow CMD55.
	ACMD bool

	// Arg is the 32-bit argument (commands, R1), or the OCR (R3).
	Arg uint32

	// RCA and Status are populated for R6 responses only.
	RCA    uint16
	Status uint16

	// CRCOK reports whether the frame's CRC7 matched.  It is always
	// false for R2 and R3, whose CRC fields are internal or
	// reserved; check CRCChecked before trusting it.
	CRCOK      bool
	CRCChecked bool

	// ClockHz is the bus clock rate estimated from the capture's
	// sample spacing at the start of the frame.
	ClockHz float64
}

// String renders the transaction roughly the way the bench's decode
// log does.
func (tr Transaction) String() string {
	name := fmt.Sprintf("CMD%02d", tr.Index)
	if tr.ACMD {
		name = fmt.Sprintf("ACMD%02d", tr.Index)
	}
	switch tr.Kind {
	case KindCommand:
		return fmt.Sprintf("Command  %s  Arg: %08x  Raw: %v", name, tr.Arg, tr.Raw)
	case KindR2:
		return fmt.Sprintf("R2 (CID/CSD)  Raw: %v", tr.Raw)
	case KindR3:
		return fmt.Sprintf("R3 (OCR)  OCR: %08x  Raw: %v", tr.Arg, tr.Raw)
	case KindR6:
		return fmt.Sprintf("R6 (RCA)  RCA: %04x  Status: %04x  Raw: %v", tr.RCA, tr.Status, tr.Raw)
	default:
		return fmt.Sprintf("R1  %s  Arg: %08x  Raw: %v", name, tr.Arg, tr.Raw)
	}
}

// state of the acquisition machine
type state int

const (
	stateIdle state = iota
	stateAcquire
)

// Decoder extracts SD transactions from a sample stream.
type Decoder struct {
	// SampleNS is the analyzer's sample spacing in nanoseconds,
	// used only for the clock rate estimate.
	SampleNS float64

	st          state
	vec         bitvec.Vector
	lastClk     int
	lastCmd     int
	lastCmdIdx  uint8
	line        int
	lastEdge    int
	clockHz     float64
	frameClock  float64
}

// NewDecoder returns a decoder for captures taken at sampleNS
// nanoseconds per row.
func NewDecoder(sampleNS float64) *Decoder {
	return &Decoder{SampleNS: sampleNS, lastCmd: 1}
}

// Push feeds one sample row to the decoder.  It returns a completed
// transaction, or nil if the frame is still being assembled.
func (d *Decoder) Push(clk, cmd int) (*Transaction, error) {
	d.line++
	risingClk := clk == 1 && d.lastClk == 0
	fallingCmd := cmd == 0 && d.lastCmd == 1
	d.lastClk = clk
	d.lastCmd = cmd

	if risingClk {
		if d.lastEdge > 0 {
			period := float64(d.line-d.lastEdge) * d.SampleNS * 1e-9
			d.clockHz = 1.0 / period
		}
		d.lastEdge = d.line
	}

	switch d.st {
	case stateIdle:
		// the falling edge of cmd is the frame's start bit; it is
		// captured by the first rising clk below
		if fallingCmd {
			d.vec = bitvec.Vector{}
			d.frameClock = d.clockHz
			d.st = stateAcquire
		}
		return nil, nil
	case stateAcquire:
		if !risingClk {
			return nil, nil
		}
		if err := d.vec.Append(byte(cmd)); err != nil {
			return nil, err
		}
		want := 48
		// responses to CMD2, 9 and 10 are long (R2) frames
		if d.lastCmdIdx == 2 || d.lastCmdIdx == 9 || d.lastCmdIdx == 10 {
			want = 136
		}
		if d.vec.Len() < want {
			return nil, nil
		}
		d.st = stateIdle
		return d.finish()
	}
	return nil, nil
}

func (d *Decoder) finish() (*Transaction, error) {
	v := d.vec
	n := v.Len()
	tr := &Transaction{Raw: v, ClockHz: d.frameClock}

	if n == 136 {
		tr.Kind = KindR2
		tr.Index = uint8(v.Slice(133, 128).Uint())
		// a long response closes the CMD2/9/10 window
		d.lastCmdIdx = 0
		return tr, nil
	}

	transmitter := v.Bit(46)
	tr.Index = uint8(v.Slice(45, 40).Uint())
	tr.Arg = uint32(v.Slice(39, 8).Uint())

	if transmitter == 1 {
		tr.Kind = KindCommand
		tr.ACMD = d.lastCmdIdx == 55
		d.lastCmdIdx = tr.Index
	} else {
		switch tr.Index {
		case 63:
			tr.Kind = KindR3 // OCR response; CRC field is reserved
		case 3:
			tr.Kind = KindR6
			tr.RCA = uint16(v.Slice(39, 24).Uint())
			tr.Status = uint16(v.Slice(23, 8).Uint())
		default:
			tr.Kind = KindR1
		}
	}

	if tr.Kind != KindR3 {
		tr.CRCChecked = true
		msg := v.Slice(47, 8).Bytes() // start through argument, 5 bytes
		want := v.Slice(7, 1).Uint()
		tr.CRCOK = crc.CalculateCRC(crc7, msg) == want
	}
	return tr, nil
}

// DecodeCSV decodes a whole capture.  The CSV must carry clk, cmd and
// data columns; sampleNS is the analyzer sample spacing in
// nanoseconds.
func DecodeCSV(r io.Reader, sampleNS float64) ([]Transaction, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, "sdcard: reading header")
	}
	clkCol, cmdCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(strings.ToLower(name)) {
		case "clk":
			clkCol = i
		case "cmd":
			cmdCol = i
		}
	}
	if clkCol < 0 || cmdCol < 0 {
		return nil, errors.Errorf("sdcard: capture is missing clk/cmd columns, has %v", header)
	}

	dec := NewDecoder(sampleNS)
	var out []Transaction
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "sdcard: line %d", line)
		}
		clk, err := strconv.Atoi(strings.TrimSpace(row[clkCol]))
		if err != nil {
			return nil, errors.Wrapf(err, "sdcard: line %d: clk", line)
		}
		cmd, err := strconv.Atoi(strings.TrimSpace(row[cmdCol]))
		if err != nil {
			return nil, errors.Wrapf(err, "sdcard: line %d: cmd", line)
		}
		tr, err := dec.Push(clk, cmd)
		if err != nil {
			return nil, errors.Wrapf(err, "sdcard: line %d", line)
		}
		if tr != nil {
			out = append(out, *tr)
		}
	}
	return out, nil
}
