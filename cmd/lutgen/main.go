// lutgen creates sinusoid lookup table memory initialization files
// for the receiver's block ROMs.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/radiodyne/rxstim/lut"
	"github.com/radiodyne/rxstim/version"
)

func main() {
	var (
		prefix    = flag.String("prefix", "rom", "output filename prefix")
		addrWidth = flag.Int("addrwidth", 12, "memory depth as address bits; depth = 2^addrwidth")
		dataWidth = flag.Int("datawidth", 16, "data word width in bits")
		function  = flag.String("function", "sin", "function to tabulate: sin or cos")
		scale     = flag.Int64("scale", 0, "full scale value; 0 means 2^(datawidth-1)-1")
		rotation  = flag.String("rotation", "full", "rotational sweep: full, quad or eighth")
		format    = flag.String("format", "mif", "output format: mif (Intel) or mem (Verilog hex)")
		endpoint  = flag.Bool("endpoint", false, "include the endpoint of the sweep as the final entry")
		showVer   = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()
	if *showVer {
		fmt.Println("lutgen version", version.Long())
		return
	}

	tbl := lut.Table{
		AddrWidth: *addrWidth,
		DataWidth: *dataWidth,
		Scale:     *scale,
		Endpoint:  *endpoint,
	}
	switch *function {
	case "sin":
		tbl.Function = lut.Sin
	case "cos":
		tbl.Function = lut.Cos
	default:
		log.Fatalf("unknown function %q", *function)
	}
	switch *rotation {
	case "full":
		tbl.Rotation = lut.Full
	case "quad":
		tbl.Rotation = lut.Quarter
	case "eighth":
		tbl.Rotation = lut.Eighth
	default:
		log.Fatalf("unknown rotation %q", *rotation)
	}
	var f lut.Format
	switch *format {
	case "mif":
		f = lut.MIF
	case "mem":
		f = lut.Mem
	default:
		log.Fatalf("unknown format %q", *format)
	}

	name, err := tbl.Generate(*prefix, f)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("Generating", name)
}
