// sdread decodes SD card command traffic from a logic analyzer CSV
// capture and prints the transactions, flagging CRC mismatches.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/theckman/yacspin"

	"github.com/radiodyne/rxstim/sdcard"
	"github.com/radiodyne/rxstim/version"
)

func main() {
	var (
		sampleNS = flag.Float64("s", 10, "analyzer sample spacing in nanoseconds")
		showVer  = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()
	if *showVer {
		fmt.Println("sdread version", version.Long())
		return
	}
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: sdread [-s sampleNS] <capture.csv>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	f, err := os.Open(path)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	// captures run to millions of rows; let the user know we're alive
	spin, err := yacspin.New(yacspin.Config{
		Frequency:       100 * time.Millisecond,
		CharSet:         yacspin.CharSets[59],
		Suffix:          " decoding " + path,
		StopCharacter:   "done",
		StopColors:      []string{"fgGreen"},
		SuffixAutoColon: true,
	})
	if err != nil {
		log.Fatal(err)
	}
	spin.Start()
	trs, err := sdcard.DecodeCSV(f, *sampleNS)
	spin.Stop()
	if err != nil {
		log.Fatal(err)
	}

	lastClock := 0.0
	for _, tr := range trs {
		if tr.ClockHz != lastClock {
			fmt.Printf("Transaction Clock Rate: %g Hz\n", tr.ClockHz)
			lastClock = tr.ClockHz
		}
		fmt.Println(tr)
		if tr.CRCChecked && !tr.CRCOK {
			fmt.Println("  ** CRC7 mismatch **")
		}
	}
	fmt.Printf("%d transactions\n", len(trs))
}
