// Command gbcore runs a ROM headlessly, printing any bytes the program
// writes via the serial test-output convention (write 0x81 to 0xFF02).
// Blargg's test ROMs use exactly this convention to report pass/fail.
package main

import (
	"flag"
	"fmt"
	"os"

	"gbcore/internal/debug"
	"gbcore/internal/emulator"
)

func main() {
	romPath := flag.String("rom", "", "Path to ROM file")
	frames := flag.Int("frames", 3600, "Number of frames to run (default ~60s at 59.7Hz)")
	ceiling := flag.Uint64("max-cycles", 0, "Abort with a timeout error after this many T-cycles (0 = unbounded)")
	doctor := flag.Bool("doctor", false, "Enable the 0xFF44 LY stub used by trace-comparison harnesses")
	enableLog := flag.Bool("log", false, "Enable component logging")
	flag.Parse()

	if *romPath == "" {
		fmt.Println("Usage: gbcore -rom <path-to-rom>")
		fmt.Println("  -rom <path>        Path to ROM file")
		fmt.Println("  -frames <n>        Frames to run (default 3600)")
		fmt.Println("  -max-cycles <n>    Abort after n T-cycles (0 = unbounded)")
		fmt.Println("  -doctor            Enable the LY=0x90 trace-harness stub")
		fmt.Println("  -log               Enable component logging")
		os.Exit(1)
	}

	romData, err := os.ReadFile(*romPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading ROM file: %v\n", err)
		os.Exit(1)
	}

	console := emulator.New()

	if *enableLog {
		logger := debug.NewLogger(10000)
		logger.SetComponentEnabled(debug.ComponentCPU, true)
		logger.SetComponentEnabled(debug.ComponentPPU, true)
		logger.SetComponentEnabled(debug.ComponentBus, true)
		logger.SetComponentEnabled(debug.ComponentSerial, true)
		console.SetLogger(logger)
	}

	if err := console.LoadROM(romData); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ROM: %v\n", err)
		os.Exit(1)
	}
	console.SetDoctorMode(*doctor)
	if *ceiling > 0 {
		console.SetCycleCeiling(*ceiling)
	}

	console.SetSerialSink(func(b byte) {
		fmt.Printf("%c", b)
	})

	if _, err := console.Run(*frames); err != nil {
		if _, ok := err.(*emulator.TimeoutError); ok {
			fmt.Fprintf(os.Stderr, "\n%v\n", err)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "\nrun error: %v\n", err)
		os.Exit(1)
	}
}
