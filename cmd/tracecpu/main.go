// Command tracecpu runs a ROM one instruction at a time, writing a
// register-state trace file for comparison against reference traces
// (Gameboy Doctor-style harnesses).
package main

import (
	"fmt"
	"os"

	"gbcore/internal/debug"
	"gbcore/internal/emulator"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: tracecpu <rom> [max-instructions] [trace.log]")
		os.Exit(1)
	}

	romPath := os.Args[1]
	maxInstructions := 200000
	if len(os.Args) >= 3 {
		fmt.Sscanf(os.Args[2], "%d", &maxInstructions)
	}
	traceFile := "trace.log"
	if len(os.Args) >= 4 {
		traceFile = os.Args[3]
	}

	romData, err := os.ReadFile(romPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading ROM: %v\n", err)
		os.Exit(1)
	}

	console := emulator.New()
	console.SetLogger(debug.NewLogger(1000))

	if err := console.LoadROM(romData); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ROM: %v\n", err)
		os.Exit(1)
	}
	console.SetDoctorMode(true)

	cycleLog, err := debug.NewCycleLogger(traceFile, uint64(maxInstructions), nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening trace file: %v\n", err)
		os.Exit(1)
	}
	defer cycleLog.Close()
	cycleLog.SetEnabled(true)

	fmt.Printf("=== CPU Execution Trace ===\n")
	fmt.Printf("Loading ROM: %s\n", romPath)

	for i := 0; i < maxInstructions; i++ {
		state := console.CPUState()
		cycleLog.LogInstruction(&debug.CPUStateSnapshot{
			A: state.A, F: state.F, B: state.B, C: state.C,
			D: state.D, E: state.E, H: state.H, L: state.L,
			SP: state.SP, PC: state.PC, IME: state.IME,
			Halted: state.Halted, Cycles: state.Cycles,
		}, 0, 0, false)

		if _, _, err := console.StepInstruction(); err != nil {
			fmt.Printf("CPU error at instruction %d: %v\n", i, err)
			break
		}
	}

	fmt.Printf("Trace written to %s\n", traceFile)
}
