package debug

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCycleLoggerWritesTraceLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.log")
	cl, err := NewCycleLogger(path, 0, nil)
	if err != nil {
		t.Fatalf("NewCycleLogger: %v", err)
	}

	snap := &CPUStateSnapshot{A: 0x01, F: 0xB0, SP: 0xFFFE, PC: 0x0100, Cycles: 4}
	cl.LogInstruction(snap, 0x00, 0, false)
	cl.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "0100") {
		t.Fatalf("trace file missing PC, got:\n%s", data)
	}
	if !strings.Contains(string(data), "Trace complete") {
		t.Fatalf("expected Close to append a summary line, got:\n%s", data)
	}
}

func TestCycleLoggerRespectsMaxLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.log")
	cl, err := NewCycleLogger(path, 2, nil)
	if err != nil {
		t.Fatalf("NewCycleLogger: %v", err)
	}

	snap := &CPUStateSnapshot{}
	for i := 0; i < 5; i++ {
		cl.LogInstruction(snap, 0x00, 0, false)
	}
	if cl.currentLines != 2 {
		t.Fatalf("currentLines = %d, want 2 (maxLines cap)", cl.currentLines)
	}
	if cl.enabled {
		t.Fatalf("expected logger to auto-disable once maxLines is reached")
	}
	cl.Close()
}

func TestCycleLoggerSetEnabledSuppressesOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.log")
	cl, err := NewCycleLogger(path, 0, nil)
	if err != nil {
		t.Fatalf("NewCycleLogger: %v", err)
	}
	cl.SetEnabled(false)
	cl.LogInstruction(&CPUStateSnapshot{}, 0, 0, false)
	if cl.currentLines != 0 {
		t.Fatalf("expected no lines logged while disabled, got %d", cl.currentLines)
	}
	cl.Close()
}
