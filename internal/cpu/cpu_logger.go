package cpu

import (
	"fmt"

	"gbcore/internal/debug"
)

// DebugLoggerAdapter adapts a debug.Logger to the CPU's LoggerInterface,
// emitting one entry per retired instruction when CPU logging is enabled.
// Mirrors the teacher's CPULoggerAdapter split between a generic ring-buffer
// logger and a component-specific formatter.
type DebugLoggerAdapter struct {
	logger *debug.Logger
}

// NewDebugLoggerAdapter wraps logger for use as a cpu.LoggerInterface.
func NewDebugLoggerAdapter(logger *debug.Logger) *DebugLoggerAdapter {
	return &DebugLoggerAdapter{logger: logger}
}

// LogCPU implements cpu.LoggerInterface.
func (a *DebugLoggerAdapter) LogCPU(pc uint16, opcode uint8, cb bool, cbOpcode uint8, state CPUState) {
	if a.logger == nil || !a.logger.IsComponentEnabled(debug.ComponentCPU) {
		return
	}

	opcodeStr := fmt.Sprintf("%02X", opcode)
	if cb {
		opcodeStr = fmt.Sprintf("CB%02X", cbOpcode)
	}

	a.logger.LogCPU(debug.LogLevelTrace, fmt.Sprintf("%s @ PC=%04X", opcodeStr, pc), map[string]interface{}{
		"a": state.A, "f": state.F, "b": state.B, "c": state.C,
		"d": state.D, "e": state.E, "h": state.H, "l": state.L,
		"sp": state.SP, "ime": state.IME, "halted": state.Halted,
		"cycles": state.Cycles,
	})
}
