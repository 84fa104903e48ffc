package debug

import (
	"fmt"
	"strings"
	"time"
)

// LogLevel represents the severity level of a log entry. Note the ordering
// runs the opposite of the usual severity convention: filtering drops any
// entry whose level is numerically below minLevel, so raising minLevel
// toward Trace admits FEWER messages, and at the default (Info) Error and
// Warning entries are dropped.
type LogLevel int

const (
	LogLevelNone LogLevel = iota
	LogLevelError
	LogLevelWarning
	LogLevelInfo
	LogLevelDebug
	LogLevelTrace
)

func (l LogLevel) String() string {
	switch l {
	case LogLevelNone:
		return "NONE"
	case LogLevelError:
		return "ERROR"
	case LogLevelWarning:
		return "WARNING"
	case LogLevelInfo:
		return "INFO"
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelTrace:
		return "TRACE"
	default:
		return "UNKNOWN"
	}
}

// Component names the core subsystem that produced a log entry. The set is
// deliberately narrow: it covers exactly the four subsystems that actually
// emit structured log entries (CPU instruction retirement, PPU mode/frame
// events, bus DMA/timer activity, and the serial test-output tap). There is
// no APU, UI, or generic "system" component because this core has none of
// those surfaces to log.
type Component string

const (
	ComponentCPU    Component = "CPU"
	ComponentPPU    Component = "PPU"
	ComponentBus    Component = "Bus"
	ComponentSerial Component = "Serial"
)

// LogEntry is one recorded event: a timestamp, the subsystem and severity it
// came from, a human-readable message, and optional structured fields.
type LogEntry struct {
	Timestamp time.Time
	Component Component
	Level     LogLevel
	Message   string
	Data      map[string]interface{}
}

// Format renders the entry as a single trace line, e.g.:
//
//	[15:04:05.000] [PPU] TRACE: vblank entered (frame=1)
//
// Data fields are appended sorted by key so repeated log lines with the same
// field set diff cleanly.
func (e *LogEntry) Format() string {
	ts := e.Timestamp.Format("15:04:05.000")
	line := fmt.Sprintf("[%s] [%s] %s: %s", ts, e.Component, e.Level, e.Message)
	if len(e.Data) == 0 {
		return line
	}

	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		keys = append(keys, k)
	}
	sortStrings(keys)

	fields := make([]string, len(keys))
	for i, k := range keys {
		fields[i] = fmt.Sprintf("%s=%v", k, e.Data[k])
	}
	return line + " (" + strings.Join(fields, " ") + ")"
}

// sortStrings is a small insertion sort; the field counts involved (a
// handful of named registers/addresses per entry) never justify pulling in
// sort.Strings for what is, at these sizes, the same number of comparisons.
func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
