package debug

import "testing"

func TestLoggerComponentsDisabledByDefault(t *testing.T) {
	l := NewLogger(100)
	defer l.Shutdown()

	for _, c := range []Component{ComponentCPU, ComponentPPU, ComponentBus, ComponentSerial} {
		if l.IsComponentEnabled(c) {
			t.Errorf("component %q should be disabled by default", c)
		}
	}
}

func TestLoggerDropsDisabledComponentEntries(t *testing.T) {
	l := NewLogger(100)
	l.LogCPU(LogLevelInfo, "should be dropped", nil)
	l.Shutdown()

	if len(l.GetEntries()) != 0 {
		t.Fatalf("expected no entries recorded for a disabled component")
	}
}

func TestLoggerRecordsEnabledComponentEntries(t *testing.T) {
	l := NewLogger(100)
	l.SetComponentEnabled(ComponentBus, true)
	l.LogBus(LogLevelInfo, "oam dma", map[string]interface{}{"src": 0xC000})
	l.Shutdown()

	entries := l.GetEntries()
	if len(entries) != 1 {
		t.Fatalf("expected exactly one recorded entry, got %d", len(entries))
	}
	if entries[0].Component != ComponentBus || entries[0].Message != "oam dma" {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
}

func TestLoggerMinLevelFiltering(t *testing.T) {
	l := NewLogger(100)
	l.SetComponentEnabled(ComponentCPU, true)
	l.SetMinLevel(LogLevelDebug)
	l.LogCPU(LogLevelInfo, "below threshold", nil)
	l.LogCPU(LogLevelDebug, "at threshold", nil)
	l.Shutdown()

	entries := l.GetEntries()
	if len(entries) != 1 || entries[0].Message != "at threshold" {
		t.Fatalf("expected only the entry meeting the minimum level to survive, got %+v", entries)
	}
}

func TestLoggerRingBufferWraps(t *testing.T) {
	l := NewLogger(100) // NewLogger enforces a 100-entry minimum
	l.SetComponentEnabled(ComponentPPU, true)
	for i := 0; i < 150; i++ {
		l.LogPPU(LogLevelInfo, "vblank", nil)
	}
	l.Shutdown()

	if got := len(l.GetEntries()); got != 100 {
		t.Fatalf("expected ring buffer capped at 100 entries, got %d", got)
	}
}
