package app

import (
	"time"

	"github.com/alkime/scope/internal/tui/components/generator"
)

// Snapshot is a read-only copy of the console state handed to observers
// outside the UI loop.
type Snapshot struct {
	Addr         string               `json:"addr"`
	Acquiring    bool                 `json:"acquiring"`
	TriggerDelay uint16               `json:"triggerDelay"`
	TriggerLevel float32              `json:"triggerLevel"`
	Generator    []generator.Settings `json:"generator"`
	Samples      int                  `json:"samples"`
	PeakPositive float64              `json:"peakPositive"`
	PeakNegative float64              `json:"peakNegative"`
	Frames       int                  `json:"frames"`
	Status       string               `json:"status"`
	LastError    string               `json:"lastError,omitempty"`
	At           time.Time            `json:"at"`
}

// Snapshot copies the current state.
func (m *Model) Snapshot() Snapshot {
	snap := Snapshot{
		Addr:         m.opts.Addr,
		Acquiring:    m.acquire.Started(),
		TriggerDelay: m.trigger.Delay(),
		TriggerLevel: m.trigger.Level(),
		Generator:    m.generator.Settings(),
		Samples:      m.data.Len(),
		Frames:       m.graph.Surface().Frames(),
		Status:       m.status.Message(),
		At:           time.Now(),
	}

	if pos, neg, ok := m.data.Peaks(); ok {
		snap.PeakPositive = pos
		snap.PeakNegative = neg
	}

	if err := m.status.Err(); err != nil {
		snap.LastError = err.Error()
	}

	return snap
}

func (m *Model) publish() {
	if m.opts.Publish == nil {
		return
	}

	m.opts.Publish(m.Snapshot())
}
