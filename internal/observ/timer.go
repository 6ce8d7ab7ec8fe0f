package observ

import (
	"fmt"
	"io"
	"time"
)

// Phase records the duration and metadata of a pipeline phase.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer tracks the execution time of multiple pipeline phases.
type Timer struct {
	phases []Phase
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 8)} }

// Begin starts a new phase and returns its index.
func (t *Timer) Begin(name string) int {
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End finishes a phase by its index.
func (t *Timer) End(idx int) {
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	t.phases[idx].Dur = time.Since(t.phases[idx].Start)
}

// EndWithNote finishes a phase and attaches a short note.
func (t *Timer) EndWithNote(idx int, note string) {
	t.End(idx)
	if idx >= 0 && idx < len(t.phases) {
		t.phases[idx].Note = note
	}
}

// Phases returns the recorded phases.
func (t *Timer) Phases() []Phase { return t.phases }

// Report prints a plain-text timing table.
func (t *Timer) Report(w io.Writer) {
	for _, p := range t.phases {
		if p.Note != "" {
			fmt.Fprintf(w, "%-12s %10.3fms  %s\n", p.Name, float64(p.Dur.Microseconds())/1000.0, p.Note)
			continue
		}
		fmt.Fprintf(w, "%-12s %10.3fms\n", p.Name, float64(p.Dur.Microseconds())/1000.0)
	}
}
