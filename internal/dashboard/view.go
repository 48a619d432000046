package dashboard

import (
	"sync"
)

// element identifiers of the dashboard page
const (
	ElemInputDate        = "inputDate"
	ElemBodyWeight       = "bodyWeight"
	ElemExerciseSelector = "exerciseSelector"
	ElemInputExercise    = "inputExercise"
	ElemInputWeight      = "inputWeight"
	ElemInputReps        = "inputReps"
	ElemUploadStatus     = "uploadStatus"
	ElemCurrentPR        = "currentPr"
	ElemTargetPR         = "targetPr"
	ElemUserRank         = "userRank"
	ElemRecHeavy         = "recHeavy"
	ElemRecHyper         = "recHyper"

	CanvasGains   = "gainsChart"
	CanvasAnatomy = "anatomyChart"
)

type Option struct {
	Value string
	Label string
}

// View is the page surface the dashboard reads from and writes to.
type View interface {
	Value(id string) string
	SetValue(id, value string)
	SetText(id, text string)
	// SetOptions replaces the options of a selector and selects the first one.
	SetOptions(id string, options []Option)
	Alert(message string)
}

type ViewSnapshot struct {
	Values  map[string]string
	Texts   map[string]string
	Options map[string][]Option
}

// MemoryView keeps the page state in memory; the web front renders it.
type MemoryView struct {
	mu      sync.RWMutex
	values  map[string]string
	texts   map[string]string
	options map[string][]Option
	alerts  []string
}

func NewMemoryView() *MemoryView {
	return &MemoryView{
		values:  make(map[string]string),
		texts:   make(map[string]string),
		options: make(map[string][]Option),
	}
}

func (v *MemoryView) Value(id string) string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.values[id]
}

func (v *MemoryView) SetValue(id, value string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.values[id] = value
}

func (v *MemoryView) Text(id string) string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.texts[id]
}

func (v *MemoryView) SetText(id, text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.texts[id] = text
}

func (v *MemoryView) Options(id string) []Option {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]Option(nil), v.options[id]...)
}

func (v *MemoryView) SetOptions(id string, options []Option) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.options[id] = append([]Option(nil), options...)
	if len(options) > 0 {
		v.values[id] = options[0].Value
	} else {
		v.values[id] = ""
	}
}

func (v *MemoryView) Alert(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.alerts = append(v.alerts, message)
}

// TakeAlerts returns the pending alerts and clears them.
func (v *MemoryView) TakeAlerts() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	alerts := v.alerts
	v.alerts = nil
	return alerts
}

func (v *MemoryView) Snapshot() ViewSnapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()

	snap := ViewSnapshot{
		Values:  make(map[string]string, len(v.values)),
		Texts:   make(map[string]string, len(v.texts)),
		Options: make(map[string][]Option, len(v.options)),
	}
	for k, val := range v.values {
		snap.Values[k] = val
	}
	for k, t := range v.texts {
		snap.Texts[k] = t
	}
	for k, opts := range v.options {
		snap.Options[k] = append([]Option(nil), opts...)
	}
	return snap
}
