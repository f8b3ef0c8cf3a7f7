package device

import (
	"github.com/luxworks/ledsim/internal/consts"
	"github.com/luxworks/ledsim/pkg/curve"
)

// ModuleParams describes an LED module as resolved from a catalog record.
// Optional ratings are nil when the catalog does not state them; an
// explicit zero is kept and treated as a stated value.
type ModuleParams struct {
	Label         string
	SeriesCount   int // LEDs per string, values below 1 are treated as 1
	ParallelCount int // strings, values below 1 are treated as 1

	TypicalVoltage       *float64 // V, per LED unless the module has a single LED in series
	TypicalVoltagePerLED *float64 // V
	TypicalVoltageTotal  *float64 // V across the whole module

	MaxCurrent           *float64 // A, whole module
	MaxCurrentPerLED     *float64 // A
	NominalCurrent       *float64 // A, whole module
	NominalCurrentPerLED *float64 // A

	IVCurve curve.Curve // x: per-string amps, y: per-LED volts
}

// Module models an LED module: SeriesCount LEDs per string, ParallelCount
// strings in parallel, with the drive current splitting evenly across
// strings. Immutable after construction.
type Module struct {
	label                string
	seriesCount          int
	parallelCount        int
	typicalVoltage       *float64
	typicalVoltagePerLED *float64
	typicalVoltageTotal  *float64
	maxCurrent           *float64
	maxCurrentPerLED     *float64
	nominalCurrent       *float64
	nominalCurrentPerLED *float64
	ivCurve              curve.Curve
}

func NewModule(p ModuleParams) *Module {
	m := &Module{
		label:                p.Label,
		seriesCount:          p.SeriesCount,
		parallelCount:        p.ParallelCount,
		typicalVoltage:       optCopy(p.TypicalVoltage),
		typicalVoltagePerLED: optCopy(p.TypicalVoltagePerLED),
		typicalVoltageTotal:  optCopy(p.TypicalVoltageTotal),
		maxCurrent:           optCopy(p.MaxCurrent),
		maxCurrentPerLED:     optCopy(p.MaxCurrentPerLED),
		nominalCurrent:       optCopy(p.NominalCurrent),
		nominalCurrentPerLED: optCopy(p.NominalCurrentPerLED),
		ivCurve:              p.IVCurve,
	}
	if m.seriesCount < 1 {
		m.seriesCount = 1
	}
	if m.parallelCount < 1 {
		m.parallelCount = 1
	}
	return m
}

func (m *Module) Label() string      { return m.label }
func (m *Module) SeriesCount() int   { return m.seriesCount }
func (m *Module) ParallelCount() int { return m.parallelCount }

// MaxCurrentPerLED returns the per-LED current rating when the catalog
// states one.
func (m *Module) MaxCurrentPerLED() (float64, bool) {
	if m.maxCurrentPerLED == nil {
		return 0, false
	}
	return *m.maxCurrentPerLED, true
}

// MaxModuleCurrent returns the module-level current limit: the explicit
// whole-module rating when stated, otherwise the per-LED rating scaled by
// the parallel string count. The second return is false when neither
// rating exists.
func (m *Module) MaxModuleCurrent() (float64, bool) {
	if m.maxCurrent != nil {
		return *m.maxCurrent, true
	}
	if m.maxCurrentPerLED != nil {
		return *m.maxCurrentPerLED * float64(m.parallelCount), true
	}
	return 0, false
}

// SuggestCurrent picks a drive current from the best rating available:
// the stated nominal, the per-LED nominal scaled by string count, a
// conservative fraction of the max rating, then a fixed fallback.
func (m *Module) SuggestCurrent() float64 {
	if m.nominalCurrent != nil {
		return *m.nominalCurrent
	}
	if m.nominalCurrentPerLED != nil {
		return *m.nominalCurrentPerLED * float64(m.parallelCount)
	}
	if maxA, ok := m.MaxModuleCurrent(); ok && maxA != 0 {
		return maxA * consts.NominalFromMaxFraction
	}
	return consts.FallbackCurrentA
}

// ForwardVoltage estimates the voltage across the module at the given
// drive current. The IV curve is evaluated at the per-string current and
// scaled by the series count; without curve samples the typical-voltage
// ratings stand in, per LED first, then the module total. When no source
// is available the error is a *NoVoltageDataError.
func (m *Module) ForwardVoltage(moduleCurrent float64) (float64, error) {
	perString := moduleCurrent / float64(m.parallelCount)
	if perLED, ok := m.ivCurve.Evaluate(perString); ok {
		return perLED * float64(m.seriesCount), nil
	}
	if m.typicalVoltagePerLED != nil {
		return *m.typicalVoltagePerLED * float64(m.seriesCount), nil
	}
	if m.typicalVoltageTotal != nil {
		return *m.typicalVoltageTotal, nil
	}
	if m.typicalVoltage != nil {
		if m.seriesCount <= 1 {
			return *m.typicalVoltage, nil
		}
		return *m.typicalVoltage * float64(m.seriesCount), nil
	}
	return 0, &NoVoltageDataError{Module: m.label}
}

func optCopy(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
