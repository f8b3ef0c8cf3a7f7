package device

import (
	"fmt"
	"math"

	"github.com/luxworks/ledsim/internal/consts"
	"github.com/luxworks/ledsim/pkg/curve"
)

// DriverParams describes a power driver as resolved from a catalog record.
// A zero limit means the bound is not specified and goes unchecked.
type DriverParams struct {
	Label     string
	MinInputV float64 // AC input range (V)
	MaxInputV float64
	MinV      float64 // output regulation range (V)
	MaxV      float64
	MaxPower  float64 // W

	// BlendWeight favors the primary efficiency candidate over the mean of
	// the remaining ones. Catalog loading defaults it to 1.
	BlendWeight float64

	LoadCurve  curve.Curve // x: load percent, y: efficiency fraction
	PowerCurve curve.Curve // x: output watts, y: efficiency fraction
	Vout120    curve.Curve // x: output volts on 120 V line, y: efficiency fraction
	Vout277    curve.Curve // x: output volts on 277 V line, y: efficiency fraction
}

// Driver models a power driver: operating limits plus efficiency curves.
// Immutable after construction, safe to reuse across estimates.
type Driver struct {
	label       string
	minInputV   float64
	maxInputV   float64
	minV        float64
	maxV        float64
	maxPower    float64
	blendWeight float64
	loadCurve   curve.Curve
	powerCurve  curve.Curve
	vout120     curve.Curve
	vout277     curve.Curve
}

func NewDriver(p DriverParams) *Driver {
	return &Driver{
		label:       p.Label,
		minInputV:   p.MinInputV,
		maxInputV:   p.MaxInputV,
		minV:        p.MinV,
		maxV:        p.MaxV,
		maxPower:    p.MaxPower,
		blendWeight: p.BlendWeight,
		loadCurve:   p.LoadCurve,
		powerCurve:  p.PowerCurve,
		vout120:     p.Vout120,
		vout277:     p.Vout277,
	}
}

func (d *Driver) Label() string { return d.label }

// MaxPower returns the rated output power, 0 when unspecified.
func (d *Driver) MaxPower() float64 { return d.maxPower }

// EstimateEfficiency estimates driver efficiency at an operating point by
// blending whatever efficiency curves have data. Candidates come from the
// output-power curve, the line-matched output-voltage curve and the
// load-percent curve, in that priority order; the first available one is
// the primary and is weighted against the mean of the rest by BlendWeight.
// The blend is clamped to [consts.EfficiencyFloor, consts.EfficiencyCeiling];
// with no curve data at all the estimate is consts.DefaultEfficiency.
func (d *Driver) EstimateEfficiency(outputV, outputPower, inputV float64) float64 {
	effPower, okPower := d.powerCurve.Evaluate(outputPower)

	voutCurve := d.vout120
	if inputV >= consts.HighLineVoltage {
		voutCurve = d.vout277
	}
	effVout, okVout := voutCurve.Evaluate(outputV)

	var effLoad float64
	var okLoad bool
	if d.maxPower > 0 {
		loadPct := clamp(outputPower/d.maxPower*100.0, 0, consts.LoadPercentCap)
		effLoad, okLoad = d.loadCurve.Evaluate(loadPct)
	}

	// A candidate of exactly 0 is still a candidate; only a curve without
	// data is skipped.
	type candidate struct {
		value float64
		ok    bool
	}
	ordered := []candidate{{effPower, okPower}, {effVout, okVout}, {effLoad, okLoad}}

	available := make([]float64, 0, len(ordered))
	primary := -1
	for i, c := range ordered {
		if !c.ok {
			continue
		}
		if primary < 0 {
			primary = i
		}
		available = append(available, c.value)
	}
	if len(available) == 0 {
		return consts.DefaultEfficiency
	}

	others := make([]float64, 0, len(ordered)-1)
	for i, c := range ordered {
		if !c.ok || i == primary {
			continue
		}
		others = append(others, c.value)
	}

	var blended float64
	if len(others) == 0 || d.blendWeight <= 0 {
		blended = mean(available)
	} else {
		blended = (ordered[primary].value*d.blendWeight + mean(others)) / (d.blendWeight + 1.0)
	}
	return clamp(blended, consts.EfficiencyFloor, consts.EfficiencyCeiling)
}

// CheckLimits reports every driver bound the operating point violates, in
// a fixed order: input low, input high, regulation low, regulation high,
// power. requiredV is the load voltage the driver has to supply. A zero
// bound is unchecked; an empty result means no violations.
func (d *Driver) CheckLimits(inputV, requiredV, outputPower float64) []string {
	var issues []string
	if d.minInputV != 0 && inputV < d.minInputV {
		issues = append(issues, fmt.Sprintf("Input voltage %.1f V is below driver min %.1f V", inputV, d.minInputV))
	}
	if d.maxInputV != 0 && inputV > d.maxInputV {
		issues = append(issues, fmt.Sprintf("Input voltage %.1f V is above driver max %.1f V", inputV, d.maxInputV))
	}
	if d.minV != 0 && requiredV < d.minV {
		issues = append(issues, fmt.Sprintf("Load voltage %.2f V is below driver regulation range (%.2f V min)", requiredV, d.minV))
	}
	if d.maxV != 0 && requiredV > d.maxV {
		issues = append(issues, fmt.Sprintf("Load voltage %.2f V exceeds driver max %.2f V", requiredV, d.maxV))
	}
	if d.maxPower != 0 && outputPower > d.maxPower {
		issues = append(issues, fmt.Sprintf("Output power %.2f W exceeds driver limit %.2f W", outputPower, d.maxPower))
	}
	return issues
}

func clamp(v, low, high float64) float64 {
	return math.Max(low, math.Min(high, v))
}

func mean(vals []float64) float64 {
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}
