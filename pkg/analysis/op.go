// Package analysis pairs a driver with an LED module and estimates the
// electrical operating point of the pair.
package analysis

import (
	"errors"
	"fmt"

	"github.com/luxworks/ledsim/pkg/device"
)

// Result status values. A FAIL status means at least one issue was found;
// the estimate itself is still reported.
const (
	StatusOK   = "OK"
	StatusFail = "FAIL"
)

var ErrInvalidCurrent = errors.New("drive current must be positive")

// Request describes one pairing to estimate.
type Request struct {
	Driver *device.Driver
	Module *device.Module

	// DriveCurrent is the module drive current in A. Zero or negative
	// means no preference: the module's suggested current is used.
	DriveCurrent float64

	// InputVoltage is the AC line feeding the driver, in V.
	InputVoltage float64

	// OverrideVoltage, when positive, replaces the module's own voltage
	// estimate. Meant for modules without IV data.
	OverrideVoltage float64
}

// Result is the estimated operating point of a driver/module pairing.
type Result struct {
	Status              string   `json:"status"`
	Driver              string   `json:"driver"`
	Module              string   `json:"module"`
	InputVoltage        float64  `json:"input_voltage"`
	ModuleCurrent       float64  `json:"module_current"`
	ModuleVoltage       float64  `json:"module_voltage"`
	DriverOutputVoltage float64  `json:"driver_output_voltage"`
	OutputPower         float64  `json:"output_power"`
	Efficiency          float64  `json:"efficiency"`
	InputPower          float64  `json:"input_power"`
	Issues              []string `json:"issues"`
	UsedNominalCurrent  bool     `json:"used_nominal_current"`
}

// OperatingPoint estimates voltage, power and efficiency for a pairing and
// collects every limit issue found. Missing IV data is a soft issue with a
// zero voltage estimate, not an error; the error return is reserved for
// requests that cannot be evaluated at all.
func OperatingPoint(req Request) (*Result, error) {
	if req.Driver == nil || req.Module == nil {
		return nil, fmt.Errorf("driver and module are required")
	}

	current := req.DriveCurrent
	usedNominal := false
	if current <= 0 {
		current = req.Module.SuggestCurrent()
		usedNominal = true
	}
	if current <= 0 {
		return nil, ErrInvalidCurrent
	}

	issues := []string{}

	var moduleV float64
	if req.OverrideVoltage > 0 {
		moduleV = req.OverrideVoltage
	} else {
		v, err := req.Module.ForwardVoltage(current)
		if err != nil {
			var nv *device.NoVoltageDataError
			if !errors.As(err, &nv) {
				return nil, fmt.Errorf("estimating module voltage: %v", err)
			}
			issues = append(issues, fmt.Sprintf("No IV data available to estimate voltage for %s", nv.Module))
			moduleV = 0
		} else {
			moduleV = v
		}
	}

	outputPower := moduleV * current

	efficiency := 0.0
	if moduleV > 0 {
		efficiency = req.Driver.EstimateEfficiency(moduleV, outputPower, req.InputVoltage)
	}
	inputPower := 0.0
	if efficiency > 0 {
		inputPower = outputPower / efficiency
	}

	if limit, ok := req.Module.MaxModuleCurrent(); ok && current > limit {
		issues = append(issues, fmt.Sprintf("Module current %.3f A exceeds limit %.3f A", current, limit))
	}
	if perLEDLimit, ok := req.Module.MaxCurrentPerLED(); ok {
		perLED := current / float64(req.Module.ParallelCount())
		if perLED > perLEDLimit {
			issues = append(issues, fmt.Sprintf("Per-LED current %.3f A exceeds limit %.3f A", perLED, perLEDLimit))
		}
	}
	issues = append(issues, req.Driver.CheckLimits(req.InputVoltage, moduleV, outputPower)...)

	status := StatusOK
	if len(issues) > 0 {
		status = StatusFail
	}

	return &Result{
		Status:              status,
		Driver:              req.Driver.Label(),
		Module:              req.Module.Label(),
		InputVoltage:        req.InputVoltage,
		ModuleCurrent:       current,
		ModuleVoltage:       moduleV,
		DriverOutputVoltage: moduleV,
		OutputPower:         outputPower,
		Efficiency:          efficiency,
		InputPower:          inputPower,
		Issues:              issues,
		UsedNominalCurrent:  usedNominal,
	}, nil
}
