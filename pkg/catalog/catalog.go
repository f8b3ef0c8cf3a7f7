// Package catalog loads driver and LED module definitions from JSON or
// YAML catalog files. Records are tolerant of vendor naming: most info
// fields accept several alias keys, and curve samples go through lenient
// coercion so a stray string or null in a datasheet export does not
// reject the whole file.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/luxworks/ledsim/pkg/curve"
	"github.com/luxworks/ledsim/pkg/device"
)

// Format identifies a catalog file encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

type driverInfo struct {
	Model *string `json:"model" yaml:"model"`
	Brand *string `json:"brand" yaml:"brand"`
	Name  *string `json:"name" yaml:"name"`

	MinInputVolts *float64 `json:"min_input_volts" yaml:"min_input_volts"`
	VinMin        *float64 `json:"vin_min" yaml:"vin_min"`
	MaxInputVolts *float64 `json:"max_input_volts" yaml:"max_input_volts"`
	VinMax        *float64 `json:"vin_max" yaml:"vin_max"`
	MinVoltage    *float64 `json:"min_voltage" yaml:"min_voltage"`
	VoutMin       *float64 `json:"vout_min" yaml:"vout_min"`
	MaxVoltage    *float64 `json:"max_voltage" yaml:"max_voltage"`
	VoutMax       *float64 `json:"vout_max" yaml:"vout_max"`
	MaxPower      *float64 `json:"max_power" yaml:"max_power"`
	PoutMax       *float64 `json:"pout_max" yaml:"pout_max"`

	EfficiencyBlendWeight *float64 `json:"efficiency_blend_weight" yaml:"efficiency_blend_weight"`
}

type driverFile struct {
	Info   driverInfo `json:"info" yaml:"info"`
	Curves struct {
		EfficiencyVsLoad        *loadCurveTable  `json:"efficiency_vs_load" yaml:"efficiency_vs_load"`
		EfficiencyVsOutputPower *powerCurveTable `json:"efficiency_vs_output_power" yaml:"efficiency_vs_output_power"`
		EfficiencyVsVout120     *voutCurveTable  `json:"efficiency_vs_vout_120" yaml:"efficiency_vs_vout_120"`
		EfficiencyVsVout277     *voutCurveTable  `json:"efficiency_vs_vout_277" yaml:"efficiency_vs_vout_277"`
	} `json:"curves" yaml:"curves"`
}

type moduleInfo struct {
	Model    *string `json:"model" yaml:"model"`
	Name     *string `json:"name" yaml:"name"`
	LEDModel *string `json:"led_model" yaml:"led_model"`

	SeriesCount   int `json:"series_count" yaml:"series_count"`
	ParallelCount int `json:"parallel_count" yaml:"parallel_count"`

	TypicalVoltage  *float64 `json:"typical_voltage" yaml:"typical_voltage"`
	TypicalVoltageV *float64 `json:"typical_voltage_v" yaml:"typical_voltage_v"`
	TypVoltage      *float64 `json:"typ_voltage" yaml:"typ_voltage"`

	TypicalVoltageTotal *float64 `json:"typical_voltage_total" yaml:"typical_voltage_total"`
	ModuleVoltage       *float64 `json:"module_voltage" yaml:"module_voltage"`
	VModule             *float64 `json:"v_module" yaml:"v_module"`

	TypicalVoltagePerLED *float64 `json:"typical_voltage_per_led" yaml:"typical_voltage_per_led"`
	VF                   *float64 `json:"v_f" yaml:"v_f"`
	VFAlt                *float64 `json:"vf" yaml:"vf"`

	MaxCurrent           *float64 `json:"max_current" yaml:"max_current"`
	MaxCurrentPerLED     *float64 `json:"max_current_per_led" yaml:"max_current_per_led"`
	NominalCurrent       *float64 `json:"nominal_current" yaml:"nominal_current"`
	NominalCurrentPerLED *float64 `json:"nominal_current_per_led" yaml:"nominal_current_per_led"`
}

type moduleFile struct {
	Info   moduleInfo `json:"info" yaml:"info"`
	Curves struct {
		IVCurveLED *ivCurveTable `json:"iv_curve_led" yaml:"iv_curve_led"`
	} `json:"curves" yaml:"curves"`
}

// Curve tables keep their sample arrays untyped; coercion happens in
// curve.FromSamples.

type loadCurveTable struct {
	LoadPercent []any `json:"load_percent" yaml:"load_percent"`
	Efficiency  []any `json:"efficiency" yaml:"efficiency"`
}

func (t *loadCurveTable) curve() curve.Curve {
	if t == nil {
		return curve.Curve{}
	}
	return curve.FromSamples(t.LoadPercent, t.Efficiency)
}

type powerCurveTable struct {
	PowerW     []any `json:"power_w" yaml:"power_w"`
	Efficiency []any `json:"efficiency" yaml:"efficiency"`
}

func (t *powerCurveTable) curve() curve.Curve {
	if t == nil {
		return curve.Curve{}
	}
	return curve.FromSamples(t.PowerW, t.Efficiency)
}

type voutCurveTable struct {
	VoutV      []any `json:"vout_v" yaml:"vout_v"`
	Efficiency []any `json:"efficiency" yaml:"efficiency"`
}

func (t *voutCurveTable) curve() curve.Curve {
	if t == nil {
		return curve.Curve{}
	}
	return curve.FromSamples(t.VoutV, t.Efficiency)
}

type ivCurveTable struct {
	CurrentAmps []any `json:"current_amps" yaml:"current_amps"`
	VoltsPerLED []any `json:"volts_per_led" yaml:"volts_per_led"`
}

func (t *ivCurveTable) curve() curve.Curve {
	if t == nil {
		return curve.Curve{}
	}
	return curve.FromSamples(t.CurrentAmps, t.VoltsPerLED)
}

// LoadDriver reads a driver definition, picking the decoder from the file
// extension. The file stem is the fallback label.
func LoadDriver(path string) (*device.Driver, error) {
	format, err := formatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading driver catalog: %v", err)
	}
	drv, err := ParseDriver(data, format, stem(path))
	if err != nil {
		return nil, fmt.Errorf("driver catalog %s: %v", path, err)
	}
	return drv, nil
}

// LoadModule reads an LED module definition, picking the decoder from the
// file extension. The file stem is the fallback label.
func LoadModule(path string) (*device.Module, error) {
	format, err := formatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading module catalog: %v", err)
	}
	mod, err := ParseModule(data, format, stem(path))
	if err != nil {
		return nil, fmt.Errorf("module catalog %s: %v", path, err)
	}
	return mod, nil
}

// ParseDriver builds a Driver from raw catalog bytes. fallbackLabel names
// the driver when the record carries no label key.
func ParseDriver(data []byte, format Format, fallbackLabel string) (*device.Driver, error) {
	var rec driverFile
	if err := unmarshal(data, format, &rec); err != nil {
		return nil, fmt.Errorf("decoding driver record: %v", err)
	}

	info := rec.Info
	blend := 1.0
	if info.EfficiencyBlendWeight != nil && *info.EfficiencyBlendWeight != 0 {
		blend = *info.EfficiencyBlendWeight
	}
	return device.NewDriver(device.DriverParams{
		Label:       firstLabel(fallbackLabel, info.Model, info.Brand, info.Name),
		MinInputV:   firstNonzero(info.MinInputVolts, info.VinMin),
		MaxInputV:   firstNonzero(info.MaxInputVolts, info.VinMax),
		MinV:        firstNonzero(info.MinVoltage, info.VoutMin),
		MaxV:        firstNonzero(info.MaxVoltage, info.VoutMax),
		MaxPower:    firstNonzero(info.MaxPower, info.PoutMax),
		BlendWeight: blend,
		LoadCurve:   rec.Curves.EfficiencyVsLoad.curve(),
		PowerCurve:  rec.Curves.EfficiencyVsOutputPower.curve(),
		Vout120:     rec.Curves.EfficiencyVsVout120.curve(),
		Vout277:     rec.Curves.EfficiencyVsVout277.curve(),
	}), nil
}

// ParseModule builds a Module from raw catalog bytes. fallbackLabel names
// the module when the record carries no label key.
func ParseModule(data []byte, format Format, fallbackLabel string) (*device.Module, error) {
	var rec moduleFile
	if err := unmarshal(data, format, &rec); err != nil {
		return nil, fmt.Errorf("decoding module record: %v", err)
	}

	info := rec.Info
	return device.NewModule(device.ModuleParams{
		Label:                firstLabel(fallbackLabel, info.Model, info.Name, info.LEDModel),
		SeriesCount:          info.SeriesCount,
		ParallelCount:        info.ParallelCount,
		TypicalVoltage:       firstOptional(info.TypicalVoltage, info.TypicalVoltageV, info.TypVoltage),
		TypicalVoltagePerLED: firstOptional(info.TypicalVoltagePerLED, info.VF, info.VFAlt),
		TypicalVoltageTotal:  firstOptional(info.TypicalVoltageTotal, info.ModuleVoltage, info.VModule),
		MaxCurrent:           info.MaxCurrent,
		MaxCurrentPerLED:     info.MaxCurrentPerLED,
		NominalCurrent:       info.NominalCurrent,
		NominalCurrentPerLED: info.NominalCurrentPerLED,
		IVCurve:              rec.Curves.IVCurveLED.curve(),
	}), nil
}

func unmarshal(data []byte, format Format, v any) error {
	switch format {
	case FormatJSON:
		return json.Unmarshal(data, v)
	case FormatYAML:
		return yaml.Unmarshal(data, v)
	}
	return fmt.Errorf("unknown catalog format %d", format)
}

func formatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return 0, fmt.Errorf("unsupported catalog format %q", filepath.Ext(path))
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// firstLabel returns the first non-empty candidate, else the fallback.
func firstLabel(fallback string, candidates ...*string) string {
	for _, c := range candidates {
		if c != nil && *c != "" {
			return *c
		}
	}
	return fallback
}

// firstNonzero walks an alias chain: absent and zero values fall through.
func firstNonzero(vals ...*float64) float64 {
	for _, v := range vals {
		if v != nil && *v != 0 {
			return *v
		}
	}
	return 0
}

// firstOptional is firstNonzero for ratings that stay unset rather than
// defaulting to zero.
func firstOptional(vals ...*float64) *float64 {
	for _, v := range vals {
		if v != nil && *v != 0 {
			return v
		}
	}
	return nil
}
