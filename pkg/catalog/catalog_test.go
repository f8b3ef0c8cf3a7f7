package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDriverJSON(t *testing.T) {
	drv, err := LoadDriver(filepath.Join("testdata", "drv-alias.json"))
	require.NoError(t, err)

	// model wins over brand.
	assert.Equal(t, "NP-40D120", drv.Label())
	assert.InDelta(t, 40.0, drv.MaxPower(), 1e-12)

	issues := drv.CheckLimits(80, 20, 45)
	require.Len(t, issues, 3)
	assert.Equal(t, "Input voltage 80.0 V is below driver min 90.0 V", issues[0])
	assert.Equal(t, "Load voltage 20.00 V is below driver regulation range (24.00 V min)", issues[1])
	assert.Equal(t, "Output power 45.00 W exceeds driver limit 40.00 W", issues[2])

	issues = drv.CheckLimits(480, 52, 10)
	require.Len(t, issues, 2)
	assert.Equal(t, "Input voltage 480.0 V is above driver max 305.0 V", issues[0])
	assert.Equal(t, "Load voltage 52.00 V exceeds driver max 48.00 V", issues[1])

	// 20 W out at 36 V on low line: power curve 0.88 leads with weight 2
	// over vout 0.88 and load 0.87.
	assert.InDelta(t, 0.8783333, drv.EstimateEfficiency(36, 20, 120), 1e-6)
	// High line switches to the 277 V curve (0.90 at 36 V).
	assert.InDelta(t, 0.8816666, drv.EstimateEfficiency(36, 20, 277), 1e-6)
}

func TestLoadModuleYAML(t *testing.T) {
	mod, err := LoadModule(filepath.Join("testdata", "mod-linear24.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "LM-24S2P", mod.Label())
	assert.Equal(t, 24, mod.SeriesCount())
	assert.Equal(t, 2, mod.ParallelCount())

	maxA, ok := mod.MaxModuleCurrent()
	require.True(t, ok)
	assert.InDelta(t, 1.4, maxA, 1e-12)
	assert.InDelta(t, 1.05, mod.SuggestCurrent(), 1e-12)

	// IV samples win over the v_f rating.
	v, err := mod.ForwardVoltage(1.4) // 0.7 A per string
	require.NoError(t, err)
	assert.InDelta(t, 73.2, v, 1e-9)

	v, err = mod.ForwardVoltage(0.7) // 0.35 A per string
	require.NoError(t, err)
	assert.InDelta(t, 68.4, v, 1e-9)
}

func TestLoadModuleStemLabel(t *testing.T) {
	mod, err := LoadModule(filepath.Join("testdata", "mod-basic.json"))
	require.NoError(t, err)

	assert.Equal(t, "mod-basic", mod.Label())

	v, err := mod.ForwardVoltage(0.7)
	require.NoError(t, err)
	assert.InDelta(t, 36.0, v, 1e-12)

	_, ok := mod.MaxModuleCurrent()
	assert.False(t, ok)
	assert.InDelta(t, 0.5, mod.SuggestCurrent(), 1e-12)
}

func TestLoadUnsupportedExtension(t *testing.T) {
	_, err := LoadDriver("catalog.txt")
	assert.ErrorContains(t, err, "unsupported catalog format")

	_, err = LoadModule("catalog.csv")
	assert.ErrorContains(t, err, "unsupported catalog format")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadDriver(filepath.Join("testdata", "no-such-driver.json"))
	assert.ErrorContains(t, err, "reading driver catalog")

	_, err = LoadModule(filepath.Join("testdata", "no-such-module.yaml"))
	assert.ErrorContains(t, err, "reading module catalog")
}

func TestParseDriverEmptyRecord(t *testing.T) {
	drv, err := ParseDriver([]byte(`{}`), FormatJSON, "unnamed")
	require.NoError(t, err)

	assert.Equal(t, "unnamed", drv.Label())
	assert.Empty(t, drv.CheckLimits(480, 500, 10000))
	assert.InDelta(t, 0.85, drv.EstimateEfficiency(36, 20, 120), 1e-12)
}

func TestParseDriverZeroAliasFallthrough(t *testing.T) {
	raw := `{
		"info": {"min_input_volts": 0, "vin_min": 90, "max_power": 0, "pout_max": 40}
	}`
	drv, err := ParseDriver([]byte(raw), FormatJSON, "d")
	require.NoError(t, err)

	issues := drv.CheckLimits(80, 0, 45)
	require.Len(t, issues, 2)
	assert.Contains(t, issues[0], "below driver min 90.0 V")
	assert.Contains(t, issues[1], "exceeds driver limit 40.00 W")
}

func TestParseDriverLenientCurve(t *testing.T) {
	raw := `{
		"curves": {
			"efficiency_vs_output_power": {
				"power_w": [0, 10, "20", 30, null, 40],
				"efficiency": [0.78, 0.85, 0.88, "0.90", 0.91, "n/a"]
			}
		}
	}`
	drv, err := ParseDriver([]byte(raw), FormatJSON, "d")
	require.NoError(t, err)

	// The null and "n/a" pairs are dropped, so the curve ends at (30, 0.90).
	assert.InDelta(t, 0.78, drv.EstimateEfficiency(0, -5, 120), 1e-9)
	assert.InDelta(t, 0.90, drv.EstimateEfficiency(0, 500, 120), 1e-9)
	assert.InDelta(t, 0.88, drv.EstimateEfficiency(0, 20, 120), 1e-9)
}

func TestParseDriverBlendWeightZeroDefaults(t *testing.T) {
	raw := `{
		"info": {"max_power": 50, "efficiency_blend_weight": 0},
		"curves": {
			"efficiency_vs_output_power": {"power_w": [0], "efficiency": [0.90]},
			"efficiency_vs_vout_120": {"vout_v": [0], "efficiency": [0.80]},
			"efficiency_vs_load": {"load_percent": [0], "efficiency": [0.70]}
		}
	}`
	drv, err := ParseDriver([]byte(raw), FormatJSON, "d")
	require.NoError(t, err)

	// A zero blend weight in the record means unset and defaults to 1:
	// (0.90 + mean(0.80, 0.70)) / 2, not the plain mean 0.80.
	assert.InDelta(t, 0.825, drv.EstimateEfficiency(36, 25, 120), 1e-9)
}

func TestParseDriverYAML(t *testing.T) {
	raw := `
info:
  name: inline-drv
curves:
  efficiency_vs_output_power:
    power_w: [0, "25", 50]
    efficiency: [0.80, 0.86, "0.92"]
`
	drv, err := ParseDriver([]byte(raw), FormatYAML, "d")
	require.NoError(t, err)

	assert.Equal(t, "inline-drv", drv.Label())
	assert.InDelta(t, 0.86, drv.EstimateEfficiency(0, 25, 120), 1e-9)
	assert.InDelta(t, 0.92, drv.EstimateEfficiency(0, 500, 120), 1e-9)
}

func TestParseModuleVoltageAliases(t *testing.T) {
	// A zero on the first alias falls through to the next key.
	raw := `{
		"info": {
			"led_model": "alias-mod",
			"series_count": 2,
			"typical_voltage": 0,
			"typical_voltage_v": 3.1
		}
	}`
	mod, err := ParseModule([]byte(raw), FormatJSON, "m")
	require.NoError(t, err)

	assert.Equal(t, "alias-mod", mod.Label())
	v, err := mod.ForwardVoltage(0.7)
	require.NoError(t, err)
	assert.InDelta(t, 6.2, v, 1e-9)
}

func TestParseModuleTotalVoltageAlias(t *testing.T) {
	raw := `{
		"info": {"name": "panel", "series_count": 12, "module_voltage": 34.5}
	}`
	mod, err := ParseModule([]byte(raw), FormatJSON, "m")
	require.NoError(t, err)

	v, err := mod.ForwardVoltage(0.7)
	require.NoError(t, err)
	assert.InDelta(t, 34.5, v, 1e-9)
}

func TestParseModuleZeroMaxCurrentKept(t *testing.T) {
	// An explicit zero rating is not an alias fallthrough: it stays a
	// (zero) limit and cannot seed a current suggestion.
	raw := `{"info": {"max_current": 0}}`
	mod, err := ParseModule([]byte(raw), FormatJSON, "m")
	require.NoError(t, err)

	maxA, ok := mod.MaxModuleCurrent()
	require.True(t, ok)
	assert.Zero(t, maxA)
	assert.InDelta(t, 0.5, mod.SuggestCurrent(), 1e-12)
}

func TestParseModuleRejectsStringRating(t *testing.T) {
	raw := `{"info": {"max_current": "1.4"}}`
	_, err := ParseModule([]byte(raw), FormatJSON, "m")
	assert.ErrorContains(t, err, "decoding module record")
}

func TestParseModuleCountsDefault(t *testing.T) {
	raw := `{"info": {"v_f": 2.9}}`
	mod, err := ParseModule([]byte(raw), FormatJSON, "m")
	require.NoError(t, err)

	assert.Equal(t, 1, mod.SeriesCount())
	assert.Equal(t, 1, mod.ParallelCount())
}
