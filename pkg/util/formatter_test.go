package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatValueFactor(t *testing.T) {
	assert.Equal(t, "1.400 A", FormatValueFactor(1.4, "A"))
	assert.Equal(t, "700.000 mA", FormatValueFactor(0.7, "A"))
	assert.Equal(t, "150.000 uA", FormatValueFactor(150e-6, "A"))
	assert.Equal(t, "-2.500 mA", FormatValueFactor(-2.5e-3, "A"))
	assert.Equal(t, "36.500 V", FormatValueFactor(36.5, "V"))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "80.2%", FormatPercent(0.802156))
	assert.Equal(t, "100.0%", FormatPercent(1))
	assert.Equal(t, "0.0%", FormatPercent(0))
}
