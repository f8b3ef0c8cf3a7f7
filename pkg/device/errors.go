package device

import "fmt"

// NoVoltageDataError reports a module with no usable voltage source: no
// IV curve samples and no typical-voltage rating. Callers with a measured
// or datasheet figure can retry with an override voltage instead.
type NoVoltageDataError struct {
	Module string
}

func (e *NoVoltageDataError) Error() string {
	return fmt.Sprintf("no IV data available to estimate voltage for %s", e.Module)
}
