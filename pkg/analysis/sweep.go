package analysis

import "fmt"

// SweepParams bounds an inclusive drive-current sweep in amps.
type SweepParams struct {
	Start float64
	Stop  float64
	Step  float64
}

// CurrentSweep estimates the operating point at each current from Start
// to Stop inclusive, stepping by Step. The request's DriveCurrent is
// ignored; every other field applies to all steps. The sweep stops at the
// first request that cannot be evaluated.
func CurrentSweep(req Request, sweep SweepParams) ([]*Result, error) {
	if sweep.Start <= 0 {
		return nil, fmt.Errorf("sweep start must be positive, got %g", sweep.Start)
	}
	if sweep.Step <= 0 {
		return nil, fmt.Errorf("sweep step must be positive, got %g", sweep.Step)
	}
	if sweep.Stop < sweep.Start {
		return nil, fmt.Errorf("sweep stop %g is below start %g", sweep.Stop, sweep.Start)
	}

	var results []*Result
	for current := sweep.Start; current <= sweep.Stop; current += sweep.Step {
		stepReq := req
		stepReq.DriveCurrent = current

		res, err := OperatingPoint(stepReq)
		if err != nil {
			return nil, fmt.Errorf("sweep failed at %g A: %v", current, err)
		}
		results = append(results, res)
	}
	return results, nil
}
