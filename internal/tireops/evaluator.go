package tireops

import "math"

// Verdict is the derived health classification of a reading.
type Verdict int

const (
	Good Verdict = iota
	Check
	Bad
)

func (v Verdict) String() string {
	switch v {
	case Good:
		return "GOOD"
	case Check:
		return "CHECK"
	case Bad:
		return "BAD"
	default:
		return "BAD"
	}
}

// Thresholds holds the per-metric health bands. Values are caller-supplied
// configuration: deployed fleets disagree on the measurement scale, so the
// engine never hard-codes a threshold set.
type Thresholds struct {
	PressureGoodMin float64
	PressureWarnMin float64
	TreadGoodMin    float64
	TreadWarnMin    float64
}

// Evaluate classifies a (pressure, treadDepth) pair. Each metric is banded
// independently (value >= goodMin -> GOOD, >= warnMin -> CHECK, else BAD)
// and the two classes combine worst-of. NaN or otherwise invalid numbers
// classify as BAD: an unknown reading is never reported healthy. Evaluate
// never panics for any numeric input.
func Evaluate(pressure, treadDepth float64, th Thresholds) Verdict {
	p := classify(pressure, th.PressureGoodMin, th.PressureWarnMin)
	d := classify(treadDepth, th.TreadGoodMin, th.TreadWarnMin)
	if p > d {
		return p
	}
	return d
}

func classify(value, goodMin, warnMin float64) Verdict {
	if math.IsNaN(value) {
		return Bad
	}
	switch {
	case value >= goodMin:
		return Good
	case value >= warnMin:
		return Check
	default:
		return Bad
	}
}
