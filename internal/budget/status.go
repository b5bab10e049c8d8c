// Package budget holds the budget domain's pure logic. Persistence and
// transport live in the subpackages.
package budget

import "math"

// Budget status levels
const (
	StatusSafe     = "SAFE"
	StatusWarning  = "WARNING"
	StatusExceeded = "EXCEEDED"
)

// Status derives the threshold status from spent and limit amounts. The
// spent/limit ratio is rounded to two decimal places before thresholding:
// 100% and over is EXCEEDED, 80% and over is WARNING, anything below is SAFE.
//
// A zero limit would divide by zero, so it is handled explicitly: any
// spending against a zero budget is EXCEEDED, no spending is SAFE.
func Status(spent, limit float64) string {
	if limit == 0 {
		if spent > 0 {
			return StatusExceeded
		}
		return StatusSafe
	}

	percentage := math.Round(spent / limit * 100)
	switch {
	case percentage >= 100:
		return StatusExceeded
	case percentage >= 80:
		return StatusWarning
	default:
		return StatusSafe
	}
}
