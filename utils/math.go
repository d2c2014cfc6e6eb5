package utils

import "math"

// Round2 rounds a monetary amount to the smallest currency unit (cents).
// All wallet and ledger amounts pass through this before being persisted.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
