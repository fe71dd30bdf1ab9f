// Package safeconv converts between integer types, saturating at the bounds
// of the target type instead of failing.
package safeconv

import (
	"math"

	"fortio.org/safecast"
)

// Uint32 converts v, clamping negatives to 0 and large values to MaxUint32.
func Uint32(v int) uint32 {
	out, err := safecast.Conv[uint32](v)
	if err == nil {
		return out
	}

	if v < 0 {
		return 0
	}

	return math.MaxUint32
}

// Uint64 converts v, clamping negatives to 0.
func Uint64(v int64) uint64 {
	out, err := safecast.Conv[uint64](v)
	if err != nil {
		return 0
	}

	return out
}
