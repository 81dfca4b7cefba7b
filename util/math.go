package util

import (
	"math/bits"
)

const (
	Eps float32 = 1e-5
)

func Abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// Cmp returns 0 when a and b are within Eps of each other.
func Cmp(a, b float32) int {
	d := a - b
	if Abs(d) <= Eps {
		return 0
	}
	if d > 0 {
		return 1
	}
	return -1
}

func NextPowerOfTwo(v int) int {
	if v <= 1 {
		return 1
	}
	return 1 << (64 - bits.LeadingZeros64(uint64(v-1)))
}

// NextCap grows by power of two below slow, then in steps of slow.
func NextCap(required, current, slow int) (int, bool) {
	if required <= current {
		return current, false
	}
	if current < slow {
		return NextPowerOfTwo(required), true
	}
	for current < required {
		current += slow
	}
	return current, true
}

// GenMask ors level bits together, used by the logger level filters.
func GenMask(items ...int64) int64 {
	v := int64(0)
	for _, val := range items {
		v |= val
	}
	return v
}

func TestMask(item, mask int64) bool {
	return (item & mask) > 0
}

type Vec2 struct {
	X float32
	Y float32
}

func Vec2Add(a, b Vec2) Vec2 {
	return Vec2{X: a.X + b.X, Y: a.Y + b.Y}
}

func Vec2Mul(a Vec2, v float32) Vec2 {
	return Vec2{X: a.X * v, Y: a.Y * v}
}
