package engine

import (
	"fmt"
	"math"
	"math/big"
	"math/bits"
)

// Vec3 is an integer point in map space
type Vec3 struct {
	X uint32 `json:"x" yaml:"x"`
	Y uint32 `json:"y" yaml:"y"`
	Z uint32 `json:"z" yaml:"z"`
}

// NewVec3 creates a point from its coordinates
func NewVec3(x, y, z uint32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// String implements fmt.Stringer
func (v Vec3) String() string {
	return fmt.Sprintf("(%d,%d,%d)", v.X, v.Y, v.Z)
}

// Distance returns the Euclidean distance between a and b, rounded down
func Distance(a, b Vec3) uint64 {
	hi, lo := distanceSquared(a, b)
	return isqrt128(hi, lo)
}

// Distance returns the floored Euclidean distance to other
func (v Vec3) Distance(other Vec3) uint64 {
	return Distance(v, other)
}

// distanceSquared sums the squared axis deltas as a 128-bit value
func distanceSquared(a, b Vec3) (hi, lo uint64) {
	for _, d := range [3]uint64{
		absDiff(a.X, b.X),
		absDiff(a.Y, b.Y),
		absDiff(a.Z, b.Z),
	} {
		sqHi, sqLo := bits.Mul64(d, d)
		var carry uint64
		lo, carry = bits.Add64(lo, sqLo, 0)
		hi, _ = bits.Add64(hi, sqHi, carry)
	}
	return hi, lo
}

// absDiff returns |a - b| without going negative
func absDiff(a, b uint32) uint64 {
	if a >= b {
		return uint64(a - b)
	}
	return uint64(b - a)
}

// isqrt128 returns floor(sqrt(hi<<64 | lo))
func isqrt128(hi, lo uint64) uint64 {
	if hi == 0 {
		return isqrt64(lo)
	}
	n := new(big.Int).Lsh(new(big.Int).SetUint64(hi), 64)
	n.Or(n, new(big.Int).SetUint64(lo))
	return n.Sqrt(n).Uint64()
}

// isqrt64 returns floor(sqrt(n)), correcting float rounding at the edges
func isqrt64(n uint64) uint64 {
	r := uint64(math.Sqrt(float64(n)))
	for r > 0 && (r > math.MaxUint32 || r*r > n) {
		r--
	}
	for r < math.MaxUint32 && (r+1)*(r+1) <= n {
		r++
	}
	return r
}
