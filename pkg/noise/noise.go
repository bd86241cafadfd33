// Package noise provides seeded scalar noise fields over 3D points.
package noise

import (
	"github.com/ojrac/opensimplex-go"

	"github.com/Faultbox/planetgen/pkg/math"
)

// Field is a deterministic scalar field. Sample must be pure and safe to call
// from multiple goroutines.
type Field interface {
	Sample(p math.Vec3) float32
}

// Simplex is an OpenSimplex field. Values lie roughly in [-1, 1].
type Simplex struct {
	seed  uint32
	noise opensimplex.Noise
}

// NewSimplex creates a simplex field for the given seed.
func NewSimplex(seed uint32) *Simplex {
	return &Simplex{
		seed:  seed,
		noise: opensimplex.New(int64(seed)),
	}
}

// Seed returns the seed the field was built with.
func (s *Simplex) Seed() uint32 {
	return s.seed
}

// Sample evaluates the field at p. The evaluation runs in float64 and is
// narrowed afterwards.
func (s *Simplex) Sample(p math.Vec3) float32 {
	x, y, z := p.Float64()
	return float32(s.noise.Eval3(x, y, z))
}

// Flat is a constant field. Useful for tests and for planets without relief.
type Flat float32

// Sample returns the constant.
func (f Flat) Sample(math.Vec3) float32 {
	return float32(f)
}
