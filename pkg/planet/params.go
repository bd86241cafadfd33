package planet

import (
	"fmt"

	"github.com/Faultbox/planetgen/pkg/math"
)

// MinResolution is the smallest grid that still forms a triangle.
const MinResolution = 2

// Params holds everything that shapes a planet's surface. Any change to it
// invalidates all six faces.
type Params struct {
	Seed          uint32
	Resolution    uint32 // grid samples per face edge
	Strength      float32
	Layers        uint32 // noise octaves
	BaseRoughness float32
	Roughness     float32
	Persistence   float32
	Center        math.Vec3
}

// DefaultParams returns the parameters a freshly spawned planet starts with.
func DefaultParams(seed, resolution uint32) Params {
	return Params{
		Seed:          seed,
		Resolution:    resolution,
		Strength:      1.0,
		Layers:        1,
		BaseRoughness: 1.0,
		Roughness:     2.0,
		Persistence:   0.5,
	}
}

// Validate checks the structural bounds the builder depends on.
func (p Params) Validate() error {
	if p.Resolution < MinResolution {
		return fmt.Errorf("%w: resolution %d, need at least %d", ErrInvalidConfig, p.Resolution, MinResolution)
	}
	return nil
}

// GridVertices returns the number of grid samples on one face.
func (p Params) GridVertices() uint64 {
	r := uint64(p.Resolution)
	return r * r
}

// Triangles returns the number of triangles on one face.
func (p Params) Triangles() uint64 {
	if p.Resolution < MinResolution {
		return 0
	}
	r := uint64(p.Resolution) - 1
	return 2 * r * r
}
