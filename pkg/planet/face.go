package planet

import (
	"fmt"

	"github.com/Faultbox/planetgen/pkg/math"
)

// Face identifies one of the six cube faces projected onto the sphere.
type Face int

// Cube faces, in build order.
const (
	Top Face = iota
	Down
	Left
	Right
	Front
	Back
)

// FaceCount is the number of faces every planet owns.
const FaceCount = 6

// Faces lists every face in the order builds iterate them.
var Faces = [FaceCount]Face{Top, Down, Left, Right, Front, Back}

var faceNames = [FaceCount]string{"top", "down", "left", "right", "front", "back"}

// Orientation returns the outward axis of the face.
func (f Face) Orientation() math.Vec3 {
	switch f {
	case Top:
		return math.UnitY
	case Down:
		return math.Vec3{X: 0, Y: -1, Z: 0}
	case Left:
		return math.Vec3{X: -1, Y: 0, Z: 0}
	case Right:
		return math.UnitX
	case Front:
		return math.UnitZ
	case Back:
		return math.Vec3{X: 0, Y: 0, Z: -1}
	default:
		return math.Zero
	}
}

// Valid reports whether f is one of the six faces.
func (f Face) Valid() bool {
	return f >= Top && f <= Back
}

func (f Face) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Face(%d)", int(f))
	}
	return faceNames[f]
}
