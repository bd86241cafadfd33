package planet

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig reports parameters that cannot produce a mesh.
	ErrInvalidConfig = errors.New("invalid planet config")

	// ErrBuildFailed reports a mesh build that could not complete.
	ErrBuildFailed = errors.New("planet build failed")
)

// AllFaces is used as BuildError.Face when a failure is not tied to one face.
const AllFaces Face = -1

// BuildError describes a failed build of one face (or the whole planet) for a
// given parameter version.
type BuildError struct {
	Face    Face
	Version uint64
	Err     error
}

func (e *BuildError) Error() string {
	if e.Face == AllFaces {
		return fmt.Sprintf("build v%d: %v", e.Version, e.Err)
	}
	return fmt.Sprintf("build v%d face %s: %v", e.Version, e.Face, e.Err)
}

// Unwrap exposes the cause so errors.Is matches ErrBuildFailed.
func (e *BuildError) Unwrap() error {
	return e.Err
}

func buildFailed(face Face, version uint64, format string, args ...any) *BuildError {
	return &BuildError{
		Face:    face,
		Version: version,
		Err:     fmt.Errorf("%w: %s", ErrBuildFailed, fmt.Sprintf(format, args...)),
	}
}
