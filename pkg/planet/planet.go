package planet

import (
	"sync"
	"sync/atomic"
)

// Planet owns a set of generation parameters and the six face meshes built
// from them. Writes to the parameters mark the planet dirty; a Scheduler
// rebuilds dirty planets and publishes the result through Surface.
type Planet struct {
	mu         sync.Mutex
	params     Params
	version    uint64 // bumped on every parameter write
	dirty      bool
	dispatched uint64 // version of the last dispatched build, 0 if none
	inFlight   int    // dispatched builds not yet finished
	tint       [4]float32

	surface atomic.Pointer[Surface]
}

// New creates a dirty planet. The first scheduler pass builds its faces.
func New(params Params) (*Planet, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Planet{
		params:  params,
		version: 1,
		dirty:   true,
		tint:    [4]float32{1, 1, 1, 1},
	}, nil
}

// Params returns a copy of the current parameters.
func (p *Planet) Params() Params {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.params
}

// SetParams replaces the parameters. The write always lands and invalidates
// every face; the returned error reports parameters the scheduler will refuse
// to build.
func (p *Planet) SetParams(params Params) error {
	p.mu.Lock()
	p.params = params
	p.touch()
	p.mu.Unlock()
	return params.Validate()
}

// Update applies fn to the parameters in place, with the same semantics as
// SetParams.
// A panicking fn leaves the planet unlocked and its version unchanged.
func (p *Planet) Update(fn func(*Params)) error {
	return p.apply(fn).Validate()
}

func (p *Planet) apply(fn func(*Params)) Params {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(&p.params)
	p.touch()
	return p.params
}

// touch must be called with mu held.
func (p *Planet) touch() {
	p.version++
	p.dirty = true
}

// Version returns the parameter version. It only grows.
func (p *Planet) Version() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.version
}

// Dirty reports whether the published surface lags behind the parameters.
func (p *Planet) Dirty() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dirty
}

// Tint returns the pass-through colour handed to renderers.
func (p *Planet) Tint() [4]float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tint
}

// SetTint sets the pass-through colour. It does not affect geometry and does
// not mark the planet dirty.
func (p *Planet) SetTint(rgba [4]float32) {
	p.mu.Lock()
	p.tint = rgba
	p.mu.Unlock()
}

// Surface returns the last complete build, or nil before the first one.
func (p *Planet) Surface() *Surface {
	return p.surface.Load()
}

// Mesh returns the current mesh of face f, or nil.
func (p *Planet) Mesh(f Face) *Mesh {
	s := p.surface.Load()
	if s == nil {
		return nil
	}
	return s.Mesh(f)
}

// job is a parameter snapshot taken for one dispatched build.
type job struct {
	params  Params
	version uint64
}

// pending snapshots a dirty planet whose current version has not been
// dispatched yet.
func (p *Planet) pending() (job, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.dirty || p.dispatched == p.version {
		return job{}, false
	}
	return job{params: p.params, version: p.version}, true
}

// markDispatched records that version v is being built (or was refused) so it
// is not dispatched twice.
func (p *Planet) markDispatched(v uint64, started bool) {
	p.mu.Lock()
	p.dispatched = v
	if started {
		p.inFlight++
	}
	p.mu.Unlock()
}

// finish ends an in-flight build and reports whether j is still the current
// version. A current, non-nil result is published as the new surface and
// the planet becomes clean; anything else leaves the planet untouched.
func (p *Planet) finish(j job, meshes *[FaceCount]*Mesh) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inFlight--
	if j.version != p.version {
		return false
	}
	if meshes != nil {
		p.surface.Store(&Surface{
			Version: j.version,
			Params:  j.params,
			Meshes:  *meshes,
		})
		p.dirty = false
	}
	return true
}

// InFlight returns the number of builds currently running for the planet.
func (p *Planet) InFlight() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inFlight
}
