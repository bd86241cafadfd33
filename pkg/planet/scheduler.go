package planet

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/Faultbox/planetgen/pkg/math"
	"github.com/Faultbox/planetgen/pkg/noise"
)

// DefaultMaxResolution bounds the grid size a scheduler agrees to build.
// A face at this resolution holds about 100M vertices.
const DefaultMaxResolution = 4096

// ErrSchedulerClosed is returned by Update after Close.
var ErrSchedulerClosed = errors.New("scheduler closed")

// BuildFunc builds one face mesh. BuildFaceMesh is the default.
type BuildFunc func(params Params, up math.Vec3, field noise.Field) (*Mesh, error)

// Scheduler rebuilds dirty planets once per update cycle. Face builds run on
// a worker pool; Update never waits for them.
type Scheduler struct {
	workers       int
	maxResolution uint32
	log           *zap.Logger
	build         BuildFunc
	pool          pond.Pool

	mu       sync.Mutex
	planets  []*Planet
	failures []error

	// lifecycle is held for reading across a dispatch cycle and for writing
	// while closing, so no face build is submitted to a stopped pool.
	lifecycle sync.RWMutex
	closed    bool

	inFlight sync.WaitGroup
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithWorkers sets the worker pool size. Defaults to the number of CPUs.
func WithWorkers(n int) Option {
	return func(s *Scheduler) {
		s.workers = n
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMaxResolution sets the largest resolution the scheduler builds; larger
// requests fail with ErrBuildFailed. Zero disables the limit.
func WithMaxResolution(n uint32) Option {
	return func(s *Scheduler) {
		s.maxResolution = n
	}
}

// WithBuildFunc replaces the face builder.
func WithBuildFunc(fn BuildFunc) Option {
	return func(s *Scheduler) {
		if fn != nil {
			s.build = fn
		}
	}
}

// NewScheduler creates a scheduler and starts its worker pool.
func NewScheduler(opts ...Option) *Scheduler {
	s := &Scheduler{
		workers:       runtime.NumCPU(),
		maxResolution: DefaultMaxResolution,
		log:           zap.NewNop(),
		build:         BuildFaceMesh,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.workers < 1 {
		s.workers = 1
	}
	s.pool = pond.NewPool(s.workers)
	return s
}

// Add registers a planet. Adding the same planet twice is a no-op.
func (s *Scheduler) Add(p *Planet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !slices.Contains(s.planets, p) {
		s.planets = append(s.planets, p)
	}
}

// Remove unregisters a planet. Builds already in flight still finish.
func (s *Scheduler) Remove(p *Planet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.planets = slices.DeleteFunc(s.planets, func(q *Planet) bool { return q == p })
}

// Planets returns the registered planets.
func (s *Scheduler) Planets() []*Planet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.planets)
}

// Update runs one cycle: every dirty planet whose current version is not yet
// being built is validated and dispatched. The returned error joins config
// rejections from this cycle and build failures reported since the last call.
func (s *Scheduler) Update(ctx context.Context) error {
	s.lifecycle.RLock()
	defer s.lifecycle.RUnlock()
	if s.closed {
		return ErrSchedulerClosed
	}

	s.mu.Lock()
	planets := slices.Clone(s.planets)
	errs := s.failures
	s.failures = nil
	s.mu.Unlock()

	for _, p := range planets {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		j, ok := p.pending()
		if !ok {
			continue
		}

		// Invalid configs are re-reported every cycle until fixed.
		if err := j.params.Validate(); err != nil {
			s.log.Warn("planet config rejected",
				zap.Uint64("version", j.version),
				zap.Error(err))
			errs = append(errs, err)
			continue
		}

		if s.maxResolution > 0 && j.params.Resolution > s.maxResolution {
			p.markDispatched(j.version, false)
			err := buildFailed(AllFaces, j.version, "resolution %d exceeds limit %d",
				j.params.Resolution, s.maxResolution)
			s.log.Error("planet build refused", zap.Error(err))
			errs = append(errs, err)
			continue
		}

		p.markDispatched(j.version, true)
		s.dispatch(p, j)
	}

	return errors.Join(errs...)
}

// dispatch submits the six face builds of one snapshot. The last face to
// finish settles the whole build.
func (s *Scheduler) dispatch(p *Planet, j job) {
	s.log.Debug("dispatching planet build",
		zap.Uint64("version", j.version),
		zap.Uint32("resolution", j.params.Resolution),
		zap.Uint32("seed", j.params.Seed))

	field := noise.NewSimplex(j.params.Seed)

	var (
		meshes    [FaceCount]*Mesh
		errs      [FaceCount]error
		remaining atomic.Int32
	)
	remaining.Store(FaceCount)
	s.inFlight.Add(1)

	for _, face := range Faces {
		s.pool.Submit(func() {
			meshes[face], errs[face] = s.buildFace(j, face, field)
			if remaining.Add(-1) == 0 {
				s.settle(p, j, &meshes, errs)
			}
		})
	}
}

func (s *Scheduler) buildFace(j job, face Face, field noise.Field) (m *Mesh, err error) {
	defer func() {
		if r := recover(); r != nil {
			m, err = nil, buildFailed(face, j.version, "panic: %v", r)
		}
	}()

	m, err = s.build(j.params, face.Orientation(), field)
	if err != nil {
		if !errors.Is(err, ErrBuildFailed) {
			err = fmt.Errorf("%w: %w", ErrBuildFailed, err)
		}
		var be *BuildError
		if !errors.As(err, &be) {
			err = &BuildError{Face: face, Version: j.version, Err: err}
		}
		return nil, err
	}
	return m, nil
}

// settle applies or discards a finished build.
func (s *Scheduler) settle(p *Planet, j job, meshes *[FaceCount]*Mesh, errs [FaceCount]error) {
	defer s.inFlight.Done()

	err := errors.Join(errs[:]...)
	if err != nil {
		meshes = nil
	}

	if !p.finish(j, meshes) {
		s.log.Debug("discarding stale planet build",
			zap.Uint64("version", j.version),
			zap.Bool("failed", err != nil))
		return
	}

	if err != nil {
		s.log.Error("planet build failed, keeping previous meshes",
			zap.Uint64("version", j.version),
			zap.Error(err))
		s.mu.Lock()
		s.failures = append(s.failures, err)
		s.mu.Unlock()
		return
	}

	s.log.Debug("planet rebuilt",
		zap.Uint64("version", j.version),
		zap.Int("triangles", p.Surface().TriangleCount()))
}

// Wait blocks until every dispatched build has settled and returns the build
// failures reported since the last Update. It must not run concurrently with
// Update.
func (s *Scheduler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.inFlight.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.mu.Lock()
	errs := s.failures
	s.failures = nil
	s.mu.Unlock()
	return errors.Join(errs...)
}

// Flush runs one cycle and waits for its builds: a synchronous Update.
func (s *Scheduler) Flush(ctx context.Context) error {
	err := s.Update(ctx)
	if errors.Is(err, ErrSchedulerClosed) {
		return err
	}
	return errors.Join(err, s.Wait(ctx))
}

// Close stops the worker pool after in-flight builds finish. It waits for
// a concurrent Update to finish dispatching first.
func (s *Scheduler) Close() {
	s.lifecycle.Lock()
	if s.closed {
		s.lifecycle.Unlock()
		return
	}
	s.closed = true
	s.lifecycle.Unlock()

	s.pool.StopAndWait()
}
