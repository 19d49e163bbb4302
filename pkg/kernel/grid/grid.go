// Package grid implements the exact parametric kernel: primitives are
// sampled on a regular grid over their parameter domain and stitched with
// the connectivity their topology descriptor prescribes.
package grid

import (
	"errors"
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/facet/pkg/clip"
	"github.com/chazu/facet/pkg/geom"
	"github.com/chazu/facet/pkg/kernel"
	"github.com/chazu/facet/pkg/logging"
	"github.com/chazu/facet/pkg/primitive"
	"github.com/chazu/facet/pkg/topology"
)

// DefaultResolution is the sample count used for an axis whose size is
// not given.
const DefaultResolution = 16

// Compile-time interface check.
var _ kernel.Kernel = (*Kernel)(nil)

// Option configures a Kernel.
type Option func(*options)

type options struct {
	tol        float64
	resolution int
	check      bool
	checkTol   float64
	surfaceOf  func(primitive.Geometry) (sdf.SDF3, error)
}

func defaultOptions() options {
	return options{
		tol:        geom.DefaultTolerance,
		resolution: DefaultResolution,
		surfaceOf:  primitive.Surface,
	}
}

// WithTolerance sets the clipping tolerance.
func WithTolerance(tol float64) Option {
	return func(o *options) {
		o.tol = tol
	}
}

// WithResolution sets the sample count for axes Discretize is not given a
// size for.
func WithResolution(n int) Option {
	return func(o *options) {
		o.resolution = n
	}
}

// WithSurfaceCheck makes Discretize verify every point against the
// primitive's signed distance field: a point farther than tol from the
// surface (or outside a planar region by more than tol) fails the call
// with geom.ErrInconsistent.
func WithSurfaceCheck(tol float64) Option {
	return func(o *options) {
		o.check = true
		o.checkTol = tol
	}
}

// Kernel is the exact grid kernel. The zero value is not usable; call New.
type Kernel struct {
	opts options
}

// New returns a grid kernel.
func New(opts ...Option) *Kernel {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Kernel{opts: o}
}

// Clip returns the part of p inside region.
func (k *Kernel) Clip(p geom.Polygon, region clip.Region) (geom.Polygon, error) {
	return clip.Clip(p, region, clip.WithTolerance(k.opts.tol))
}

// Discretize samples g on a grid of sizes[0] x sizes[1] points, adds its
// pole points and connects them. Missing sizes take the kernel's default
// resolution. Points are laid out row-major, followed by the poles in
// descriptor order; elements are the interior quads followed by the pole
// fans.
func (k *Kernel) Discretize(g primitive.Geometry, sizes ...int) (*kernel.Mesh, error) {
	if g == nil {
		return nil, fmt.Errorf("grid: nil geometry: %w", geom.ErrPrecondition)
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("grid: %T: %w", g, err)
	}
	d, ok := g.(primitive.Discretizable)
	if !ok {
		return nil, fmt.Errorf("grid: %T has no sample grid: %w", g, geom.ErrPrecondition)
	}
	dims, err := k.resolve(g, sizes)
	if err != nil {
		return nil, err
	}
	desc := d.Topology()
	if err := desc.Validate(dims); err != nil {
		return nil, fmt.Errorf("grid: %T: %w", g, err)
	}

	points := make([]v3.Vec, 0, desc.NumPoints(dims))
	for p, err := range primitive.Sample(d, dims) {
		if err != nil {
			return nil, fmt.Errorf("grid: sampling %T: %w", g, err)
		}
		points = append(points, p)
	}
	poles := d.Poles()
	if len(poles) != desc.NumPoles() {
		return nil, fmt.Errorf("grid: %T has %d poles, topology %s needs %d: %w",
			g, len(poles), desc, desc.NumPoles(), geom.ErrInconsistent)
	}
	points = append(points, poles...)

	if k.opts.check {
		if err := k.checkSurface(g, points); err != nil {
			return nil, err
		}
	}

	elems, err := topology.Build(dims, desc)
	if err != nil {
		return nil, fmt.Errorf("grid: %T: %w", g, err)
	}
	m, err := kernel.Assemble(points, elems)
	if err != nil {
		return nil, fmt.Errorf("grid: %T: %w", g, err)
	}

	logging.Logger().Debug("grid: discretized",
		"primitive", fmt.Sprintf("%T", g),
		"dims", dims,
		"topology", desc.String(),
		"points", m.VertexCount(),
		"elements", m.ElementCount())
	return m, nil
}

// resolve fills in missing sizes with the default resolution.
func (k *Kernel) resolve(g primitive.Geometry, sizes []int) ([2]int, error) {
	n := primitive.ParamDim(g)
	if len(sizes) > n {
		return [2]int{}, fmt.Errorf("grid: %d sizes for %d parameter axes: %w", len(sizes), n, geom.ErrInvalidResolution)
	}
	dims := [2]int{k.opts.resolution, k.opts.resolution}
	copy(dims[:], sizes)
	return dims, nil
}

// checkSurface verifies points against the signed distance field of g.
func (k *Kernel) checkSurface(g primitive.Geometry, points []v3.Vec) error {
	tol := k.opts.checkTol
	s, err := k.opts.surfaceOf(g)
	if err == nil {
		for i, p := range points {
			if d := s.Evaluate(p); math.Abs(d) > tol {
				return fmt.Errorf("grid: point %d %v is %g off the surface of %T: %w", i, p, d, g, geom.ErrInconsistent)
			}
		}
		return nil
	}
	if !errors.Is(err, geom.ErrPrecondition) {
		return fmt.Errorf("grid: surface of %T: %w", g, err)
	}

	r, err := primitive.Region(g)
	if err != nil {
		return fmt.Errorf("grid: no surface to check %T against: %w", g, err)
	}
	for i, p := range points {
		if d := r.Evaluate(v2.Vec{X: p.X, Y: p.Y}); d > tol || math.Abs(p.Z) > tol {
			return fmt.Errorf("grid: point %d %v lies outside %T: %w", i, p, g, geom.ErrInconsistent)
		}
	}
	return nil
}
