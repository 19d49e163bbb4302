// Package primitive provides the parametric shapes the kernels discretize.
//
// Every primitive is a surface over the normalized parameter square
// [0,1]². Axis 0 and axis 1 are chosen so that the parameter-space
// derivative cross product (d/du × d/dv) points out of the solid; a grid
// built with counter-clockwise cells therefore faces outward. Planar
// primitives lie in z = 0 and face +z.
package primitive

import (
	"fmt"
	"iter"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/facet/pkg/geom"
	"github.com/chazu/facet/pkg/topology"
)

// Geometry is a shape with a parametric surface.
type Geometry interface {
	// ParamDim returns the number of parameter axes.
	ParamDim() int
	// Periodic reports which parameter axes wrap around.
	Periodic() [2]bool
	// Point evaluates the surface at (u, v) in [0,1]². Parameters outside
	// the domain fail with geom.ErrDomain.
	Point(u, v float64) (v3.Vec, error)
	// Validate fails with geom.ErrPrecondition for degenerate dimensions.
	Validate() error
}

// Discretizable is a Geometry that knows how its sample grid is laid out.
type Discretizable interface {
	Geometry
	// Params returns the normalized sample positions along each axis for
	// a dims[0] x dims[1] grid.
	Params(dims [2]int) (us, vs []float64)
	// Topology describes how the sample grid is connected.
	Topology() topology.Descriptor
	// Poles returns the pole points in descriptor order, start pole first.
	Poles() []v3.Vec
}

// ParamDim returns the number of parameter axes of g.
func ParamDim(g Geometry) int {
	return g.ParamDim()
}

// IsParametrized reports whether v can be sampled on a grid.
func IsParametrized(v any) bool {
	_, ok := v.(Discretizable)
	return ok
}

// IsPeriodic reports which parameter axes of g wrap around.
func IsPeriodic(g Geometry) [2]bool {
	return g.Periodic()
}

// Boundary returns the planar outline of g as a counter-clockwise ring.
// Only planar primitives have one.
func Boundary(g Geometry) (geom.Ring, error) {
	b, ok := g.(interface{ Boundary() geom.Ring })
	if !ok {
		return nil, fmt.Errorf("primitive: %T has no planar boundary: %w", g, geom.ErrPrecondition)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return b.Boundary(), nil
}

// Sample yields the surface points of g on a dims[0] x dims[1] grid in
// row-major order: the point for indices (i, j) is the (i*dims[1]+j)-th
// value. Pole points are not included. The sequence may be ranged over any
// number of times and always yields the same points. The first failure is
// yielded with a zero point and ends the sequence.
func Sample(g Discretizable, dims [2]int) iter.Seq2[v3.Vec, error] {
	return func(yield func(v3.Vec, error) bool) {
		if err := g.Topology().Validate(dims); err != nil {
			yield(v3.Vec{}, err)
			return
		}
		us, vs := g.Params(dims)
		for _, u := range us {
			for _, v := range vs {
				p, err := g.Point(u, v)
				if err != nil {
					yield(v3.Vec{}, err)
					return
				}
				if !yield(p, nil) {
					return
				}
			}
		}
	}
}

// checkDomain fails unless both parameters lie in [0,1].
func checkDomain(u, v float64) error {
	if !(u >= 0 && u <= 1) || !(v >= 0 && v <= 1) {
		return fmt.Errorf("primitive: (%g, %g): %w", u, v, geom.ErrDomain)
	}
	return nil
}

func positive(name string, vals ...float64) error {
	for _, x := range vals {
		if !(x > 0) || math.IsInf(x, 0) {
			return fmt.Errorf("primitive: %s dimension %g must be positive: %w", name, x, geom.ErrPrecondition)
		}
	}
	return nil
}

// Sample positions along one axis of n samples.

// closed spans [0,1] with both ends sampled.
func closed(n int) []float64 {
	s := make([]float64, n)
	for i := range n {
		s[i] = float64(i) / float64(n-1)
	}
	return s
}

// open spans (0,1); both ends belong to poles.
func open(n int) []float64 {
	s := make([]float64, n)
	for i := range n {
		s[i] = float64(i+1) / float64(n+1)
	}
	return s
}

// periodic spans [0,1); 1 aliases 0.
func periodic(n int) []float64 {
	s := make([]float64, n)
	for i := range n {
		s[i] = float64(i) / float64(n)
	}
	return s
}

// openEnd spans [0,1); 1 belongs to a pole.
func openEnd(n int) []float64 {
	return periodic(n)
}

// openStart spans (0,1]; 0 belongs to a pole.
func openStart(n int) []float64 {
	s := make([]float64, n)
	for i := range n {
		s[i] = float64(i+1) / float64(n)
	}
	return s
}
