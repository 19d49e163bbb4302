package primitive

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/facet/pkg/topology"
)

// Sphere is centered on the origin. Axis 0 is the polar angle from +z,
// axis 1 the azimuth.
//
// The azimuth wraps, but it is sampled over the closed interval [0, 2π]:
// the seam column appears twice in the grid and is not stitched. The two
// poles close the open ends of the polar axis.
type Sphere struct {
	Radius float64
}

func (s Sphere) ParamDim() int     { return 2 }
func (s Sphere) Periodic() [2]bool { return [2]bool{false, true} }

func (s Sphere) Validate() error {
	return positive("sphere", s.Radius)
}

func (s Sphere) Point(u, v float64) (v3.Vec, error) {
	if err := checkDomain(u, v); err != nil {
		return v3.Vec{}, err
	}
	st, ct := math.Sincos(math.Pi * u)
	sp, cp := math.Sincos(2 * math.Pi * v)
	return v3.Vec{X: s.Radius * st * cp, Y: s.Radius * st * sp, Z: s.Radius * ct}, nil
}

func (s Sphere) Params(dims [2]int) (us, vs []float64) {
	return open(dims[0]), closed(dims[1])
}

func (s Sphere) Topology() topology.Descriptor {
	return topology.Descriptor{PoleAxis: 0, Poles: topology.PoleStart | topology.PoleEnd}
}

// Poles returns the north pole then the south pole.
func (s Sphere) Poles() []v3.Vec {
	return []v3.Vec{{Z: s.Radius}, {Z: -s.Radius}}
}
