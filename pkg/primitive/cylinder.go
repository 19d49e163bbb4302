package primitive

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/facet/pkg/topology"
)

// Cylinder, Cone and Frustum are solids of revolution about z, centered on
// the origin so they span z in [-Height/2, Height/2]. Axis 0 is the
// azimuth and wraps; axis 1 runs from the base up.

// lateral returns the point at azimuth fraction u and height fraction t on
// the side of a frustum with base radius r0 and top radius r1.
func lateral(r0, r1, h, u, t float64) v3.Vec {
	r := r0 + (r1-r0)*t
	sin, cos := math.Sincos(2 * math.Pi * u)
	return v3.Vec{X: r * cos, Y: r * sin, Z: h * (t - 0.5)}
}

func lateralTopology(start, end bool) topology.Descriptor {
	d := topology.Descriptor{Periodic: [2]bool{true, false}, PoleAxis: 1}
	if start {
		d.Poles |= topology.PoleStart
	}
	if end {
		d.Poles |= topology.PoleEnd
	}
	return d
}

// Cylinder is an open tube, or a closed solid when Capped. Caps are the
// pole fans at the bottom and top of axis 1.
type Cylinder struct {
	Radius, Height float64
	Capped         bool
}

func (c Cylinder) ParamDim() int     { return 2 }
func (c Cylinder) Periodic() [2]bool { return [2]bool{true, false} }

func (c Cylinder) Validate() error {
	return positive("cylinder", c.Radius, c.Height)
}

func (c Cylinder) Point(u, v float64) (v3.Vec, error) {
	if err := checkDomain(u, v); err != nil {
		return v3.Vec{}, err
	}
	return lateral(c.Radius, c.Radius, c.Height, u, v), nil
}

func (c Cylinder) Params(dims [2]int) (us, vs []float64) {
	return periodic(dims[0]), closed(dims[1])
}

func (c Cylinder) Topology() topology.Descriptor {
	return lateralTopology(c.Capped, c.Capped)
}

func (c Cylinder) Poles() []v3.Vec {
	if !c.Capped {
		return nil
	}
	return []v3.Vec{{Z: -c.Height / 2}, {Z: c.Height / 2}}
}

// Cone narrows from a base of Radius to the apex. The apex is always a
// pole; the base is closed by a second pole when Capped.
type Cone struct {
	Radius, Height float64
	Capped         bool
}

func (c Cone) ParamDim() int     { return 2 }
func (c Cone) Periodic() [2]bool { return [2]bool{true, false} }

func (c Cone) Validate() error {
	return positive("cone", c.Radius, c.Height)
}

func (c Cone) Point(u, v float64) (v3.Vec, error) {
	if err := checkDomain(u, v); err != nil {
		return v3.Vec{}, err
	}
	return lateral(c.Radius, 0, c.Height, u, v), nil
}

func (c Cone) Params(dims [2]int) (us, vs []float64) {
	return periodic(dims[0]), openEnd(dims[1])
}

func (c Cone) Topology() topology.Descriptor {
	return lateralTopology(c.Capped, true)
}

// Poles returns the base center when capped, then the apex.
func (c Cone) Poles() []v3.Vec {
	apex := v3.Vec{Z: c.Height / 2}
	if !c.Capped {
		return []v3.Vec{apex}
	}
	return []v3.Vec{{Z: -c.Height / 2}, apex}
}

// Frustum is a truncated cone with base radius R0 and top radius R1.
type Frustum struct {
	R0, R1, Height float64
	Capped         bool
}

func (f Frustum) ParamDim() int     { return 2 }
func (f Frustum) Periodic() [2]bool { return [2]bool{true, false} }

func (f Frustum) Validate() error {
	return positive("frustum", f.R0, f.R1, f.Height)
}

func (f Frustum) Point(u, v float64) (v3.Vec, error) {
	if err := checkDomain(u, v); err != nil {
		return v3.Vec{}, err
	}
	return lateral(f.R0, f.R1, f.Height, u, v), nil
}

func (f Frustum) Params(dims [2]int) (us, vs []float64) {
	return periodic(dims[0]), closed(dims[1])
}

func (f Frustum) Topology() topology.Descriptor {
	return lateralTopology(f.Capped, f.Capped)
}

func (f Frustum) Poles() []v3.Vec {
	if !f.Capped {
		return nil
	}
	return []v3.Vec{{Z: -f.Height / 2}, {Z: f.Height / 2}}
}
