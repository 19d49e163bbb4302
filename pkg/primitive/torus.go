package primitive

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/facet/pkg/geom"
	"github.com/chazu/facet/pkg/topology"
)

// Torus is a ring around z centered on the origin. Axis 0 is the angle
// around the major circle and axis 1 the angle around the tube; both wrap,
// so the mesh has no poles and no duplicated seam.
type Torus struct {
	Major, Minor float64
}

func (t Torus) ParamDim() int     { return 2 }
func (t Torus) Periodic() [2]bool { return [2]bool{true, true} }
func (t Torus) Poles() []v3.Vec   { return nil }

func (t Torus) Validate() error {
	if err := positive("torus", t.Major, t.Minor); err != nil {
		return err
	}
	if t.Minor >= t.Major {
		return fmt.Errorf("primitive: torus tube radius %g not below major radius %g: %w", t.Minor, t.Major, geom.ErrPrecondition)
	}
	return nil
}

func (t Torus) Point(u, v float64) (v3.Vec, error) {
	if err := checkDomain(u, v); err != nil {
		return v3.Vec{}, err
	}
	su, cu := math.Sincos(2 * math.Pi * u)
	sv, cv := math.Sincos(2 * math.Pi * v)
	r := t.Major + t.Minor*cv
	return v3.Vec{X: r * cu, Y: r * su, Z: t.Minor * sv}, nil
}

func (t Torus) Params(dims [2]int) (us, vs []float64) {
	return periodic(dims[0]), periodic(dims[1])
}

func (t Torus) Topology() topology.Descriptor {
	return topology.Descriptor{Periodic: [2]bool{true, true}}
}
