package primitive

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/facet/pkg/geom"
	"github.com/chazu/facet/pkg/topology"
)

// Transformed places a primitive with a rigid transform. Only rotations
// and translations are accepted, so the outward orientation of the inner
// primitive survives.
type Transformed struct {
	Inner Discretizable
	M     sdf.M44
}

// Place wraps g with m. Placing an already transformed primitive composes
// the two transforms instead of nesting.
func Place(g Discretizable, m sdf.M44) Transformed {
	if t, ok := g.(Transformed); ok {
		return Transformed{Inner: t.Inner, M: m.Mul(t.M)}
	}
	return Transformed{Inner: g, M: m}
}

func (t Transformed) ParamDim() int                         { return t.Inner.ParamDim() }
func (t Transformed) Periodic() [2]bool                     { return t.Inner.Periodic() }
func (t Transformed) Params(dims [2]int) (us, vs []float64) { return t.Inner.Params(dims) }
func (t Transformed) Topology() topology.Descriptor         { return t.Inner.Topology() }

func (t Transformed) Validate() error {
	if t.Inner == nil {
		return fmt.Errorf("primitive: transform of nothing: %w", geom.ErrPrecondition)
	}
	if !isRigid(t.M) {
		return fmt.Errorf("primitive: transform is not a rotation and translation: %w", geom.ErrPrecondition)
	}
	return t.Inner.Validate()
}

func (t Transformed) Point(u, v float64) (v3.Vec, error) {
	p, err := t.Inner.Point(u, v)
	if err != nil {
		return v3.Vec{}, err
	}
	return t.M.MulPosition(p), nil
}

func (t Transformed) Poles() []v3.Vec {
	poles := t.Inner.Poles()
	out := make([]v3.Vec, len(poles))
	for i, p := range poles {
		out[i] = t.M.MulPosition(p)
	}
	return out
}

const rigidTolerance = 1e-9

// isRigid reports whether m maps the unit axes to a right-handed
// orthonormal frame.
func isRigid(m sdf.M44) bool {
	o := m.MulPosition(v3.Vec{})
	x := m.MulPosition(v3.Vec{X: 1}).Sub(o)
	y := m.MulPosition(v3.Vec{Y: 1}).Sub(o)
	z := m.MulPosition(v3.Vec{Z: 1}).Sub(o)
	near := func(a, b float64) bool { return math.Abs(a-b) <= rigidTolerance }
	return near(x.Dot(x), 1) && near(y.Dot(y), 1) && near(z.Dot(z), 1) &&
		near(x.Dot(y), 0) && near(y.Dot(z), 0) && near(z.Dot(x), 0) &&
		near(x.Cross(y).Dot(z), 1)
}
