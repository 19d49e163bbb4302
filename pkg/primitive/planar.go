package primitive

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/facet/pkg/geom"
	"github.com/chazu/facet/pkg/topology"
)

// Box is an axis-aligned rectangle in the z = 0 plane. Axis 0 runs along
// x and axis 1 along y.
type Box struct {
	Min, Max v2.Vec
}

// NewBox returns the box with the given corner and size.
func NewBox(origin, size v2.Vec) Box {
	return Box{Min: origin, Max: origin.Add(size)}
}

func (b Box) ParamDim() int     { return 2 }
func (b Box) Periodic() [2]bool { return [2]bool{} }
func (b Box) Size() v2.Vec      { return b.Max.Sub(b.Min) }
func (b Box) Center() v2.Vec    { return b.Min.Add(b.Max).MulScalar(0.5) }
func (b Box) Poles() []v3.Vec   { return nil }

func (b Box) Validate() error {
	s := b.Size()
	return positive("box", s.X, s.Y)
}

func (b Box) Point(u, v float64) (v3.Vec, error) {
	if err := checkDomain(u, v); err != nil {
		return v3.Vec{}, err
	}
	s := b.Size()
	return v3.Vec{X: b.Min.X + u*s.X, Y: b.Min.Y + v*s.Y}, nil
}

func (b Box) Params(dims [2]int) (us, vs []float64) {
	return closed(dims[0]), closed(dims[1])
}

func (b Box) Topology() topology.Descriptor {
	return topology.Descriptor{}
}

// Boundary returns the four corners counter-clockwise from Min.
func (b Box) Boundary() geom.Ring {
	return geom.Ring{
		b.Min,
		{X: b.Max.X, Y: b.Min.Y},
		b.Max,
		{X: b.Min.X, Y: b.Max.Y},
	}
}

// DefaultSegments is the number of edges in a Disk boundary when the disk
// does not set its own.
const DefaultSegments = 64

// Disk is a filled circle in the z = 0 plane. Axis 0 is the radius from
// the center (excluded, it is the pole) to the rim; axis 1 is the angle.
type Disk struct {
	Center v2.Vec
	Radius float64
	// Segments is the edge count of Boundary. Zero means DefaultSegments.
	Segments int
}

func (d Disk) ParamDim() int     { return 2 }
func (d Disk) Periodic() [2]bool { return [2]bool{false, true} }

func (d Disk) Validate() error {
	return positive("disk", d.Radius)
}

func (d Disk) Point(u, v float64) (v3.Vec, error) {
	if err := checkDomain(u, v); err != nil {
		return v3.Vec{}, err
	}
	r := u * d.Radius
	sin, cos := math.Sincos(2 * math.Pi * v)
	return v3.Vec{X: d.Center.X + r*cos, Y: d.Center.Y + r*sin}, nil
}

func (d Disk) Params(dims [2]int) (us, vs []float64) {
	return openStart(dims[0]), periodic(dims[1])
}

func (d Disk) Topology() topology.Descriptor {
	return topology.Descriptor{
		Periodic: [2]bool{false, true},
		PoleAxis: 0,
		Poles:    topology.PoleStart,
	}
}

func (d Disk) Poles() []v3.Vec {
	return []v3.Vec{{X: d.Center.X, Y: d.Center.Y}}
}

// Boundary returns the rim as a regular counter-clockwise polygon
// inscribed in the circle.
func (d Disk) Boundary() geom.Ring {
	n := d.Segments
	if n < 3 {
		n = DefaultSegments
	}
	r := make(geom.Ring, n)
	for i := range n {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / float64(n))
		r[i] = v2.Vec{X: d.Center.X + d.Radius*cos, Y: d.Center.Y + d.Radius*sin}
	}
	return r
}
