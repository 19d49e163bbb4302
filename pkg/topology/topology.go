// Package topology turns the index space of a regular sample grid into
// mesh connectivity. It never looks at coordinates: interior cells become
// quads, pole points close degenerate grid edges with triangle fans, and
// periodic axes wrap their last cell back to index 0.
//
// Grid sample (i, j) on axes 0 and 1 has linear index i*n1 + j. Pole
// points, when present, follow the n0*n1 grid samples: the start pole
// first, then the end pole.
package topology

import (
	"fmt"
	"strings"

	"github.com/chazu/facet/pkg/geom"
)

// PoleSet selects which ends of the pole axis collapse to a single point.
type PoleSet uint8

const (
	PoleStart PoleSet = 1 << iota // before index 0 of the pole axis
	PoleEnd                       // after index n-1 of the pole axis
)

// Descriptor classifies how a primitive's sample grid is connected.
type Descriptor struct {
	// Periodic marks axes whose last sample connects back to the first.
	Periodic [2]bool
	// PoleAxis is the axis whose ends the poles close. Ignored when
	// Poles is zero.
	PoleAxis int
	// Poles selects the closed ends of PoleAxis.
	Poles PoleSet
}

// NumPoles returns how many pole points the descriptor adds.
func (d Descriptor) NumPoles() int {
	n := 0
	if d.Poles&PoleStart != 0 {
		n++
	}
	if d.Poles&PoleEnd != 0 {
		n++
	}
	return n
}

// RingAxis returns the axis the pole fans run along.
func (d Descriptor) RingAxis() int {
	return 1 - d.PoleAxis
}

func (d Descriptor) String() string {
	var parts []string
	switch {
	case d.Periodic[0] && d.Periodic[1]:
		parts = append(parts, "periodic(0,1)")
	case d.Periodic[0]:
		parts = append(parts, "periodic(0)")
	case d.Periodic[1]:
		parts = append(parts, "periodic(1)")
	default:
		parts = append(parts, "grid")
	}
	if d.Poles != 0 {
		parts = append(parts, fmt.Sprintf("poles(axis %d, %d)", d.PoleAxis, d.NumPoles()))
	}
	return strings.Join(parts, "+")
}

// Validate checks dims against the descriptor. Every axis needs at least 2
// samples and a periodic axis at least 3, since two samples would wrap onto
// the same edge twice. Poles must close a non-periodic axis.
func (d Descriptor) Validate(dims [2]int) error {
	for axis, n := range dims {
		if n < 2 {
			return fmt.Errorf("topology: axis %d has %d samples, need at least 2: %w", axis, n, geom.ErrInvalidResolution)
		}
		if d.Periodic[axis] && n < 3 {
			return fmt.Errorf("topology: periodic axis %d has %d samples, need at least 3: %w", axis, n, geom.ErrInvalidResolution)
		}
	}
	if d.Poles == 0 {
		return nil
	}
	if d.PoleAxis != 0 && d.PoleAxis != 1 {
		return fmt.Errorf("topology: pole axis %d: %w", d.PoleAxis, geom.ErrPrecondition)
	}
	if d.Periodic[d.PoleAxis] {
		return fmt.Errorf("topology: poles on periodic axis %d: %w", d.PoleAxis, geom.ErrPrecondition)
	}
	return nil
}

// cells returns the number of cells along an axis.
func (d Descriptor) cells(dims [2]int, axis int) int {
	if d.Periodic[axis] {
		return dims[axis]
	}
	return dims[axis] - 1
}

// Counts returns the number of quads and triangles Build emits for dims.
// It assumes dims is valid for d.
func (d Descriptor) Counts(dims [2]int) (quads, tris int) {
	quads = d.cells(dims, 0) * d.cells(dims, 1)
	if d.Poles != 0 {
		tris = d.NumPoles() * d.cells(dims, d.RingAxis())
	}
	return quads, tris
}

// NumPoints returns the grid samples plus pole points.
func (d Descriptor) NumPoints(dims [2]int) int {
	return dims[0]*dims[1] + d.NumPoles()
}

// Index returns the linear index of grid sample (i, j).
func Index(dims [2]int, i, j int) int {
	return i*dims[1] + j
}
