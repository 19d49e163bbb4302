package topology

// Element is a triangle or quad referencing points by index.
type Element struct {
	V [4]int
	N int // 3 or 4
}

// Tri returns a triangle element.
func Tri(a, b, c int) Element {
	return Element{V: [4]int{a, b, c, -1}, N: 3}
}

// Quad returns a quad element.
func Quad(a, b, c, d int) Element {
	return Element{V: [4]int{a, b, c, d}, N: 4}
}

// Indices returns the element's point indices in winding order.
func (e Element) Indices() []int {
	return e.V[:e.N]
}

// IsTriangle reports whether e has three corners.
func (e Element) IsTriangle() bool {
	return e.N == 3
}

// Build returns the connectivity of a dims[0] x dims[1] grid under d.
//
// Quads come first, one per cell in row-major order, with corners
// (i,j) (i+1,j) (i+1,j+1) (i,j+1): counter-clockwise when axis 0 points
// right and axis 1 up. Pole fans follow, start pole before end pole, each
// wound counter-clockwise in the same parameter plane so the whole mesh
// shares one orientation. The result depends only on dims and d.
func Build(dims [2]int, d Descriptor) ([]Element, error) {
	if err := d.Validate(dims); err != nil {
		return nil, err
	}
	quads, tris := d.Counts(dims)
	elems := make([]Element, 0, quads+tris)

	n0, n1 := dims[0], dims[1]
	c0, c1 := d.cells(dims, 0), d.cells(dims, 1)
	for i := range c0 {
		i1 := (i + 1) % n0
		for j := range c1 {
			j1 := (j + 1) % n1
			elems = append(elems, Quad(
				Index(dims, i, j),
				Index(dims, i1, j),
				Index(dims, i1, j1),
				Index(dims, i, j1),
			))
		}
	}

	pole := n0 * n1
	if d.Poles&PoleStart != 0 {
		elems = appendFan(elems, dims, d, 0, pole, true)
		pole++
	}
	if d.Poles&PoleEnd != 0 {
		elems = appendFan(elems, dims, d, dims[d.PoleAxis]-1, pole, false)
	}
	return elems, nil
}

// appendFan closes the grid row at index `at` of the pole axis onto pole.
func appendFan(elems []Element, dims [2]int, d Descriptor, at, pole int, start bool) []Element {
	ra := d.RingAxis()
	n := dims[ra]
	sample := func(k int) int {
		if d.PoleAxis == 0 {
			return Index(dims, at, k)
		}
		return Index(dims, k, at)
	}

	// A pole before axis 0 sees the ring running upward, so (pole, k, k+1)
	// turns counter-clockwise; the other three placements mirror it.
	forward := start == (d.PoleAxis == 0)
	for k := range d.cells(dims, ra) {
		a, b := sample(k), sample((k+1)%n)
		if forward {
			elems = append(elems, Tri(pole, a, b))
		} else {
			elems = append(elems, Tri(pole, b, a))
		}
	}
	return elems
}
