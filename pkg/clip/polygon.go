package clip

import (
	"github.com/chazu/facet/pkg/geom"
	"github.com/chazu/facet/pkg/logging"
)

// ClipPolygon clips every ring of p against boundary and reassembles the
// survivors in their original order. Rings clipped away are skipped, and a
// ring whose clip hits an inconsistency is logged and dropped without
// failing the others. The result is empty when no ring survives.
//
// A convex boundary cannot turn a hole into an outer ring or merge rings,
// so the surviving rings keep their roles. That holds only for simple
// input rings and is not checked.
func ClipPolygon(p geom.Polygon, boundary geom.Ring, tol float64) geom.Polygon {
	log := logging.Logger()
	boundary = boundary.CCW()

	var out geom.Polygon
	for i, r := range p.Rings() {
		clipped, err := ClipRing(r, boundary, tol)
		if err != nil {
			log.Warn("clip: dropping ring", "ring", i, "err", err)
			continue
		}
		if clipped == nil {
			log.Debug("clip: ring clipped away", "ring", i, "points", len(r))
			continue
		}
		out.AppendRing(clipped)
	}
	return out
}
