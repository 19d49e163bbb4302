// Package session runs the whole pipeline for one program: source is
// evaluated into a design graph, the graph is tessellated on a kernel, and
// the result is flattened into JSON-friendly buffers.
package session

import (
	"github.com/chazu/facet/pkg/engine"
	"github.com/chazu/facet/pkg/geom"
	"github.com/chazu/facet/pkg/kernel"
	"github.com/chazu/facet/pkg/kernel/grid"
	"github.com/chazu/facet/pkg/logging"
	"github.com/chazu/facet/pkg/tessellate"
)

// Session holds an engine and the kernel its programs run on.
type Session struct {
	engine *engine.Engine
	kernel kernel.Kernel
}

// RegionData is a clipped polygon as rings of [x, y] points. The first
// ring is the outer boundary.
type RegionData struct {
	Name  string         `json:"name"`
	Rings [][][2]float64 `json:"rings"`
	Area  float64        `json:"area"`
}

// MessageData is a JSON-serializable eval error or warning.
type MessageData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// Result is the full result of running a program.
type Result struct {
	Meshes   []*kernel.Buffers `json:"meshes"`
	Regions  []RegionData      `json:"regions"`
	Errors   []MessageData     `json:"errors"`
	Warnings []MessageData     `json:"warnings"`
}

// New creates a Session on k. A nil kernel means the grid kernel with
// default options.
func New(k kernel.Kernel) *Session {
	if k == nil {
		k = grid.New()
	}
	return &Session{
		engine: engine.NewEngine(),
		kernel: k,
	}
}

// Evaluate takes Lisp source and returns mesh buffers, regions and errors.
// Failures are reported in Result.Errors; Evaluate itself never fails.
func (s *Session) Evaluate(source string) Result {
	result := Result{
		Meshes:   []*kernel.Buffers{},
		Regions:  []RegionData{},
		Errors:   []MessageData{},
		Warnings: []MessageData{},
	}

	// Step 1: Evaluate the Lisp source into a design graph.
	res, err := s.engine.EvaluateResult(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		logging.Logger().Error("session: evaluate failed", "err", err)
		result.Errors = append(result.Errors, MessageData{Message: err.Error()})
		return result
	}

	for _, w := range res.Warnings {
		result.Warnings = append(result.Warnings, MessageData{Line: w.Line, Col: w.Col, Message: w.Message})
	}

	// Step 2: Convert eval errors to the output format.
	if len(res.Errors) > 0 {
		for _, e := range res.Errors {
			result.Errors = append(result.Errors, MessageData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	// Step 3: Run clips and discretizations on the kernel.
	out, err := tessellate.Tessellate(res.Graph, s.kernel)
	if err != nil {
		logging.Logger().Error("session: tessellate failed", "err", err)
		result.Errors = append(result.Errors, MessageData{
			Message: "tessellation failed: " + err.Error(),
		})
		return result
	}

	// Step 4: Flatten meshes and regions.
	for _, m := range out.Meshes {
		result.Meshes = append(result.Meshes, m.Buffers())
	}
	for _, r := range out.Regions {
		result.Regions = append(result.Regions, regionData(r))
	}

	return result
}

func regionData(r tessellate.Region) RegionData {
	rd := RegionData{
		Name:  r.Name,
		Rings: make([][][2]float64, 0, r.Polygon.NumRings()),
		Area:  r.Polygon.Area(),
	}
	for _, ring := range r.Polygon.Rings() {
		rd.Rings = append(rd.Rings, ringData(ring))
	}
	return rd
}

func ringData(r geom.Ring) [][2]float64 {
	pts := make([][2]float64, len(r))
	for i, p := range r {
		pts[i] = [2]float64{p.X, p.Y}
	}
	return pts
}
