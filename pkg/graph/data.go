package graph

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/facet/pkg/geom"
	"github.com/chazu/facet/pkg/primitive"
)

// ---------------------------------------------------------------------------
// Geometry
// ---------------------------------------------------------------------------

// PrimitiveData holds a parametric primitive.
type PrimitiveData struct {
	Shape primitive.Discretizable
}

func (PrimitiveData) nodeData() {}

// PolygonData holds a planar polygon with holes.
type PolygonData struct {
	Polygon geom.Polygon
}

func (PolygonData) nodeData() {}

// ---------------------------------------------------------------------------
// Transform
// ---------------------------------------------------------------------------

// TransformData represents a rigid placement applied to its child.
// Created by the (place ...) Lisp form.
type TransformData struct {
	Translation *v3.Vec
	Rotation    *v3.Vec // Euler angles in degrees
}

func (TransformData) nodeData() {}

// Matrix returns the placement as a matrix: rotate about X, then Y, then Z,
// then translate.
func (td TransformData) Matrix() sdf.M44 {
	m := sdf.Identity3d()
	if r := td.Rotation; r != nil {
		rad := func(deg float64) float64 { return deg * math.Pi / 180 }
		m = sdf.RotateZ(rad(r.Z)).Mul(sdf.RotateY(rad(r.Y))).Mul(sdf.RotateX(rad(r.X)))
	}
	if t := td.Translation; t != nil {
		m = sdf.Translate3d(*t).Mul(m)
	}
	return m
}

// ---------------------------------------------------------------------------
// Operations
// ---------------------------------------------------------------------------

// ClipData clips its first child (a polygon) against its second (a convex
// polygon or planar primitive). The kernel decides the tolerance.
type ClipData struct{}

func (ClipData) nodeData() {}

// DiscretizeData meshes its only child.
type DiscretizeData struct {
	Sizes []int // samples per parameter axis; missing axes use the kernel default
}

func (DiscretizeData) nodeData() {}
