// Package graph defines the design graph types for facet.
// The design graph is an immutable DAG of geometry, transform, clip and
// discretize nodes that describes which regions to clip and which
// primitives to mesh.
package graph
