package model

import (
	"fmt"
	"math"
	"strconv"
)

// Coordinate is a longitude/latitude pair in decimal degrees.
type Coordinate struct {
	Lon float64
	Lat float64
}

// IsFinite reports whether both components are neither NaN nor infinite.
func (c Coordinate) IsFinite() bool {
	return !math.IsNaN(c.Lon) && !math.IsInf(c.Lon, 0) &&
		!math.IsNaN(c.Lat) && !math.IsInf(c.Lat, 0)
}

// InRange reports whether the coordinate lies within [-180,180] x [-90,90].
func (c Coordinate) InRange() bool {
	return c.Lon >= -180 && c.Lon <= 180 && c.Lat >= -90 && c.Lat <= 90
}

// String returns a string representation of the Coordinate.
func (c Coordinate) String() string {
	return fmt.Sprintf("(%g, %g)", c.Lon, c.Lat)
}

// Node is an externally identified point. Integer identifiers are carried in
// their decimal form so output reproduces the input column.
type Node struct {
	ID    string
	Coord Coordinate
}

// NewNode creates a node from an identifier and lon/lat degrees.
func NewNode(id string, lon, lat float64) Node {
	return Node{ID: id, Coord: Coordinate{Lon: lon, Lat: lat}}
}

// NewIntNode creates a node with an integer identifier.
func NewIntNode(id int64, lon, lat float64) Node {
	return NewNode(strconv.FormatInt(id, 10), lon, lat)
}

// NodeSet is an ordered collection of nodes in input order.
type NodeSet []Node

// Len returns the number of nodes.
func (s NodeSet) Len() int { return len(s) }

// IDs returns the node identifiers in order.
func (s NodeSet) IDs() []string {
	ids := make([]string, len(s))
	for i, n := range s {
		ids[i] = n.ID
	}
	return ids
}

// Edge is a directed link from Source to one of its nearest neighbors.
// Distance is in kilometers.
type Edge struct {
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	Distance float64 `json:"distance"`
}

// String returns a string representation of the Edge.
func (e Edge) String() string {
	return fmt.Sprintf("%s->%s(%g km)", e.Source, e.Target, e.Distance)
}
