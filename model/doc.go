// Package model defines core types used throughout geoknn.
//
// # Data Types
//
//   - Coordinate: longitude/latitude pair in decimal degrees
//   - Node: externally identified point on the globe
//   - NodeSet: ordered nodes; positions are only stable within one build
//   - Edge: directed, weighted link from a node to one of its nearest neighbors
package model
