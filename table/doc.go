// Package table reads node tables and writes edge lists.
//
// ReadNodes is the record filter: it reads a CSV node table, drops rows whose
// filter attribute is missing, and returns the remaining rows as a
// model.NodeSet in input order. Missing means empty or one of the null
// markers pandas recognizes (NA, NaN, NULL, None, ...).
//
// EdgeWriter renders edges either as a three-column CSV table
// (SourceNode,TargetNode,Distance) or as JSON Lines.
package table
