// Package graph defines the detector graph produced by evaluating a detector
// description. The graph is a DAG of shapes, booleans and placements whose
// roots are the named root volumes, kept in declaration order.
package graph
