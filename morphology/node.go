// Package morphology turns decoded genes into a skeleton of links.
//
// Flatten maps one gene dict to one Node, resolving each node's parent to an
// earlier position. Expand then walks that flat list from the root and emits
// Recurrence copies of every child, producing a pre-order sequence in which
// every node's parent appears before it. Nodes refer to their parents by name
// and by index into the sequence, never by pointer.
package morphology

import "errors"

var (
	// ErrNoNodes is returned when there is nothing to flatten or expand.
	ErrNoNodes = errors.New("no skeleton nodes")
	// ErrMissingChannel is returned when a gene dict lacks a required channel.
	ErrMissingChannel = errors.New("gene dict missing channel")
	// ErrDanglingParent is returned when a node refers to a parent that does not precede it.
	ErrDanglingParent = errors.New("parent does not precede node")
	// ErrDuplicateName is returned when two expanded nodes share a name.
	ErrDuplicateName = errors.New("duplicate node name")
	// ErrRecurrence is returned when a link-recurrence value is not a usable copy count.
	ErrRecurrence = errors.New("link-recurrence out of range")
)

// Node is one body segment and the joint attaching it to its parent.
type Node struct {
	Name       string
	ParentName string // empty for the root
	Gene       int    // position of the source gene in the flat list
	Parent     int    // index of the parent in the expanded sequence, -1 for the root

	Recurrence   int // number of copies emitted for this node during expansion
	SiblingIndex int // 1-based position among the copies of this node

	Shape  float64
	Length float64
	Radius float64
	Mass   float64

	JointType float64
	JointAxis float64
	OriginRPY [3]float64
	OriginXYZ [3]float64

	Waveform  float64
	Amplitude float64
	Frequency float64
}

// IsRoot reports whether the node has no parent.
func (n Node) IsRoot() bool {
	return n.ParentName == ""
}
