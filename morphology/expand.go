package morphology

import "fmt"

// Expand builds the body plan from a flat node list. The root is emitted
// once and its descendants follow in depth-first pre-order, so every
// non-root node's parent already precedes it.
func Expand(flat []Node) ([]Node, error) {
	if len(flat) == 0 {
		return nil, fmt.Errorf("expand: %w", ErrNoNodes)
	}
	if err := checkFlat(flat); err != nil {
		return nil, fmt.Errorf("expand: %w", err)
	}

	root := flat[0]
	root.Parent = -1
	root.ParentName = ""
	root.SiblingIndex = 1

	out := make([]Node, 1, expandedCapacity(flat))
	out[0] = root
	return ExpandNode(flat[0], root.Name, 0, flat, out), nil
}

// ExpandNode appends the expanded subtree below src to out and returns the
// extended slice. src is a node of the flat list, name and parent identify
// the already-emitted copy of src that the new nodes attach to.
//
// For each flat child of src, in flat order, Recurrence copies are emitted.
// Copy k gets SiblingIndex k and a name unique within out, and its own
// subtree is emitted directly after it. Only nodes positioned after their
// parent in flat are considered children, so the walk always terminates.
func ExpandNode(src Node, name string, parent int, flat []Node, out []Node) []Node {
	start := 0
	for i, n := range flat {
		if n.Name == src.Name {
			start = i + 1
			break
		}
	}
	return expandFrom(src.Name, start, name, parent, flat, out)
}

// expandFrom emits the children of the flat node srcName found at or after
// flat[start].
func expandFrom(srcName string, start int, name string, parent int, flat []Node, out []Node) []Node {
	for j := start; j < len(flat); j++ {
		child := flat[j]
		if child.ParentName != srcName {
			continue
		}
		for k := 1; k <= child.Recurrence; k++ {
			c := child
			c.Name = fmt.Sprintf("%s_%d", child.Name, len(out))
			c.ParentName = name
			c.Parent = parent
			c.SiblingIndex = k

			idx := len(out)
			out = append(out, c)
			out = expandFrom(child.Name, j+1, c.Name, idx, flat, out)
		}
	}
	return out
}

// expandedCapacity estimates the expanded size without walking the tree.
func expandedCapacity(flat []Node) int {
	n := 1
	for _, f := range flat[1:] {
		n += f.Recurrence
	}
	return n
}
