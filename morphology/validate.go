package morphology

import "fmt"

// checkFlat verifies that flat names are unique, that every non-root node
// names a parent at a smaller position and that the root names no node as
// its parent.
func checkFlat(flat []Node) error {
	seen := make(map[string]struct{}, len(flat))
	for i, n := range flat {
		if i > 0 {
			if _, ok := seen[n.ParentName]; !ok {
				return fmt.Errorf("node %d (%s): %w: %q", i, n.Name, ErrDanglingParent, n.ParentName)
			}
		}
		if _, dup := seen[n.Name]; dup {
			return fmt.Errorf("node %d: %w: %q", i, ErrDuplicateName, n.Name)
		}
		seen[n.Name] = struct{}{}
	}
	if _, ok := seen[flat[0].ParentName]; ok {
		return fmt.Errorf("root %s: %w: names %q as parent", flat[0].Name, ErrDanglingParent, flat[0].ParentName)
	}
	return nil
}

// Validate checks the structural invariants of an expanded sequence: names
// are unique, the first node is the root and every other node's Parent is an
// earlier index whose name matches ParentName.
func Validate(expanded []Node) error {
	if len(expanded) == 0 {
		return ErrNoNodes
	}
	if expanded[0].Parent != -1 {
		return fmt.Errorf("root %s: %w: has parent %d", expanded[0].Name, ErrDanglingParent, expanded[0].Parent)
	}

	seen := make(map[string]struct{}, len(expanded))
	for i, n := range expanded {
		if _, dup := seen[n.Name]; dup {
			return fmt.Errorf("node %d: %w: %q", i, ErrDuplicateName, n.Name)
		}
		seen[n.Name] = struct{}{}
		if i == 0 {
			continue
		}
		if n.Parent < 0 || n.Parent >= i || expanded[n.Parent].Name != n.ParentName {
			return fmt.Errorf("node %d (%s): %w: parent %d %q", i, n.Name, ErrDanglingParent, n.Parent, n.ParentName)
		}
	}
	return nil
}

// Children returns the indices of the direct children of node i.
func Children(expanded []Node, i int) []int {
	var out []int
	for j := i + 1; j < len(expanded); j++ {
		if expanded[j].Parent == i {
			out = append(out, j)
		}
	}
	return out
}

// Depth returns the number of links on the longest root-to-leaf path.
// It relies on parents preceding children.
func Depth(expanded []Node) int {
	if len(expanded) == 0 {
		return 0
	}
	depth := make([]int, len(expanded))
	maxDepth := 0
	for i, n := range expanded {
		depth[i] = 1
		if i > 0 && n.Parent >= 0 && n.Parent < i {
			depth[i] = depth[n.Parent] + 1
		}
		maxDepth = max(maxDepth, depth[i])
	}
	return maxDepth
}

// MaxFanOut returns the largest number of direct children of any node.
func MaxFanOut(expanded []Node) int {
	counts := make([]int, len(expanded))
	best := 0
	for _, n := range expanded {
		if n.Parent >= 0 && n.Parent < len(counts) {
			counts[n.Parent]++
			best = max(best, counts[n.Parent])
		}
	}
	return best
}
