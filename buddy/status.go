package buddy

import "fmt"

// Status is the availability state of one tree node.
type Status uint8

const (
	// Empty: the node and its whole subtree are unused.
	Empty Status = iota
	// Separated: the node is split; at least one child is non-Empty.
	Separated
	// Filled: the node is an outstanding allocation.
	Filled
)

func (s Status) String() string {
	switch s {
	case Empty:
		return "E"
	case Separated:
		return "S"
	case Filled:
		return "F"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

// Validate checks the tree invariants over a raw status vector (index 0 unused):
//   - Empty and Filled nodes have two Empty children;
//   - Separated nodes have at least one non-Empty child;
//   - leaves are never Separated.
//
// It is a pure function so tests can check arbitrary vectors.
func Validate(nodes []Status) error {
	n := len(nodes)
	if n < 2 || n&(n-1) != 0 {
		return fmt.Errorf("%w: vector length %d is not a power of two >= 2", ErrCorrupt, n)
	}
	for i := 1; i < n; i++ {
		s := nodes[i]
		if s > Filled {
			return fmt.Errorf("%w: node %d has unknown status %d", ErrCorrupt, i, uint8(s))
		}
		if 2*i >= n {
			if s == Separated {
				return fmt.Errorf("%w: leaf %d is Separated", ErrCorrupt, i)
			}
			continue
		}
		if !consistent(s, nodes[2*i], nodes[2*i+1]) {
			return fmt.Errorf("%w: node %d is %v with children %v/%v", ErrCorrupt, i, s, nodes[2*i], nodes[2*i+1])
		}
	}
	return nil
}

// consistent reports whether a parent status agrees with its children.
func consistent(parent, left, right Status) bool {
	used := left != Empty || right != Empty
	if parent == Separated {
		return used
	}
	return !used
}
