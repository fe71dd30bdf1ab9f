package node

import (
	"iter"
	"slices"
)

// Path is an ancestor chain from the compilation unit root down to a leaf.
// Paths passed to Walk callbacks share storage with the walker and are only
// valid during the callback; call Clone to keep one.
type Path struct {
	nodes []*Node
}

// NewPath builds a path from root-first nodes.
func NewPath(nodes ...*Node) Path {
	return Path{nodes: slices.Clone(nodes)}
}

// Len returns the number of nodes on the path.
func (path Path) Len() int {
	return len(path.nodes)
}

// Leaf returns the deepest node, or nil for an empty path.
func (path Path) Leaf() *Node {
	if len(path.nodes) == 0 {
		return nil
	}

	return path.nodes[len(path.nodes)-1]
}

// Parent returns the leaf's parent, or nil at the root.
func (path Path) Parent() *Node {
	if len(path.nodes) < 2 {
		return nil
	}

	return path.nodes[len(path.nodes)-2]
}

// Root returns the first node of the path.
func (path Path) Root() *Node {
	if len(path.nodes) == 0 {
		return nil
	}

	return path.nodes[0]
}

// ParentPath returns the path ending at the leaf's parent.
func (path Path) ParentPath() Path {
	if len(path.nodes) == 0 {
		return path
	}

	return Path{nodes: path.nodes[:len(path.nodes)-1]}
}

// Push returns a new path extended by child; path itself is unchanged.
func (path Path) Push(child *Node) Path {
	next := make([]*Node, len(path.nodes), len(path.nodes)+1)
	copy(next, path.nodes)

	return Path{nodes: append(next, child)}
}

// Clone detaches the path from any walker storage.
func (path Path) Clone() Path {
	return Path{nodes: slices.Clone(path.nodes)}
}

// Ancestors yields the leaf's ancestors from its parent up to the root.
func (path Path) Ancestors() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for idx := len(path.nodes) - 2; idx >= 0; idx-- {
			if !yield(path.nodes[idx]) {
				return
			}
		}
	}
}

// Nodes yields the path from root to leaf.
func (path Path) Nodes() iter.Seq[*Node] {
	return slices.Values(path.nodes)
}

// Enclosing returns the nearest strict ancestor of one of the given kinds and
// the path ending at it.
func (path Path) Enclosing(kinds ...Kind) (*Node, Path, bool) {
	for idx := len(path.nodes) - 2; idx >= 0; idx-- {
		if slices.Contains(kinds, path.nodes[idx].Kind) {
			return path.nodes[idx], Path{nodes: path.nodes[:idx+1]}, true
		}
	}

	return nil, Path{}, false
}

// PathTo locates target under root and returns the path to it.
func PathTo(root, target *Node) (Path, bool) {
	var found Path

	Walk(root, func(path Path) bool {
		if found.Len() > 0 {
			return false
		}

		if path.Leaf() == target {
			found = path.Clone()

			return false
		}

		return true
	})

	return found, found.Len() > 0
}

// maxWalkDepth bounds traversal of pathological trees.
const maxWalkDepth = 4096

type walkFrame struct {
	node  *Node
	depth int
}

// Walk visits root and its descendants in pre-order. Returning false from fn
// skips the children of the current node. The traversal is iterative.
func Walk(root *Node, fn func(Path) bool) {
	if root == nil {
		return
	}

	stack := []walkFrame{{node: root, depth: 0}}
	chain := make([]*Node, 0, 32) //nolint:mnd // typical nesting depth

	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		chain = append(chain[:frame.depth], frame.node)

		if !fn(Path{nodes: chain}) || frame.depth >= maxWalkDepth {
			continue
		}

		for idx := len(frame.node.Children) - 1; idx >= 0; idx-- {
			if child := frame.node.Children[idx]; child != nil {
				stack = append(stack, walkFrame{node: child, depth: frame.depth + 1})
			}
		}
	}
}
