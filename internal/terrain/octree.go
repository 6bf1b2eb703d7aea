package terrain

import (
	"terramesh/internal/geom"
)

// cellTree is an octree over a chunk's cell grid, used to answer windowed
// surface queries without scanning every cell. Nodes live in an arena slice
// and refer to each other by index, so the parent back-reference needs no
// owning pointer (the root's parent is -1). Leaves are unit cells.
type cellTree struct {
	nodes []treeNode
}

type treeNode struct {
	min    geom.Vec3i // lower corner, chunk-local
	size   int        // cube edge length, power of two
	parent int
	child  [8]int // -1 when absent
	leaf   []*Surface
}

func newCellTree(size int) *cellTree {
	t := &cellTree{}
	t.addNode(geom.Vec3i{}, size, -1)
	return t
}

func (t *cellTree) addNode(min geom.Vec3i, size, parent int) int {
	n := treeNode{min: min, size: size, parent: parent}
	for i := range n.child {
		n.child[i] = -1
	}
	t.nodes = append(t.nodes, n)
	return len(t.nodes) - 1
}

// octant returns which child cube of node idx contains the cell at p.
func (t *cellTree) octant(idx int, p geom.Vec3i) int {
	n := &t.nodes[idx]
	half := n.size / 2
	o := 0
	if p.X >= n.min.X+half {
		o |= 1
	}
	if p.Y >= n.min.Y+half {
		o |= 2
	}
	if p.Z >= n.min.Z+half {
		o |= 4
	}
	return o
}

// insert walks from the root to the unit cell holding s, creating
// intermediate nodes on demand.
func (t *cellTree) insert(local geom.Vec3i, s *Surface) {
	idx := 0
	for t.nodes[idx].size > 1 {
		o := t.octant(idx, local)
		child := t.nodes[idx].child[o]
		if child == -1 {
			n := &t.nodes[idx]
			half := n.size / 2
			min := n.min
			if o&1 != 0 {
				min.X += half
			}
			if o&2 != 0 {
				min.Y += half
			}
			if o&4 != 0 {
				min.Z += half
			}
			child = t.addNode(min, half, idx)
			t.nodes[idx].child[o] = child
		}
		idx = child
	}
	t.nodes[idx].leaf = append(t.nodes[idx].leaf, s)
}

// query appends all surfaces whose generating cell lies in the closed
// chunk-local box [min, max], pruning subtrees that cannot intersect it.
func (t *cellTree) query(min, max geom.Vec3i, dst []*Surface) []*Surface {
	if len(t.nodes) == 0 {
		return dst
	}
	return t.queryNode(0, min, max, dst)
}

func (t *cellTree) queryNode(idx int, min, max geom.Vec3i, dst []*Surface) []*Surface {
	n := &t.nodes[idx]
	if n.min.X > max.X || n.min.Y > max.Y || n.min.Z > max.Z ||
		n.min.X+n.size-1 < min.X || n.min.Y+n.size-1 < min.Y || n.min.Z+n.size-1 < min.Z {
		return dst
	}
	if n.size == 1 {
		return append(dst, n.leaf...)
	}
	for _, c := range n.child {
		if c != -1 {
			dst = t.queryNode(c, min, max, dst)
		}
	}
	return dst
}
