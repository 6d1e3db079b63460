// Copyright © 2024 The computational-genomics-team-47 Authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package taxonomy

import (
	"sort"
	"strconv"
)

// TaxID is a taxonomy identifier, NCBI taxids fit in uint32.
type TaxID uint32

const (
	// Unassigned is a sentinel meaning "no taxonomic assignment",
	// it is never a node.
	Unassigned TaxID = 0

	// RootID is the id of the universal root.
	RootID TaxID = 1
)

// ParseTaxID parses a TaxID from a numeric string.
func ParseTaxID(s string) (TaxID, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return TaxID(v), nil
}

func (id TaxID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParentMap maps a TaxID to the TaxID of its parent.
type ParentMap map[TaxID]TaxID

// Parent returns the parent of id.
// The root has no parent even if the table declares "1 -> 1".
func (m ParentMap) Parent(id TaxID) (TaxID, bool) {
	if id == RootID {
		return 0, false
	}
	p, ok := m[id]
	return p, ok
}

// Node is a node of a taxonomic tree.
// Nodes only refer to each other by TaxID, the Tree owns all of them.
type Node struct {
	ID       TaxID
	Parent   TaxID // 0 for the root and unlinked nodes
	Rank     Rank
	Name     string
	Children []TaxID
}

// IsRoot tells if the node is the root.
func (n *Node) IsRoot() bool {
	return n.ID == RootID
}

// Tree is an arena of nodes indexed by TaxID.
type Tree struct {
	Root  TaxID
	Nodes map[TaxID]*Node
}

// NewTree returns an empty tree with the given capacity.
func NewTree(n int) *Tree {
	return &Tree{Root: RootID, Nodes: make(map[TaxID]*Node, n)}
}

// Node returns the node of a TaxID.
func (t *Tree) Node(id TaxID) (*Node, bool) {
	n, ok := t.Nodes[id]
	return n, ok
}

// Len returns the number of nodes.
func (t *Tree) Len() int {
	return len(t.Nodes)
}

// link makes parent the parent of child. Both must exist.
func (t *Tree) link(child, parent *Node) {
	child.Parent = parent.ID
	parent.Children = append(parent.Children, child.ID)
}

func (t *Tree) parentOf(id TaxID) (TaxID, bool) {
	if id == t.Root {
		return 0, false
	}
	n, ok := t.Nodes[id]
	if !ok || n.Parent == Unassigned {
		return 0, false
	}
	return n.Parent, true
}

// Lineage returns TaxIDs from the root to the given node.
func (t *Tree) Lineage(id TaxID) ([]TaxID, error) {
	if _, ok := t.Nodes[id]; !ok {
		return nil, &UnknownTaxIDError{ID: id}
	}
	path, err := upward(id, t.parentOf, t.Root, len(t.Nodes))
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}

// Depth returns the number of edges from the root to a node.
func (t *Tree) Depth(id TaxID) (int, error) {
	path, err := t.Lineage(id)
	if err != nil {
		return 0, err
	}
	return len(path) - 1, nil
}

// Walk visits nodes in pre-order starting from the root, children in
// ascending TaxID order. Returning true in fn stops the walk.
func (t *Tree) Walk(fn func(n *Node, depth int) bool) {
	root, ok := t.Nodes[t.Root]
	if !ok {
		return
	}

	type item struct {
		node  *Node
		depth int
	}
	stack := []item{{root, 0}}
	var it item
	var children []TaxID
	for len(stack) > 0 {
		it = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if fn(it.node, it.depth) {
			return
		}

		children = append(children[:0], it.node.Children...)
		sort.Slice(children, func(i, j int) bool { return children[i] > children[j] })
		for _, c := range children {
			if n, ok := t.Nodes[c]; ok {
				stack = append(stack, item{n, it.depth + 1})
			}
		}
	}
}

// upward returns the path from id up to the root, id included.
// A non-root id without a parent is a dead end.
func upward(id TaxID, parentOf func(TaxID) (TaxID, bool), root TaxID, limit int) ([]TaxID, error) {
	path := make([]TaxID, 0, 16)
	cur := id
	for {
		path = append(path, cur)
		if cur == root {
			return path, nil
		}
		p, ok := parentOf(cur)
		if !ok {
			return nil, &UnknownTaxIDError{ID: cur}
		}
		if len(path) > limit+1 {
			return nil, ErrCycle
		}
		cur = p
	}
}
