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
	"bufio"
	"fmt"
	"io"
	"sort"

	"github.com/cznic/sortutil"
)

// Pruned is the restriction of a taxonomy to the root-to-leaf paths
// of a set of TaxIDs, e.g., the TaxIDs of reference genomes.
type Pruned struct {
	Parents ParentMap
	Tree    *Tree
}

// Prune keeps only the nodes on the paths from the given TaxIDs to the root.
// TaxIDs absent from the taxonomy, or whose paths can not reach the root,
// give an *UnknownTaxIDError.
func (t *Taxonomy) Prune(ids []TaxID) (*Pruned, error) {
	refs := make(sortutil.Uint32Slice, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, uint32(id))
	}
	sort.Sort(refs)
	refs = refs[:sortutil.Dedupe(refs)]

	parents := make(ParentMap, len(refs)*8)
	limit := len(t.Parents)
	var cur, p TaxID
	var ok bool
	var steps int
	for _, ref := range refs {
		cur = TaxID(ref)
		if cur == RootID {
			continue
		}
		if _, ok = t.Parents[cur]; !ok {
			return nil, &UnknownTaxIDError{ID: cur}
		}

		for steps = 0; cur != RootID; steps++ {
			if _, ok = parents[cur]; ok { // the rest of the path is already copied
				break
			}
			if p, ok = t.Parents.Parent(cur); !ok || p == cur {
				return nil, &UnknownTaxIDError{ID: cur}
			}
			if steps > limit {
				return nil, ErrCycle
			}
			parents[cur] = p
			cur = p
		}
	}

	return &Pruned{Parents: parents, Tree: t.pruneTree(parents)}, nil
}

// pruneTree creates nodes of the pruned edges, linking them as they are created.
func (t *Taxonomy) pruneTree(parents ParentMap) *Tree {
	tree := NewTree(len(parents) + 1)

	ensure := func(id TaxID) *Node {
		if n, ok := tree.Nodes[id]; ok {
			return n
		}
		n := &Node{ID: id}
		if full, ok := t.Tree.Nodes[id]; ok {
			n.Rank, n.Name = full.Rank, full.Name
		} else if id == RootID {
			n.Name = "root"
		}
		tree.Nodes[id] = n
		return n
	}
	ensure(RootID)

	children := make([]TaxID, 0, len(parents))
	for id := range parents {
		children = append(children, id)
	}
	sort.Slice(children, func(i, j int) bool { return children[i] < children[j] })

	for _, id := range children {
		tree.link(ensure(id), ensure(parents[id]))
	}
	return tree
}

// PrunedFromTree rebuilds a Pruned from a tree, e.g., one loaded from a table.
func PrunedFromTree(tree *Tree) *Pruned {
	parents := make(ParentMap, len(tree.Nodes))
	for id, n := range tree.Nodes {
		if id == tree.Root || n.Parent == Unassigned {
			continue
		}
		parents[id] = n.Parent
	}
	return &Pruned{Parents: parents, Tree: tree}
}

// LCA returns the lowest common ancestor of two TaxIDs in the pruned taxonomy.
func (p *Pruned) LCA(a, b TaxID) (TaxID, error) {
	return LCA(p.Parents, a, b)
}

// WriteTable writes the tree as a tab-delimited table of
// taxid, parent, rank and name, which could be read by NewTaxonomy.
// The root is written as its own parent.
func (t *Tree) WriteTable(w io.Writer) error {
	bw := bufio.NewWriter(w)
	var err error
	t.Walk(func(n *Node, depth int) bool {
		parent := n.Parent
		if n.ID == t.Root {
			parent = n.ID
		}
		_, err = fmt.Fprintf(bw, "%d\t%d\t%s\t%s\n", n.ID, parent, n.Rank, n.Name)
		return err != nil
	})
	if err != nil {
		return err
	}
	return bw.Flush()
}
