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

// LCA returns the lowest common ancestor of two TaxIDs using a parent map.
//
//	LCA(m, a, b) == LCA(m, b, a)
//	LCA(m, 0, b) == b, LCA(m, a, 0) == a
//	LCA(m, 1, b) == 1
//
// Ids absent from the map, other than the root and 0, give an *UnknownTaxIDError.
func LCA(m ParentMap, a, b TaxID) (TaxID, error) {
	return lca(a, b, m.Parent, len(m))
}

// LCANode returns the lowest common ancestor of two nodes of the tree.
// A nil node plays the role of the unassigned sentinel.
func (t *Tree) LCANode(a, b *Node) (*Node, error) {
	var ida, idb TaxID
	if a != nil {
		ida = a.ID
	}
	if b != nil {
		idb = b.ID
	}
	for _, id := range [2]TaxID{ida, idb} {
		if id == Unassigned {
			continue
		}
		if _, ok := t.Nodes[id]; !ok {
			return nil, &UnknownTaxIDError{ID: id}
		}
	}

	id, err := lca(ida, idb, t.parentOf, len(t.Nodes))
	if err != nil {
		return nil, err
	}
	if id == Unassigned {
		return nil, nil
	}
	return t.Nodes[id], nil
}

// lca is shared by LCA and LCANode, only the way of finding the parent differs.
func lca(a, b TaxID, parentOf func(TaxID) (TaxID, bool), limit int) (TaxID, error) {
	if a == Unassigned {
		if b == Unassigned {
			return Unassigned, nil
		}
		if err := known(b, parentOf); err != nil {
			return 0, err
		}
		return b, nil
	}
	if b == Unassigned {
		if err := known(a, parentOf); err != nil {
			return 0, err
		}
		return a, nil
	}

	pathA, err := upward(a, parentOf, RootID, limit)
	if err != nil {
		return 0, err
	}
	if a == b {
		return a, nil
	}

	seen := make(map[TaxID]struct{}, len(pathA))
	for _, id := range pathA {
		seen[id] = struct{}{}
	}

	cur := b
	for i := 0; ; i++ {
		if _, ok := seen[cur]; ok {
			return cur, nil
		}
		if cur == RootID { // not reachable when pathA ends at the root
			return RootID, nil
		}
		p, ok := parentOf(cur)
		if !ok {
			return 0, &UnknownTaxIDError{ID: cur}
		}
		if i > limit {
			return 0, ErrCycle
		}
		cur = p
	}
}

func known(id TaxID, parentOf func(TaxID) (TaxID, bool)) error {
	if id == RootID {
		return nil
	}
	if _, ok := parentOf(id); !ok {
		return &UnknownTaxIDError{ID: id}
	}
	return nil
}

// LCAResolver computes LCAs on a parent map, optionally caching results.
// It is not safe for concurrent use when caching is enabled.
type LCAResolver struct {
	parents ParentMap

	cache map[uint64]TaxID
}

// NewLCAResolver returns an LCAResolver.
func NewLCAResolver(m ParentMap) *LCAResolver {
	return &LCAResolver{parents: m}
}

// CacheLCA tells to cache every LCA query result.
func (r *LCAResolver) CacheLCA() {
	if r.cache == nil {
		r.cache = make(map[uint64]TaxID, 1024)
	}
}

// LCA returns the lowest common ancestor of a and b.
func (r *LCAResolver) LCA(a, b TaxID) (TaxID, error) {
	if a == b || a == Unassigned || b == Unassigned || r.cache == nil {
		return LCA(r.parents, a, b)
	}

	key := pack2uint32(a, b)
	if c, ok := r.cache[key]; ok {
		return c, nil
	}
	c, err := LCA(r.parents, a, b)
	if err != nil {
		return 0, err
	}
	r.cache[key] = c
	return c, nil
}

// Fold folds LCA over ids pairwise from left to right.
// An empty list gives Unassigned.
func (r *LCAResolver) Fold(ids ...TaxID) (TaxID, error) {
	var acc TaxID
	var err error
	for _, id := range ids {
		acc, err = r.LCA(acc, id)
		if err != nil {
			return 0, err
		}
	}
	return acc, nil
}

func pack2uint32(a, b TaxID) uint64 {
	if a < b {
		return uint64(a)<<32 | uint64(b)
	}
	return uint64(b)<<32 | uint64(a)
}
