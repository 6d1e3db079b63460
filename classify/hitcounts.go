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

// Package classify counts exact k-mer hits of pseudoreads against an index
// and summarises the winning taxa.
package classify

import (
	"github.com/cli135/computational-genomics-team-47/iterator"
	"github.com/cli135/computational-genomics-team-47/taxonomy"
)

// Index is a frozen k-mer index, e.g., *contam.Index.
type Index interface {
	K() int
	Lookup(kmer []byte, code uint64, encoded bool) (taxonomy.TaxID, bool)
}

// HitCounts counts k-mer hits per TaxID, remembering the order
// in which TaxIDs are first hit.
type HitCounts struct {
	counts map[taxonomy.TaxID]int
	order  []taxonomy.TaxID
	total  int
}

// NewHitCounts returns an empty HitCounts.
func NewHitCounts() *HitCounts {
	return &HitCounts{
		counts: make(map[taxonomy.TaxID]int, 8),
		order:  make([]taxonomy.TaxID, 0, 8),
	}
}

// Add adds n hits to a TaxID.
func (h *HitCounts) Add(id taxonomy.TaxID, n int) {
	if _, ok := h.counts[id]; !ok {
		h.order = append(h.order, id)
	}
	h.counts[id] += n
	h.total += n
}

// Get returns the hits of a TaxID.
func (h *HitCounts) Get(id taxonomy.TaxID) int {
	return h.counts[id]
}

// Len returns the number of TaxIDs hit.
func (h *HitCounts) Len() int {
	return len(h.order)
}

// Total returns the number of all hits.
func (h *HitCounts) Total() int {
	return h.total
}

// TaxIDs returns TaxIDs in the order they were first hit.
func (h *HitCounts) TaxIDs() []taxonomy.TaxID {
	return h.order
}

// Reset clears all counts.
func (h *HitCounts) Reset() {
	for id := range h.counts {
		delete(h.counts, id)
	}
	h.order = h.order[:0]
	h.total = 0
}

// Top returns the TaxID with the most hits, ties are broken
// by the first hit. ok is false if nothing was hit.
func (h *HitCounts) Top() (id taxonomy.TaxID, n int, ok bool) {
	for _, _id := range h.order {
		if h.counts[_id] > n {
			id, n = _id, h.counts[_id]
		}
	}
	return id, n, n > 0
}

// Count counts hits of all k-mers of a read.
// Reads shorter than k have no hits.
func Count(idx Index, read []byte) (*HitCounts, error) {
	h := NewHitCounts()
	return h, CountTo(h, idx, read)
}

// CountTo adds hits of all k-mers of a read to h.
func CountTo(h *HitCounts, idx Index, read []byte) error {
	iter, err := iterator.NewKmerIterator(read, idx.K())
	if err != nil {
		if err == iterator.ErrShortSeq {
			return nil
		}
		return err
	}

	var kmer []byte
	var code uint64
	var encoded, ok bool
	var id taxonomy.TaxID
	for {
		kmer, code, encoded, ok = iter.Next()
		if !ok {
			break
		}
		if id, ok = idx.Lookup(kmer, code, encoded); ok {
			h.Add(id, 1)
		}
	}
	return nil
}
