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

package contam

import (
	"errors"

	"github.com/cli135/computational-genomics-team-47/iterator"
	"github.com/cli135/computational-genomics-team-47/taxonomy"
)

// ErrKOverflow means k < 1 or k > 32.
var ErrKOverflow = errors.New("contam: k-mer size overflow, valid range is [1-32]")

// ErrNoTaxonomy means no taxonomy is given for building an index.
var ErrNoTaxonomy = errors.New("contam: taxonomy needed")

// DefaultK is the default k-mer size.
const DefaultK = 31

// Index maps k-mers to the lowest common ancestor of all
// reference genomes containing them.
//
// K-mers consisting of A, C, G, T only are stored as 2-bit codes,
// all others are kept verbatim. Lookups are exact.
type Index struct {
	k int

	codes    map[uint64]taxonomy.TaxID
	verbatim map[string]taxonomy.TaxID

	taxonomy *taxonomy.Pruned
	lca      *taxonomy.LCAResolver

	skipLowComplexity bool
	lcCount           map[string]int

	// Genomes are the reference sequences added.
	Genomes []GenomeInfo
}

// GenomeInfo is some basic information of a reference sequence.
type GenomeInfo struct {
	ID    string         `toml:"id"`
	TaxID taxonomy.TaxID `toml:"taxid"`
	Len   int            `toml:"length"` // sequence length
	Kmers int            `toml:"kmers"`  // number of k-mers
}

// NewIndex creates an empty Index, LCAs are computed on the pruned taxonomy.
func NewIndex(k int, tax *taxonomy.Pruned) (*Index, error) {
	if k < 1 || k > 32 {
		return nil, ErrKOverflow
	}
	if tax == nil {
		return nil, ErrNoTaxonomy
	}

	lca := taxonomy.NewLCAResolver(tax.Parents)
	lca.CacheLCA()

	return &Index{
		k:        k,
		codes:    make(map[uint64]taxonomy.TaxID, 1<<20),
		verbatim: make(map[string]taxonomy.TaxID, 64),
		taxonomy: tax,
		lca:      lca,
		Genomes:  make([]GenomeInfo, 0, 32),
	}, nil
}

// K returns the k-mer size.
func (idx *Index) K() int {
	return idx.k
}

// Len returns the number of distinct k-mers.
func (idx *Index) Len() int {
	return len(idx.codes) + len(idx.verbatim)
}

// SkipLowComplexity tells Add to ignore low-complexity k-mers,
// e.g., poly-A and short tandem repeats.
func (idx *Index) SkipLowComplexity() {
	idx.skipLowComplexity = true
	if idx.lcCount == nil {
		idx.lcCount = make(map[string]int, idx.k)
	}
}

// Taxonomy returns the pruned taxonomy of the index.
func (idx *Index) Taxonomy() *taxonomy.Pruned {
	return idx.taxonomy
}

// Add adds all k-mers of a sequence from a genome with the given TaxID.
// A k-mer seen before gets the LCA of its current value and taxid.
// It returns the number of k-mers processed, 0 for sequences shorter than k.
func (idx *Index) Add(taxid taxonomy.TaxID, s []byte) (int, error) {
	if taxid == taxonomy.Unassigned {
		return 0, &taxonomy.UnknownTaxIDError{ID: taxid}
	}
	if _, ok := idx.taxonomy.Tree.Node(taxid); !ok {
		return 0, &taxonomy.UnknownTaxIDError{ID: taxid}
	}

	iter, err := iterator.NewKmerIterator(s, idx.k)
	if err != nil {
		if err == iterator.ErrShortSeq {
			return 0, nil
		}
		return 0, err
	}

	var kmer []byte
	var code uint64
	var encoded, ok bool
	var v taxonomy.TaxID
	var n int
	for {
		kmer, code, encoded, ok = iter.Next()
		if !ok {
			break
		}
		n++

		if idx.skipLowComplexity && isLowComplexity(kmer, idx.lcCount) {
			continue
		}

		if encoded {
			if v, ok = idx.codes[code]; !ok {
				idx.codes[code] = taxid
				continue
			}
			if v == taxid {
				continue
			}
			if v, err = idx.lca.LCA(v, taxid); err != nil {
				return n, err
			}
			idx.codes[code] = v
			continue
		}

		if v, ok = idx.verbatim[string(kmer)]; !ok {
			idx.verbatim[string(kmer)] = taxid
			continue
		}
		if v == taxid {
			continue
		}
		if v, err = idx.lca.LCA(v, taxid); err != nil {
			return n, err
		}
		idx.verbatim[string(kmer)] = v
	}

	return n, nil
}

// AddGenome adds a reference sequence and records its information.
func (idx *Index) AddGenome(id string, taxid taxonomy.TaxID, s []byte) error {
	n, err := idx.Add(taxid, s)
	if err != nil {
		return err
	}
	idx.Genomes = append(idx.Genomes, GenomeInfo{ID: id, TaxID: taxid, Len: len(s), Kmers: n})
	return nil
}

// Lookup returns the TaxID of a k-mer produced by the k-mer iterator.
func (idx *Index) Lookup(kmer []byte, code uint64, encoded bool) (taxonomy.TaxID, bool) {
	if encoded {
		v, ok := idx.codes[code]
		return v, ok
	}
	v, ok := idx.verbatim[string(kmer)]
	return v, ok
}

// Get returns the TaxID of a k-mer.
func (idx *Index) Get(kmer []byte) (taxonomy.TaxID, bool) {
	if len(kmer) != idx.k {
		return 0, false
	}
	if code, ok := encode(kmer); ok {
		v, ok := idx.codes[code]
		return v, ok
	}
	v, ok := idx.verbatim[string(kmer)]
	return v, ok
}

// Equal tells if two indexes have the same k and k-mer data.
func (idx *Index) Equal(b *Index) bool {
	if idx.k != b.k || len(idx.codes) != len(b.codes) || len(idx.verbatim) != len(b.verbatim) {
		return false
	}
	for code, v := range idx.codes {
		if v2, ok := b.codes[code]; !ok || v2 != v {
			return false
		}
	}
	for kmer, v := range idx.verbatim {
		if v2, ok := b.verbatim[kmer]; !ok || v2 != v {
			return false
		}
	}
	return true
}
