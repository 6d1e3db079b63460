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
	"testing"

	"github.com/cli135/computational-genomics-team-47/taxonomy"
)

// 1 - 2 - 10 - 100
//
//	|    \- 200
//	\- 30 - 300
func testTaxonomy(t *testing.T) *taxonomy.Taxonomy {
	tax, err := taxonomy.FromRecords([]taxonomy.Record{
		{ID: 1, Parent: 1, Name: "root"},
		{ID: 2, Parent: 1, Rank: taxonomy.SuperKingdom, Name: "Bacteria"},
		{ID: 10, Parent: 2, Rank: taxonomy.Genus, Name: "Escherichia"},
		{ID: 100, Parent: 10, Rank: taxonomy.Species, Name: "Escherichia coli"},
		{ID: 200, Parent: 10, Rank: taxonomy.Species, Name: "Escherichia albertii"},
		{ID: 30, Parent: 2, Rank: taxonomy.Genus, Name: "Salmonella"},
		{ID: 300, Parent: 30, Rank: taxonomy.Species, Name: "Salmonella enterica"},
	})
	if err != nil {
		t.Fatalf("failed to build taxonomy: %s", err)
	}
	return tax
}

func testPruned(t *testing.T, ids ...taxonomy.TaxID) *taxonomy.Pruned {
	p, err := testTaxonomy(t).Prune(ids)
	if err != nil {
		t.Fatalf("failed to prune taxonomy: %s", err)
	}
	return p
}

func testIndex(t *testing.T) *Index {
	idx, err := NewIndex(3, testPruned(t, 100, 200))
	if err != nil {
		t.Fatal(err)
	}
	if err = idx.AddGenome("A", 100, []byte("AAACCC")); err != nil {
		t.Fatal(err)
	}
	if err = idx.AddGenome("B", 200, []byte("AAAGGG")); err != nil {
		t.Fatal(err)
	}
	return idx
}

func TestIndexLCA(t *testing.T) {
	idx := testIndex(t)

	type Case struct {
		Kmer  string
		TaxID taxonomy.TaxID
	}
	tests := []Case{
		{"AAA", 10},
		{"AAC", 100},
		{"ACC", 100},
		{"CCC", 100},
		{"AAG", 200},
		{"AGG", 200},
		{"GGG", 200},
	}
	for _, test := range tests {
		v, ok := idx.Get([]byte(test.Kmer))
		if !ok {
			t.Errorf("%s: not found", test.Kmer)
			continue
		}
		if v != test.TaxID {
			t.Errorf("%s: expected %d, result %d", test.Kmer, test.TaxID, v)
		}
	}

	if idx.Len() != len(tests) {
		t.Errorf("number of k-mers: expected %d, result %d", len(tests), idx.Len())
	}
	if _, ok := idx.Get([]byte("TTT")); ok {
		t.Errorf("TTT should not be found")
	}
	if _, ok := idx.Get([]byte("AAAA")); ok {
		t.Errorf("k-mers of other sizes should not be found")
	}
	if len(idx.Genomes) != 2 || idx.Genomes[0].Kmers != 4 || idx.Genomes[1].Len != 6 {
		t.Errorf("unexpected genome information: %v", idx.Genomes)
	}
}

func TestIndexOrderIndependence(t *testing.T) {
	seqs := []struct {
		taxid taxonomy.TaxID
		seq   string
	}{
		{100, "ACGTACGTTGCA"},
		{200, "TTGCAACGTNNACGT"},
		{300, "GCAACGTAC"},
		{100, "acgtACGT"},
		{300, "acgtTTGCA"},
	}
	orders := [][]int{
		{0, 1, 2, 3, 4},
		{4, 3, 2, 1, 0},
		{2, 0, 4, 1, 3},
	}

	var first *Index
	for _, order := range orders {
		idx, err := NewIndex(4, testPruned(t, 100, 200, 300))
		if err != nil {
			t.Fatal(err)
		}
		for _, i := range order {
			if _, err = idx.Add(seqs[i].taxid, []byte(seqs[i].seq)); err != nil {
				t.Fatal(err)
			}
		}
		if first == nil {
			first = idx
			continue
		}
		if !first.Equal(idx) {
			t.Errorf("indexes built in orders %v and %v differ", orders[0], order)
		}
	}

	// ACGT appears in 100, 200, 300
	if v, _ := first.Get([]byte("ACGT")); v != 2 {
		t.Errorf("ACGT: expected 2, result %d", v)
	}
}

func TestIndexShortSequence(t *testing.T) {
	idx, err := NewIndex(5, testPruned(t, 100))
	if err != nil {
		t.Fatal(err)
	}
	n, err := idx.Add(100, []byte("ACGT"))
	if err != nil {
		t.Errorf("short sequences should be skipped silently: %s", err)
	}
	if n != 0 || idx.Len() != 0 {
		t.Errorf("no k-mers expected, result %d", idx.Len())
	}
}

func TestIndexVerbatimKmers(t *testing.T) {
	idx, err := NewIndex(3, testPruned(t, 100, 200))
	if err != nil {
		t.Fatal(err)
	}
	if _, err = idx.Add(100, []byte("ACgTN")); err != nil {
		t.Fatal(err)
	}
	if _, err = idx.Add(200, []byte("gTN")); err != nil {
		t.Fatal(err)
	}

	type Case struct {
		Kmer  string
		Found bool
		TaxID taxonomy.TaxID
	}
	tests := []Case{
		{"ACg", true, 100},
		{"CgT", true, 100},
		{"gTN", true, 10},
		{"ACG", false, 0},
		{"GTN", false, 0},
	}
	for _, test := range tests {
		v, ok := idx.Get([]byte(test.Kmer))
		if ok != test.Found || v != test.TaxID {
			t.Errorf("%s: expected %d (%v), result %d (%v)", test.Kmer, test.TaxID, test.Found, v, ok)
		}
	}
}

func TestIndexInvalidTaxID(t *testing.T) {
	idx, err := NewIndex(3, testPruned(t, 100, 200))
	if err != nil {
		t.Fatal(err)
	}

	var uerr *taxonomy.UnknownTaxIDError
	for _, taxid := range []taxonomy.TaxID{0, 300, 999} {
		_, err = idx.Add(taxid, []byte("ACGTACGT"))
		if !errors.As(err, &uerr) {
			t.Errorf("taxid %d: UnknownTaxIDError expected, result: %v", taxid, err)
		}
	}
	if idx.Len() != 0 {
		t.Errorf("no k-mers should be added")
	}

	if _, err = NewIndex(0, idx.Taxonomy()); err != ErrKOverflow {
		t.Errorf("ErrKOverflow expected, result: %v", err)
	}
	if _, err = NewIndex(33, idx.Taxonomy()); err != ErrKOverflow {
		t.Errorf("ErrKOverflow expected, result: %v", err)
	}
	if _, err = NewIndex(21, nil); err != ErrNoTaxonomy {
		t.Errorf("ErrNoTaxonomy expected, result: %v", err)
	}
}

func TestIndexSkipLowComplexity(t *testing.T) {
	idx, err := NewIndex(8, testPruned(t, 100))
	if err != nil {
		t.Fatal(err)
	}
	idx.SkipLowComplexity()

	n, err := idx.Add(100, []byte("AAAAAAAAACGATCGTAC"))
	if err != nil {
		t.Fatal(err)
	}
	if n != 11 {
		t.Errorf("k-mers processed: expected 11, result %d", n)
	}
	if _, ok := idx.Get([]byte("AAAAAAAA")); ok {
		t.Errorf("AAAAAAAA should be skipped")
	}
	if v, ok := idx.Get([]byte("ACGATCGT")); !ok || v != 100 {
		t.Errorf("ACGATCGT: expected 100, result %d", v)
	}
}
