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

package classify

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/cli135/computational-genomics-team-47/taxonomy"
	"github.com/twotwotwo/sorts"
)

// Summary holds two views of the classification of many reads:
// reads won by each TaxID, and k-mer hits accumulated by each TaxID.
type Summary struct {
	Reads        int // all reads
	Unclassified int // reads with no hits

	ReadCounts map[taxonomy.TaxID]int
	Hits       map[taxonomy.TaxID]int
	TotalHits  int
}

// NewSummary returns an empty Summary.
func NewSummary() *Summary {
	return &Summary{
		ReadCounts: make(map[taxonomy.TaxID]int, 16),
		Hits:       make(map[taxonomy.TaxID]int, 16),
	}
}

// Add adds the hits of one read.
func (s *Summary) Add(h *HitCounts) {
	s.Reads++
	id, _, ok := h.Top()
	if !ok {
		s.Unclassified++
		return
	}
	s.ReadCounts[id]++
	for _, _id := range h.order {
		s.Hits[_id] += h.counts[_id]
	}
	s.TotalHits += h.total
}

// Merge adds another Summary to s.
func (s *Summary) Merge(b *Summary) {
	s.Reads += b.Reads
	s.Unclassified += b.Unclassified
	for id, n := range b.ReadCounts {
		s.ReadCounts[id] += n
	}
	for id, n := range b.Hits {
		s.Hits[id] += n
	}
	s.TotalHits += b.TotalHits
}

// Row is the summary of one TaxID.
type Row struct {
	TaxID    taxonomy.TaxID
	Reads    int
	ReadsPct float64 // of all reads
	Hits     int
	HitsPct  float64 // of all hits
}

// Rows is a list of Row.
type Rows []Row

func (r Rows) Len() int { return len(r) }
func (r Rows) Less(i, j int) bool {
	if r[i].Reads != r[j].Reads {
		return r[i].Reads > r[j].Reads
	}
	if r[i].Hits != r[j].Hits {
		return r[i].Hits > r[j].Hits
	}
	return r[i].TaxID < r[j].TaxID
}
func (r Rows) Swap(i, j int) { r[i], r[j] = r[j], r[i] }

// Rows returns rows of all TaxIDs hit, sorted by reads, hits and TaxID.
func (s *Summary) Rows() Rows {
	rows := make(Rows, 0, len(s.Hits))
	var row Row
	for id, hits := range s.Hits {
		row = Row{TaxID: id, Reads: s.ReadCounts[id], Hits: hits}
		if s.Reads > 0 {
			row.ReadsPct = float64(row.Reads) / float64(s.Reads) * 100
		}
		if s.TotalHits > 0 {
			row.HitsPct = float64(hits) / float64(s.TotalHits) * 100
		}
		rows = append(rows, row)
	}
	sorts.Quicksort(rows)
	return rows
}

// LikelyContaminant returns the root-to-leaf path of the tree with
// the most hits, ties broken by the smaller leaf TaxID.
// ok is false if nothing was hit.
func (s *Summary) LikelyContaminant(tree *taxonomy.Tree) (path []taxonomy.TaxID, hits int, ok bool) {
	if s.TotalHits == 0 {
		return nil, 0, false
	}

	// pre-order walk, keeping the path sums of the current branch
	sums := make([]int, 0, 16)
	var best taxonomy.TaxID
	bestHits := -1
	tree.Walk(func(n *taxonomy.Node, depth int) bool {
		sums = sums[:depth]
		sum := s.Hits[n.ID]
		if depth > 0 {
			sum += sums[depth-1]
		}
		sums = append(sums, sum)
		if len(n.Children) == 0 && (sum > bestHits || (sum == bestHits && n.ID < best)) {
			best, bestHits = n.ID, sum
		}
		return false
	})
	if bestHits <= 0 {
		return nil, 0, false
	}

	path, err := tree.Lineage(best)
	if err != nil {
		return nil, 0, false
	}
	return path, bestHits, true
}

// WriteReport writes the summary as a tab-delimited table,
// followed by a line of totals.
func (s *Summary) WriteReport(w io.Writer, tree *taxonomy.Tree) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "taxid\trank\tname\treads\treads_pct\thits\thits_pct\tlineage\n")

	var rank taxonomy.Rank
	var name, lineage string
	for _, row := range s.Rows() {
		rank, name, lineage = taxonomy.Unranked, "", ""
		if n, ok := tree.Node(row.TaxID); ok {
			rank, name = n.Rank, n.Name
			lineage = lineageString(tree, row.TaxID)
		}
		fmt.Fprintf(bw, "%d\t%s\t%s\t%d\t%.4f\t%d\t%.4f\t%s\n",
			row.TaxID, rank, name, row.Reads, row.ReadsPct, row.Hits, row.HitsPct, lineage)
	}

	fmt.Fprintf(bw, "# reads: %d, unclassified: %d, hits: %d\n", s.Reads, s.Unclassified, s.TotalHits)
	if path, hits, ok := s.LikelyContaminant(tree); ok {
		fmt.Fprintf(bw, "# likely contaminant: %d (%d hits on path %s)\n",
			path[len(path)-1], hits, joinTaxIDs(path))
	}
	return bw.Flush()
}

func lineageString(tree *taxonomy.Tree, id taxonomy.TaxID) string {
	ids, err := tree.Lineage(id)
	if err != nil {
		return ""
	}
	names := make([]string, 0, len(ids))
	for _, _id := range ids {
		if _id == tree.Root {
			continue
		}
		if n, ok := tree.Node(_id); ok && n.Name != "" {
			names = append(names, n.Name)
		} else {
			names = append(names, _id.String())
		}
	}
	return strings.Join(names, ";")
}

func joinTaxIDs(ids []taxonomy.TaxID) string {
	s := make([]string, len(ids))
	for i, id := range ids {
		s[i] = id.String()
	}
	return strings.Join(s, ";")
}
