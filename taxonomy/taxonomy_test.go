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
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// forward references (100 before 10) and an orphan (400 -> 40) on purpose.
var nodesDmp = strings.Join([]string{
	"1\t|\t1\t|\tno rank\t|\t\t|",
	"100\t|\t10\t|\tspecies\t|\tEC\t|",
	"200\t|\t10\t|\tspecies\t|\tEC\t|",
	"2\t|\t1\t|\tsuperkingdom\t|\t\t|",
	"10\t|\t20\t|\tgenus\t|\t\t|",
	"20\t|\t2\t|\tphylum\t|\t\t|",
	"300\t|\t30\t|\tspecies\t|\t\t|",
	"30\t|\t20\t|\tgenus\t|\t\t|",
	"400\t|\t40\t|\tspecies\t|\t\t|",
	"50\t|\t2\t|\tgenus\t|\t\t|",
	"500\t|\t50\t|\tspecies\t|\t\t|",
}, "\n") + "\n"

var namesDmp = strings.Join([]string{
	"1\t|\troot\t|\t\t|\tscientific name\t|",
	"2\t|\tBacteria\t|\tBacteria <bacteria>\t|\tscientific name\t|",
	"2\t|\teubacteria\t|\t\t|\tgenbank common name\t|",
	"10\t|\tEscherichia\t|\t\t|\tscientific name\t|",
	"100\t|\tEscherichia coli\t|\t\t|\tscientific name\t|",
}, "\n") + "\n"

func writeFile(t *testing.T, dir, name, content string) string {
	file := filepath.Join(dir, name)
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %s", file, err)
	}
	return file
}

func loadTestTaxonomy(t *testing.T) *Taxonomy {
	dir := t.TempDir()
	writeFile(t, dir, "nodes.dmp", nodesDmp)
	writeFile(t, dir, "names.dmp", namesDmp)
	tax, err := NewTaxonomyFromNCBI(dir)
	if err != nil {
		t.Fatalf("failed to load taxonomy: %s", err)
	}
	return tax
}

func TestNewTaxonomy(t *testing.T) {
	tax := loadTestTaxonomy(t)

	if tax.Tree.Len() != 11 {
		t.Errorf("number of nodes: expected 11, result %d", tax.Tree.Len())
	}
	if len(tax.Parents) != 11 {
		t.Errorf("size of parent map: expected 11, result %d", len(tax.Parents))
	}

	if len(tax.Orphans) != 1 {
		t.Fatalf("orphans: expected 1, result %d", len(tax.Orphans))
	}
	if o := tax.Orphans[0]; o.ID != 400 || o.Parent != 40 {
		t.Errorf("unexpected orphan: %s", o)
	}

	// parent and children are consistent
	for id, n := range tax.Tree.Nodes {
		if n.Parent == Unassigned {
			if id != RootID && id != 400 {
				t.Errorf("node %d is not linked", id)
			}
			continue
		}
		p, ok := tax.Tree.Node(n.Parent)
		if !ok {
			t.Errorf("parent %d of node %d missing", n.Parent, id)
			continue
		}
		var found bool
		for _, c := range p.Children {
			if c == id {
				found = true
			}
		}
		if !found {
			t.Errorf("node %d not in children of %d", id, n.Parent)
		}
		for _, c := range n.Children {
			if tax.Tree.Nodes[c].Parent != id {
				t.Errorf("child %d of node %d points to %d", c, id, tax.Tree.Nodes[c].Parent)
			}
		}
	}

	if r := tax.Rank(10); r != Genus {
		t.Errorf("rank of 10: expected genus, result %s", r)
	}
	if name := tax.Name(2); name != "Bacteria" {
		t.Errorf("name of 2: expected Bacteria, result %s", name)
	}
	if name := tax.Name(100); name != "Escherichia coli" {
		t.Errorf("name of 100: expected Escherichia coli, result %s", name)
	}
	if name := tax.Name(200); name != "" { // EMBL code is not a name
		t.Errorf("name of 200: expected empty, result %s", name)
	}

	depth, err := tax.Tree.Depth(100)
	if err != nil {
		t.Fatal(err)
	}
	if depth != 4 {
		t.Errorf("depth of 100: expected 4, result %d", depth)
	}
}

func TestParseError(t *testing.T) {
	tests := []string{
		"1\t1\tno rank\n2\t1\n",
		"1\t1\tno rank\nabc\t1\tgenus\n",
		"1\t1\tno rank\n2\tx\tgenus\n",
		"0\t1\tno rank\n",
	}
	dir := t.TempDir()
	for i, content := range tests {
		file := writeFile(t, dir, "nodes.tsv", content)
		_, err := NewTaxonomy(file)
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Errorf("[%d] ParseError expected, result: %v", i+1, err)
			continue
		}
		if pe.File != file {
			t.Errorf("[%d] file of ParseError: expected %s, result %s", i+1, file, pe.File)
		}
	}

	file := writeFile(t, dir, "empty.tsv", "# comment only\n\n")
	if _, err := NewTaxonomy(file); err != ErrEmptyTable {
		t.Errorf("ErrEmptyTable expected, result: %v", err)
	}
}

func TestParseRank(t *testing.T) {
	type Case struct {
		Label string
		Rank  Rank
		Abbr  string
	}
	tests := []Case{
		{"superkingdom", SuperKingdom, "SK"},
		{"Domain", SuperKingdom, "SK"},
		{"kingdom", Kingdom, "K"},
		{"phylum", Phylum, "P"},
		{"class", Class, "C"},
		{"order", Order, "O"},
		{"family", Family, "F"},
		{"subfamily", Subfamily, "SF"},
		{"genus", Genus, "G"},
		{"species", Species, "S"},
		{" subspecies ", Subspecies, "SS"},
		{"no rank", Unranked, ""},
		{"clade", Unranked, ""},
		{"strain", Unranked, ""},
	}
	for i, test := range tests {
		r := ParseRank(test.Label)
		if r != test.Rank {
			t.Errorf("[%d] %s, expected: %s, result: %s", i+1, test.Label, test.Rank, r)
		}
		if r.Abbr() != test.Abbr {
			t.Errorf("[%d] %s, expected abbr: %s, result: %s", i+1, test.Label, test.Abbr, r.Abbr())
		}
	}
}

func TestPrune(t *testing.T) {
	tax := loadTestTaxonomy(t)

	refs := []TaxID{100, 200, 300, 100}
	pruned, err := tax.Prune(refs)
	if err != nil {
		t.Fatal(err)
	}

	if pruned.Tree.Root != RootID {
		t.Errorf("root of pruned tree: expected 1, result %d", pruned.Tree.Root)
	}
	for _, id := range []TaxID{1, 2, 20, 10, 30, 100, 200, 300} {
		if _, ok := pruned.Tree.Node(id); !ok {
			t.Errorf("node %d missing in pruned tree", id)
		}
	}
	for _, id := range []TaxID{50, 500, 400} {
		if _, ok := pruned.Tree.Node(id); ok {
			t.Errorf("node %d should be pruned", id)
		}
	}
	if pruned.Tree.Len() != 8 {
		t.Errorf("pruned nodes: expected 8, result %d", pruned.Tree.Len())
	}
	if n, _ := pruned.Tree.Node(10); n.Rank != Genus || n.Name != "Escherichia" {
		t.Errorf("rank and name not copied: %v", n)
	}

	// every reference reaches the root, in as many steps as its depth in the full tree
	var cur TaxID
	var steps int
	var ok bool
	for _, ref := range refs {
		full, err := tax.Tree.Depth(ref)
		if err != nil {
			t.Fatal(err)
		}
		cur, steps = ref, 0
		for cur != RootID {
			if cur, ok = pruned.Parents.Parent(cur); !ok {
				t.Fatalf("dead end when walking up from %d", ref)
			}
			steps++
			if steps > 100 {
				t.Fatalf("too many steps when walking up from %d", ref)
			}
		}
		if steps != full {
			t.Errorf("steps from %d to the root: expected %d, result %d", ref, full, steps)
		}

		depth, err := pruned.Tree.Depth(ref)
		if err != nil {
			t.Fatal(err)
		}
		if depth != full {
			t.Errorf("depth of %d in pruned tree: expected %d, result %d", ref, full, depth)
		}
	}
}

func TestPruneUnknown(t *testing.T) {
	tax := loadTestTaxonomy(t)

	type Case struct {
		Refs    []TaxID
		Unknown TaxID
	}
	tests := []Case{
		{[]TaxID{100, 999}, 999},
		{[]TaxID{400}, 40}, // orphan branch
		{[]TaxID{0}, 0},
	}
	for i, test := range tests {
		_, err := tax.Prune(test.Refs)
		var ue *UnknownTaxIDError
		if !errors.As(err, &ue) {
			t.Errorf("[%d] UnknownTaxIDError expected, result: %v", i+1, err)
			continue
		}
		if ue.ID != test.Unknown {
			t.Errorf("[%d] unknown taxid: expected %d, result %d", i+1, test.Unknown, ue.ID)
		}
	}
}

func TestWriteTable(t *testing.T) {
	tax := loadTestTaxonomy(t)
	pruned, err := tax.Prune([]TaxID{100, 300})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err = pruned.Tree.WriteTable(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "1\t1\tno rank\troot\n") {
		t.Errorf("the first row should be the root, result:\n%s", buf.String())
	}

	file := writeFile(t, t.TempDir(), "taxonomy.tsv", buf.String())
	tax2, err := NewTaxonomy(file)
	if err != nil {
		t.Fatal(err)
	}
	if len(tax2.Orphans) != 0 {
		t.Errorf("no orphans expected, result %d", len(tax2.Orphans))
	}
	if tax2.Tree.Len() != pruned.Tree.Len() {
		t.Errorf("nodes: expected %d, result %d", pruned.Tree.Len(), tax2.Tree.Len())
	}
	for id, p := range pruned.Parents {
		if tax2.Parents[id] != p {
			t.Errorf("parent of %d: expected %d, result %d", id, p, tax2.Parents[id])
		}
	}
	if tax2.Name(100) != "Escherichia coli" || tax2.Rank(100) != Species {
		t.Errorf("name and rank of 100 not kept: %s, %s", tax2.Name(100), tax2.Rank(100))
	}

	pruned2 := PrunedFromTree(tax2.Tree)
	if len(pruned2.Parents) != len(pruned.Parents) {
		t.Errorf("pruned parent map: expected %d, result %d", len(pruned.Parents), len(pruned2.Parents))
	}
}

func TestReadAccession2TaxID(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "ids.txt", "# accession taxid\nGCA_000001.1 100\nGCA_000002.1\t200\textra\n\nNC_001422.1   10\n")
	m, err := ReadAccession2TaxID(file)
	if err != nil {
		t.Fatal(err)
	}
	expected := map[string]TaxID{"GCA_000001.1": 100, "GCA_000002.1": 200, "NC_001422.1": 10}
	if len(m) != len(expected) {
		t.Errorf("records: expected %d, result %d", len(expected), len(m))
	}
	for acc, id := range expected {
		if m[acc] != id {
			t.Errorf("%s: expected %d, result %d", acc, id, m[acc])
		}
	}
	if ids := TaxIDs(m); len(ids) != 3 {
		t.Errorf("distinct taxids: expected 3, result %d", len(ids))
	}

	for i, content := range []string{"GCA_1\n", "GCA_1 abc\n"} {
		file = writeFile(t, dir, "bad.txt", content)
		_, err = ReadAccession2TaxID(file)
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Errorf("[%d] ParseError expected, result: %v", i+1, err)
		}
	}
}
