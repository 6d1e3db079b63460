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
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shenwei356/breader"
	"github.com/shenwei356/util/pathutil"
)

// Record is one row of an ancestor table.
type Record struct {
	ID     TaxID
	Parent TaxID
	Rank   Rank
	Name   string
}

// Taxonomy holds the whole ancestor table, as a parent map and a tree.
type Taxonomy struct {
	file string

	// Parents covers every loaded record, including orphans.
	Parents ParentMap

	// Tree contains all nodes, orphans are left unlinked.
	Tree *Tree

	// Orphans are nodes whose parents are absent from the table.
	Orphans []*OrphanError
}

// NewTaxonomyFromNCBI loads nodes.dmp from a taxdump directory,
// and scientific names from names.dmp if it exists.
func NewTaxonomyFromNCBI(dir string) (*Taxonomy, error) {
	t, err := NewTaxonomy(filepath.Join(dir, "nodes.dmp"))
	if err != nil {
		return nil, err
	}

	fileNames := filepath.Join(dir, "names.dmp")
	ok, err := pathutil.Exists(fileNames)
	if err != nil {
		return nil, err
	}
	if ok {
		if err = t.LoadNames(fileNames); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// NewTaxonomy loads an ancestor table: taxid, parent taxid, rank,
// and an optional name in plain tab-delimited tables.
// Both plain tab-delimited and NCBI dmp ("\t|\t") formats are accepted.
func NewTaxonomy(file string) (*Taxonomy, error) {
	records, err := ReadRecords(file)
	if err != nil {
		return nil, err
	}
	t, err := FromRecords(records)
	if err != nil {
		return nil, err
	}
	t.file = file
	return t, nil
}

// line is what the parse function passes over the channel,
// it keeps malformed lines too, for error reporting and line counting.
type line struct {
	fields []string
	text   string
	skip   bool
}

func parseLine(text string) (interface{}, bool, error) {
	text = strings.TrimRight(text, "\r\n")
	if text == "" || text[0] == '#' {
		return line{skip: true}, true, nil
	}
	return line{fields: splitFields(text), text: text}, true, nil
}

// splitFields splits a dmp or tab-delimited line.
func splitFields(text string) []string {
	if strings.HasSuffix(text, "\t|") {
		text = text[:len(text)-2]
	}
	if strings.Contains(text, "\t|\t") {
		return strings.Split(text, "\t|\t")
	}
	return strings.Split(text, "\t")
}

func isDmp(text string) bool {
	return strings.HasSuffix(text, "\t|") || strings.Contains(text, "\t|\t")
}

// readLines feeds every line of a file to fn, with 1-based line numbers.
func readLines(file string, fn func(l line, lineNo int) error) error {
	reader, err := breader.NewBufferedReader(file, 4, 1000, parseLine)
	if err != nil {
		return fmt.Errorf("taxonomy: %s", err)
	}

	var n int
	var data interface{}
	for chunk := range reader.Ch {
		if chunk.Err != nil {
			return fmt.Errorf("taxonomy: %s: %s", file, chunk.Err)
		}
		for _, data = range chunk.Data {
			n++
			l := data.(line)
			if l.skip {
				continue
			}
			if err = fn(l, n); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReadRecords parses all records of an ancestor table.
func ReadRecords(file string) ([]Record, error) {
	records := make([]Record, 0, 1024)
	err := readLines(file, func(l line, lineNo int) error {
		r, err := parseRecord(l)
		if err != nil {
			err.File, err.Line = file, lineNo
			return err
		}
		records = append(records, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrEmptyTable
	}
	return records, nil
}

func parseRecord(l line) (Record, *ParseError) {
	var r Record
	if len(l.fields) < 3 {
		return r, &ParseError{Text: l.text,
			Reason: fmt.Sprintf("at least 3 fields expected, %d given", len(l.fields))}
	}

	var err error
	if r.ID, err = ParseTaxID(strings.TrimSpace(l.fields[0])); err != nil {
		return r, &ParseError{Text: l.text, Reason: "invalid taxid"}
	}
	if r.Parent, err = ParseTaxID(strings.TrimSpace(l.fields[1])); err != nil {
		return r, &ParseError{Text: l.text, Reason: "invalid parent taxid"}
	}
	if r.ID == Unassigned {
		return r, &ParseError{Text: l.text, Reason: "taxid 0 is reserved"}
	}
	r.Rank = ParseRank(l.fields[2])

	// the 4th column of nodes.dmp is the EMBL code, not a name
	if len(l.fields) > 3 && !isDmp(l.text) {
		r.Name = strings.TrimSpace(l.fields[3])
	}
	return r, nil
}

// FromRecords builds a Taxonomy from ancestor records in arbitrary order.
//
// The first pass fills the parent map and creates unlinked nodes,
// the second pass links every node to its parent, so forward references
// need no special care. Nodes whose parents never appear are reported
// in Orphans and the rest of the tree is still built.
func FromRecords(records []Record) (*Taxonomy, error) {
	if len(records) == 0 {
		return nil, ErrEmptyTable
	}

	parents := make(ParentMap, len(records))
	tree := NewTree(len(records))
	order := make([]TaxID, 0, len(records))

	// pass 1
	var n *Node
	var ok bool
	for _, r := range records {
		parents[r.ID] = r.Parent
		if n, ok = tree.Nodes[r.ID]; ok { // duplicated records, the last one wins
			n.Rank, n.Name = r.Rank, r.Name
			continue
		}
		tree.Nodes[r.ID] = &Node{ID: r.ID, Rank: r.Rank, Name: r.Name}
		order = append(order, r.ID)
	}

	// pass 2
	t := &Taxonomy{Parents: parents, Tree: tree}
	var p *Node
	var parent TaxID
	for _, id := range order {
		if id == RootID {
			continue
		}
		n = tree.Nodes[id]
		parent = parents[id]
		if p, ok = tree.Nodes[parent]; !ok || parent == id {
			t.Orphans = append(t.Orphans, &OrphanError{ID: id, Parent: parent})
			continue
		}
		tree.link(n, p)
	}

	return t, nil
}

// LoadNames reads scientific names from an NCBI names.dmp file.
func (t *Taxonomy) LoadNames(file string) error {
	return readLines(file, func(l line, lineNo int) error {
		if len(l.fields) < 4 {
			return &ParseError{File: file, Line: lineNo, Text: l.text,
				Reason: fmt.Sprintf("at least 4 fields expected, %d given", len(l.fields))}
		}
		if strings.TrimSpace(l.fields[3]) != "scientific name" {
			return nil
		}
		id, err := ParseTaxID(strings.TrimSpace(l.fields[0]))
		if err != nil {
			return &ParseError{File: file, Line: lineNo, Text: l.text, Reason: "invalid taxid"}
		}
		if n, ok := t.Tree.Nodes[id]; ok {
			n.Name = l.fields[1]
		}
		return nil
	})
}

// File returns the path of the ancestor table.
func (t *Taxonomy) File() string {
	return t.file
}

// Name returns the name of a TaxID, if any.
func (t *Taxonomy) Name(id TaxID) string {
	if n, ok := t.Tree.Nodes[id]; ok {
		return n.Name
	}
	return ""
}

// Rank returns the rank of a TaxID.
func (t *Taxonomy) Rank(id TaxID) Rank {
	if n, ok := t.Tree.Nodes[id]; ok {
		return n.Rank
	}
	return Unranked
}

// LCA returns the lowest common ancestor of two TaxIDs in the whole taxonomy.
func (t *Taxonomy) LCA(a, b TaxID) (TaxID, error) {
	return LCA(t.Parents, a, b)
}
