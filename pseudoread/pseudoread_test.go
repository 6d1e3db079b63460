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

package pseudoread

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSplit(t *testing.T) {
	s := []byte(strings.Repeat("ACGTACGTAC", 25)) // 250 bp

	reads, err := Split(s, 100, 50)
	if err != nil {
		t.Fatal(err)
	}
	offsets := []int{0, 50, 100, 150}
	if len(reads) != len(offsets) {
		t.Fatalf("number of reads: expected %d, result %d", len(offsets), len(reads))
	}
	for i, read := range reads {
		if read.Idx != i || read.Offset != offsets[i] {
			t.Errorf("read %d: expected offset %d, result %d", i, offsets[i], read.Offset)
		}
		if !bytes.Equal(read.Seq, s[offsets[i]:offsets[i]+100]) {
			t.Errorf("read %d: unexpected sequence", i)
		}
	}
}

func TestCount(t *testing.T) {
	type Case struct {
		N, ReadLen, Overlap int
		Count               int
	}
	tests := []Case{
		{250, 100, 50, 4},
		{99, 100, 50, 0},
		{100, 100, 50, 1},
		{149, 100, 50, 1},
		{150, 100, 50, 2},
		{10, 3, 0, 3},
		{10, 1, 0, 10},
		{0, 1, 0, 0},
		{10, 3, 3, 0},
	}
	for _, test := range tests {
		if c := Count(test.N, test.ReadLen, test.Overlap); c != test.Count {
			t.Errorf("Count(%d, %d, %d): expected %d, result %d",
				test.N, test.ReadLen, test.Overlap, test.Count, c)
		}
	}
}

func TestSplitErrors(t *testing.T) {
	s := []byte("ACGTACGT")
	if _, err := Split(s, 0, 0); err != ErrInvalidReadLength {
		t.Errorf("ErrInvalidReadLength expected, result: %v", err)
	}
	if _, err := Split(s, 4, 4); err != ErrInvalidOverlap {
		t.Errorf("ErrInvalidOverlap expected, result: %v", err)
	}
	if _, err := Split(s, 4, -1); err != ErrInvalidOverlap {
		t.Errorf("ErrInvalidOverlap expected, result: %v", err)
	}
	reads, err := Split(s, 10, 5)
	if err != nil || len(reads) != 0 {
		t.Errorf("no reads expected for short sequences, result %d (%v)", len(reads), err)
	}
}

func TestGenerator(t *testing.T) {
	s := []byte(strings.Repeat("ACGTTGCA", 37))
	for _, rl := range [][2]int{{100, 50}, {30, 0}, {7, 6}, {500, 10}} {
		reads, err := Split(s, rl[0], rl[1])
		if err != nil {
			t.Fatal(err)
		}
		g, err := NewGenerator(s, rl[0], rl[1])
		if err != nil {
			t.Fatal(err)
		}
		var i int
		for {
			read, ok := g.Next()
			if !ok {
				break
			}
			if i >= len(reads) || read.Offset != reads[i].Offset || !bytes.Equal(read.Seq, reads[i].Seq) {
				t.Errorf("read length %d, overlap %d: read %d differs", rl[0], rl[1], i)
			}
			i++
		}
		if i != len(reads) {
			t.Errorf("read length %d, overlap %d: expected %d reads, result %d", rl[0], rl[1], len(reads), i)
		}
	}
}

func TestWriteFASTQ(t *testing.T) {
	reads, err := Split([]byte("ACGTAC"), 4, 2)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err = WriteFASTQ(&buf, "Read", reads); err != nil {
		t.Fatal(err)
	}
	expected := "@Read1\nACGT\n+\nIIII\n@Read2\nGTAC\n+\nIIII\n"
	if buf.String() != expected {
		t.Errorf("expected %q, result %q", expected, buf.String())
	}
}

func TestReadQueries(t *testing.T) {
	file := filepath.Join(t.TempDir(), "query.fasta")
	if err := os.WriteFile(file, []byte(">a\nACGT\nAC\n>b\nGGTT\n"), 0644); err != nil {
		t.Fatal(err)
	}

	queries, err := ReadQueries(file, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(queries) != 1 || string(queries[0].Seq) != "ACGTACGGTT" || queries[0].ID != "query.fasta" {
		t.Errorf("unexpected concatenated query: %v", queries)
	}

	queries, err = ReadQueries(file, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(queries) != 2 || queries[0].ID != "a" || string(queries[0].Seq) != "ACGTAC" ||
		queries[1].ID != "b" || string(queries[1].Seq) != "GGTT" {
		t.Errorf("unexpected queries: %v", queries)
	}
}
