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

package cmd

import (
	"strings"
	"testing"

	"github.com/cli135/computational-genomics-team-47/taxonomy"
)

func TestParseTaxIDs(t *testing.T) {
	ids, err := parseTaxIDs([]string{"100,200", "10", " 1 "})
	if err != nil {
		t.Fatal(err)
	}
	expected := []taxonomy.TaxID{100, 200, 10, 1}
	if len(ids) != len(expected) {
		t.Fatalf("expected %v, result %v", expected, ids)
	}
	for i, id := range ids {
		if id != expected[i] {
			t.Errorf("expected %v, result %v", expected, ids)
			break
		}
	}

	if _, err = parseTaxIDs([]string{"100,abc"}); err == nil {
		t.Errorf("error expected for non-numeric TaxIDs")
	}
}

func TestOrphanWarnings(t *testing.T) {
	if lines := orphanWarnings(nil); len(lines) != 0 {
		t.Errorf("no warnings expected, result %v", lines)
	}

	orphans := make([]*taxonomy.OrphanError, 15)
	for i := range orphans {
		orphans[i] = &taxonomy.OrphanError{ID: taxonomy.TaxID(100 + i), Parent: 99}
	}
	lines := orphanWarnings(orphans)
	if len(lines) != len(orphans)+1 {
		t.Fatalf("expected %d lines, result %d", len(orphans)+1, len(lines))
	}
	if !strings.HasPrefix(lines[0], "  15 taxa") {
		t.Errorf("unexpected heading: %s", lines[0])
	}
	for i, o := range orphans {
		if !strings.Contains(lines[i+1], o.Error()) {
			t.Errorf("line %d: expected %q, result %q", i+1, o.Error(), lines[i+1])
		}
	}
}
