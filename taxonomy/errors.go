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
	"errors"
	"fmt"
)

// ErrCycle means a loop was detected while walking up the tree.
var ErrCycle = errors.New("taxonomy: cycle detected in parent relationships")

// ErrEmptyTable means no records were found in the ancestor table.
var ErrEmptyTable = errors.New("taxonomy: no records in ancestor table")

// ParseError means a malformed record in the ancestor table
// or the accession-to-taxid mapping file.
type ParseError struct {
	File   string
	Line   int // 1-based, 0 when unknown
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("taxonomy: %s: line %d: %s: %q", e.File, e.Line, e.Reason, e.Text)
	}
	return fmt.Sprintf("taxonomy: %s: %s: %q", e.File, e.Reason, e.Text)
}

// UnknownTaxIDError means a TaxID is absent from the parent map.
type UnknownTaxIDError struct {
	ID TaxID
}

func (e *UnknownTaxIDError) Error() string {
	return fmt.Sprintf("taxonomy: unknown taxid: %d", e.ID)
}

// OrphanError means the declared parent of a node never appears
// in the ancestor table.
type OrphanError struct {
	ID     TaxID
	Parent TaxID
}

func (e *OrphanError) Error() string {
	return fmt.Sprintf("taxonomy: parent %d of taxid %d not found in the ancestor table", e.Parent, e.ID)
}
