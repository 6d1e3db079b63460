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
	"strings"
)

// ReadAccession2TaxID reads a whitespace-delimited two-column file
// mapping accessions to TaxIDs. Extra columns are ignored.
func ReadAccession2TaxID(file string) (map[string]TaxID, error) {
	m := make(map[string]TaxID, 64)
	err := readLines(file, func(l line, lineNo int) error {
		items := strings.Fields(l.text)
		if len(items) < 2 {
			return &ParseError{File: file, Line: lineNo, Text: l.text,
				Reason: fmt.Sprintf("2 fields expected, %d given", len(items))}
		}
		id, err := ParseTaxID(items[1])
		if err != nil {
			return &ParseError{File: file, Line: lineNo, Text: l.text, Reason: "invalid taxid"}
		}
		m[items[0]] = id
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// TaxIDs returns the distinct values of an accession-to-TaxID map.
func TaxIDs(m map[string]TaxID) []TaxID {
	seen := make(map[TaxID]struct{}, len(m))
	ids := make([]TaxID, 0, len(m))
	for _, id := range m {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
