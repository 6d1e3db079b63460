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

// Package pseudoread splits a query sequence into overlapping
// fixed-length reads.
package pseudoread

import (
	"errors"
	"sync"
)

// ErrInvalidReadLength means the read length is smaller than 1.
var ErrInvalidReadLength = errors.New("pseudoread: read length should be positive")

// ErrInvalidOverlap means overlap < 0 or overlap >= read length.
var ErrInvalidOverlap = errors.New("pseudoread: overlap should be in range [0, read length)")

// Read is a pseudoread. Seq shares the underlying array of the query sequence.
type Read struct {
	Idx    int // 0-based
	Offset int
	Seq    []byte
}

func check(readLen, overlap int) error {
	if readLen < 1 {
		return ErrInvalidReadLength
	}
	if overlap < 0 || overlap >= readLen {
		return ErrInvalidOverlap
	}
	return nil
}

// Count returns the number of pseudoreads of a sequence of length n,
// the tail shorter than readLen is dropped.
func Count(n, readLen, overlap int) int {
	if check(readLen, overlap) != nil || n < readLen {
		return 0
	}
	return (n-readLen)/(readLen-overlap) + 1
}

// Split returns all pseudoreads of a sequence.
func Split(s []byte, readLen, overlap int) ([]Read, error) {
	if err := check(readLen, overlap); err != nil {
		return nil, err
	}
	n := Count(len(s), readLen, overlap)
	reads := make([]Read, 0, n)
	step := readLen - overlap
	var offset int
	for i := 0; i < n; i++ {
		offset = i * step
		reads = append(reads, Read{Idx: i, Offset: offset, Seq: s[offset : offset+readLen]})
	}
	return reads, nil
}

var poolGenerator = &sync.Pool{New: func() interface{} {
	return &Generator{}
}}

// Generator produces pseudoreads one by one.
type Generator struct {
	s       []byte
	readLen int
	step    int
	idx     int
	n       int

	finished bool
}

// NewGenerator returns a Generator.
func NewGenerator(s []byte, readLen, overlap int) (*Generator, error) {
	if err := check(readLen, overlap); err != nil {
		return nil, err
	}
	g := poolGenerator.Get().(*Generator)
	g.s = s
	g.readLen = readLen
	g.step = readLen - overlap
	g.idx = 0
	g.n = Count(len(s), readLen, overlap)
	g.finished = false
	return g, nil
}

// Next returns the next pseudoread, ok is false when no read is left.
func (g *Generator) Next() (read Read, ok bool) {
	if g.finished {
		return read, false
	}
	if g.idx == g.n { // recycle the Generator
		g.finished = true
		g.s = nil
		poolGenerator.Put(g)
		return read, false
	}

	offset := g.idx * g.step
	read = Read{Idx: g.idx, Offset: offset, Seq: g.s[offset : offset+g.readLen]}
	g.idx++
	return read, true
}
