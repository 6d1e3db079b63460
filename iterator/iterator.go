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

package iterator

import (
	"fmt"
	"sync"
)

// ErrInvalidK means k < 1 or K > 32
var ErrInvalidK = fmt.Errorf("k-mer iterator: invalid k-mer size (1 <= k <= 32)")

// ErrShortSeq means the sequence is shorter than k.
var ErrShortSeq = fmt.Errorf("k-mer iterator: sequence too short")

var poolIterator = &sync.Pool{New: func() interface{} {
	return &Iterator{}
}}

// Iterator slides a window of k bases over a sequence, one base per step.
//
// Each k-mer is returned verbatim, and also as a 2-bit code when it
// only contains upper-case A, C, G, T. Other k-mers (soft-masked bases,
// N's, IUPAC symbols) are not encoded, as the encoding would be lossy.
type Iterator struct {
	s   []byte
	k   int
	idx int // start of the next k-mer
	end int // len(s) - k + 1

	finished bool

	code    uint64
	mask    uint64 // (1<<(k*2))-1
	illegal int    // position of the last base not encodable
}

// NewKmerIterator returns a k-mer iterator.
func NewKmerIterator(s []byte, k int) (*Iterator, error) {
	if k < 1 || k > 32 {
		return nil, ErrInvalidK
	}
	if len(s) < k {
		return nil, ErrShortSeq
	}

	iter := poolIterator.Get().(*Iterator)
	iter.s = s
	iter.k = k
	iter.idx = 0
	iter.end = len(s) - k + 1
	iter.finished = false

	iter.mask = uint64(1)<<(uint(k)<<1) - 1
	iter.illegal = -1
	iter.code = 0

	// the first k-1 bases
	var c uint64
	for i := 0; i < k-1; i++ {
		c = base2bit[s[i]]
		if c == 4 {
			iter.illegal = i
		}
		iter.code = iter.code<<2 | c&3
	}

	return iter, nil
}

// Next returns the next k-mer and its code.
// encoded tells if the code is valid, ok is false when no k-mer is left.
// The k-mer shares the underlying array of the sequence.
func (iter *Iterator) Next() (kmer []byte, code uint64, encoded bool, ok bool) {
	if iter.finished {
		return nil, 0, false, false
	}

	if iter.idx == iter.end { // recycle the Iterator
		iter.finished = true
		iter.s = nil
		poolIterator.Put(iter)
		return nil, 0, false, false
	}

	e := iter.idx + iter.k
	c := base2bit[iter.s[e-1]]
	if c == 4 {
		iter.illegal = e - 1
	}
	iter.code = (iter.code<<2 | c&3) & iter.mask

	kmer = iter.s[iter.idx:e]
	encoded = iter.illegal < iter.idx
	iter.idx++

	if encoded {
		return kmer, iter.code, true, true
	}
	return kmer, 0, false, true
}

// Index returns current 0-baesd index.
func (iter *Iterator) Index() int {
	return iter.idx - 1
}

// Count returns the number of k-mers of a sequence of length n.
func Count(n, k int) int {
	if k < 1 || n < k {
		return 0
	}
	return n - k + 1
}

// only upper-case ACGT are encoded, A: 0, C: 1, G: 2, T: 3, others: 4
var base2bit = [256]uint64{
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 0, 4, 1, 4, 4, 4, 2, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 3, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
}
