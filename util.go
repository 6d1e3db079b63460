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

import "github.com/shenwei356/kmers"

var bit2base = [4]byte{'A', 'C', 'G', 'T'}

// encode returns the 2-bit code of a k-mer consisting of A, C, G, T only.
func encode(kmer []byte) (uint64, bool) {
	for _, b := range kmer {
		switch b {
		case 'A', 'C', 'G', 'T':
		default:
			return 0, false
		}
	}
	code, err := kmers.Encode(kmer)
	if err != nil {
		return 0, false
	}
	return code, true
}

// MustDecoder returns a Decode function, which reuses the byte slice
func MustDecoder() func(code uint64, k uint8) []byte {
	buf := make([]byte, 32)

	return func(code uint64, k uint8) []byte {
		kmer := buf[:k]
		var i uint8
		for i = 0; i < k; i++ {
			kmer[k-1-i] = bit2base[code&3]
			code >>= 2
		}
		return kmer
	}
}

// isLowComplexity checks if a k-mer is of low complexity, i.e., a short
// unit (2 to k/2 bases) repeats too often, like AAAAAAA or ACAACAACA.
// count is a reusable map.
func isLowComplexity(kmer []byte, count map[string]int) bool {
	k := len(kmer)
	_ke := k / 2
	var e, i, c int
	var s string
	for _k := 2; _k <= _ke; _k++ {
		clear(count)
		e = k - _k
		for i = 0; i <= e; i++ {
			count[string(kmer[i:i+_k])]++
		}
		for s, c = range count {
			if c == 1 {
				continue
			}
			// a unit appearing >= 4 times, or
			// 2-mers 4 times, 3-mers 3 times, 4+-mers twice
			if c >= 4 || len(s)+c >= 6 {
				return true
			}
		}
	}
	return false
}
