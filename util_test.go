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

import (
	"testing"
)

func TestLowComplexity(t *testing.T) {
	type Case struct {
		Kmer string
		LowC bool
	}
	tests := []Case{
		{"AAAAAAA", true},
		{"CCCCCCC", true},
		{"aaaaaaa", true},
		{"NNNNNNN", true},

		{"ACAACAACAACAACA", true},
		{"ACAACAACAACACCG", true},
		{"ACACACCAATAGCAG", true},

		{"ACGACTACAGCAAAA", false},
		{"ACAAGGTACTCGCCG", false},
		{"ACAAGGTACTATTTT", false},
		{"ACG", false},
	}

	count := make(map[string]int, 32)
	for i, test := range tests {
		if r := isLowComplexity([]byte(test.Kmer), count); r != test.LowC {
			t.Errorf("[%d] %s, expected: %v, result: %v", i+1, test.Kmer, test.LowC, r)
		}
	}
}

func TestEncode(t *testing.T) {
	type Case struct {
		Kmer    string
		Code    uint64
		Encoded bool
	}
	tests := []Case{
		{"ACGT", 0x1b, true},
		{"A", 0, true},
		{"TTT", 63, true},
		{"ACgT", 0, false},
		{"ACNT", 0, false},
	}
	decoder := MustDecoder()
	for _, test := range tests {
		code, ok := encode([]byte(test.Kmer))
		if ok != test.Encoded || code != test.Code {
			t.Errorf("%s: expected %d (%v), result %d (%v)", test.Kmer, test.Code, test.Encoded, code, ok)
			continue
		}
		if ok && string(decoder(code, uint8(len(test.Kmer)))) != test.Kmer {
			t.Errorf("%s: decoded %s", test.Kmer, decoder(code, uint8(len(test.Kmer))))
		}
	}
}
