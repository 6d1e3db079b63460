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

package classify

import (
	"runtime"
	"sync"

	"github.com/cli135/computational-genomics-team-47/pseudoread"
)

// Classifier classifies pseudoreads in parallel.
// The index must not be modified while classifying.
type Classifier struct {
	Index   Index
	Threads int // default runtime.NumCPU()
}

// NewClassifier returns a Classifier.
func NewClassifier(idx Index, threads int) *Classifier {
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	return &Classifier{Index: idx, Threads: threads}
}

// ClassifyReads classifies all reads from a channel.
// Each worker fills its own Summary, merged at the end.
func (c *Classifier) ClassifyReads(reads <-chan pseudoread.Read) (*Summary, error) {
	threads := c.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	summaries := make([]*Summary, threads)
	errs := make([]error, threads)
	var wg sync.WaitGroup
	for j := 0; j < threads; j++ {
		summaries[j] = NewSummary()
		wg.Add(1)
		go func(j int) {
			defer wg.Done()
			h := NewHitCounts()
			var err error
			for read := range reads {
				if errs[j] != nil {
					continue // drain
				}
				h.Reset()
				if err = CountTo(h, c.Index, read.Seq); err != nil {
					errs[j] = err
					continue
				}
				summaries[j].Add(h)
			}
		}(j)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	summary := summaries[0]
	for _, s := range summaries[1:] {
		summary.Merge(s)
	}
	return summary, nil
}

// ClassifySeq splits a sequence into pseudoreads and classifies them.
func (c *Classifier) ClassifySeq(s []byte, readLen, overlap int) (*Summary, error) {
	g, err := pseudoread.NewGenerator(s, readLen, overlap)
	if err != nil {
		return nil, err
	}

	threads := c.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	ch := make(chan pseudoread.Read, threads*8)
	go func() {
		for {
			read, ok := g.Next()
			if !ok {
				break
			}
			ch <- read
		}
		close(ch)
	}()
	return c.ClassifyReads(ch)
}

// ClassifyRead returns the hits of one read, see HitCounts.Top for the winner.
func (c *Classifier) ClassifyRead(read []byte) (*HitCounts, error) {
	return Count(c.Index, read)
}
