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
	"bufio"
	"bytes"
	"io"
	"path/filepath"
	"strconv"

	"github.com/shenwei356/bio/seqio/fastx"
)

// Query is a query sequence to split.
type Query struct {
	ID  string
	Seq []byte
}

// ReadQueries reads sequences from a FASTA/Q file.
// All records are concatenated in order into one sequence named after
// the file, unless perRecord is true.
func ReadQueries(file string, perRecord bool) ([]Query, error) {
	fastxReader, err := fastx.NewReader(nil, file, "")
	if err != nil {
		return nil, err
	}
	defer fastxReader.Close()

	queries := make([]Query, 0, 1)
	var concat []byte
	var record *fastx.Record
	for {
		record, err = fastxReader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}

		if perRecord {
			queries = append(queries, Query{
				ID:  string(record.ID),
				Seq: append([]byte(nil), record.Seq.Seq...),
			})
			continue
		}
		concat = append(concat, record.Seq.Seq...)
	}

	if !perRecord {
		queries = append(queries, Query{ID: filepath.Base(file), Seq: concat})
	}
	return queries, nil
}

// WriteFASTQ writes pseudoreads in FASTQ format, with IDs of
// prefix followed by the 1-based read number, and the highest quality.
func WriteFASTQ(w io.Writer, prefix string, reads []Read) error {
	bw := bufio.NewWriter(w)
	var qual, id []byte
	var record *fastx.Record
	var err error
	for _, read := range reads {
		if len(qual) != len(read.Seq) {
			qual = bytes.Repeat([]byte{'I'}, len(read.Seq))
		}
		id = strconv.AppendInt(append(id[:0], prefix...), int64(read.Idx+1), 10)
		record, err = fastx.NewRecordWithQualWithoutValidation(nil, id, id, nil, read.Seq, qual)
		if err != nil {
			return err
		}
		if _, err = bw.Write(record.Format(0)); err != nil {
			return err
		}
	}
	return bw.Flush()
}
