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
	"os"
	"time"

	"github.com/cli135/computational-genomics-team-47/pseudoread"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"
)

var pseudoreadsCmd = &cobra.Command{
	Use:   "pseudoreads",
	Short: "Split query sequences into overlapping pseudoreads in FASTQ format",
	Long: `Split query sequences into overlapping pseudoreads in FASTQ format

Reads start at 0, step, 2*step, ..., where step = read length - overlap,
and the tail shorter than the read length is dropped.

`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)
		seq.ValidateSeq = false

		var fhLog *os.File
		if opt.Log2File {
			fhLog = addLog(opt.LogFile)
		}

		timeStart := time.Now()
		defer func() {
			log.Infof("elapsed time: %s", time.Since(timeStart))
			if opt.Log2File {
				fhLog.Close()
			}
		}()

		queryFile := getFlagString(cmd, "query")
		checkFileGiven("query", queryFile)
		readLen := getFlagPositiveInt(cmd, "read-len")
		overlap := getFlagNonNegativeInt(cmd, "overlap")
		perRecord := getFlagBool(cmd, "per-record")
		prefix := getFlagString(cmd, "prefix")
		outFile := getFlagString(cmd, "out-file")

		queries, err := pseudoread.ReadQueries(queryFile, perRecord)
		checkError(errors.Wrapf(err, "read query"))

		outfh, err := xopen.Wopen(outFile)
		checkError(err)
		defer outfh.Close()

		var n int
		var _prefix string
		for _, q := range queries {
			reads, err := pseudoread.Split(q.Seq, readLen, overlap)
			checkError(err)

			_prefix = prefix
			if perRecord {
				_prefix = q.ID + "_" + prefix
			}
			checkError(pseudoread.WriteFASTQ(outfh, _prefix, reads))
			n += len(reads)
		}
		log.Infof("%s pseudoreads of %d sequence(s) written to %s", humanize.Comma(int64(n)), len(queries), outFile)
	},
}

func addPseudoreadFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("read-len", "l", 100,
		formatFlagUsage(`Length of pseudoreads.`))
	cmd.Flags().IntP("overlap", "p", 50,
		formatFlagUsage(`Overlap between adjacent pseudoreads, smaller than the read length.`))
	cmd.Flags().BoolP("per-record", "", false,
		formatFlagUsage(`Split each query sequence separately, instead of concatenating them.`))
}

func init() {
	RootCmd.AddCommand(pseudoreadsCmd)

	pseudoreadsCmd.Flags().StringP("query", "i", "",
		formatFlagUsage(`Query sequence file in FASTA/Q format (required).`))
	addPseudoreadFlags(pseudoreadsCmd)
	pseudoreadsCmd.Flags().StringP("prefix", "", "Read",
		formatFlagUsage(`Prefix of read IDs, followed by the 1-based read number.`))
	pseudoreadsCmd.Flags().StringP("out-file", "o", "-",
		formatFlagUsage(`Out file, supports and recommends a ".gz" suffix ("-" for stdout).`))

	pseudoreadsCmd.SetUsageTemplate(usageTemplate(""))
}
