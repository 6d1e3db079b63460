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
	"fmt"
	"os"
	"time"

	contam "github.com/cli135/computational-genomics-team-47"
	"github.com/cli135/computational-genomics-team-47/classify"
	"github.com/cli135/computational-genomics-team-47/pseudoread"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Detect contaminants in a query assembly",
	Long: `Detect contaminants in a query assembly

Steps:
  1. The query sequences are concatenated and split into overlapping
     pseudoreads. Use --per-record to split each sequence separately.
  2. Every k-mer of a pseudoread found in the index adds one hit to
     its TaxID. The TaxID with the most hits wins the read, ties go to
     the TaxID hit first. Reads without hits are unclassified.

Index:
  Use -x/--index for an index created by "contam build", or build one in
  memory with the same flags of "contam build".

Output (tab-delimited):
  1.  taxid,     TaxID
  2.  rank,      taxonomic rank
  3.  name,      scientific name
  4.  reads,     number of reads won by the TaxID
  5.  reads_pct, percentage of all reads
  6.  hits,      number of k-mer hits of the TaxID in all reads
  7.  hits_pct,  percentage of all hits
  8.  lineage,   names from the root

  Followed by comment lines of totals and the root-to-leaf path
  with the most hits.

`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)
		seq.ValidateSeq = false

		var fhLog *os.File
		if opt.Log2File {
			fhLog = addLog(opt.LogFile)
		}
		stopProfile := startProfile(opt)

		timeStart := time.Now()
		defer func() {
			log.Info()
			log.Infof("elapsed time: %s", time.Since(timeStart))
			log.Info()
			stopProfile()
			if opt.Log2File {
				fhLog.Close()
			}
		}()

		queryFile := getFlagString(cmd, "query")
		checkFileGiven("query", queryFile)
		dbDir := getFlagString(cmd, "index")
		readLen := getFlagPositiveInt(cmd, "read-len")
		overlap := getFlagNonNegativeInt(cmd, "overlap")
		if overlap >= readLen {
			checkError(fmt.Errorf("value of -p/--overlap should be smaller than -l/--read-len"))
		}
		perRecord := getFlagBool(cmd, "per-record")
		outFile := getFlagString(cmd, "out-file")

		// ---------------------------------------------------------------

		var idx *contam.Index
		var err error
		if dbDir != "" {
			log.Infof("loading index: %s", dbDir)
			idx, err = contam.NewFromPath(dbDir)
			checkError(errors.Wrapf(err, "load index"))
			log.Infof("  %s k-mers (k=%d) of %d sequences loaded",
				humanize.Comma(int64(idx.Len())), idx.K(), len(idx.Genomes))
		} else {
			idx, _ = buildIndex(cmd, opt)
		}

		// ---------------------------------------------------------------

		log.Info()
		log.Infof("reading query: %s", queryFile)
		queries, err := pseudoread.ReadQueries(queryFile, perRecord)
		checkError(errors.Wrapf(err, "read query"))

		outfh, err := xopen.Wopen(outFile)
		checkError(err)
		defer outfh.Close()

		c := classify.NewClassifier(idx, opt.NumCPUs)
		tree := idx.Taxonomy().Tree
		for _, q := range queries {
			log.Infof("classifying %s (%s bp, %d pseudoreads) ...", q.ID,
				humanize.Comma(int64(len(q.Seq))), pseudoread.Count(len(q.Seq), readLen, overlap))

			summary, err := c.ClassifySeq(q.Seq, readLen, overlap)
			checkError(err)

			if perRecord {
				fmt.Fprintf(outfh, "# query: %s\n", q.ID)
			}
			checkError(summary.WriteReport(outfh, tree))

			if summary.Reads > 0 {
				log.Infof("  %.4f%% (%d/%d) reads classified, %s k-mer hits",
					float64(summary.Reads-summary.Unclassified)/float64(summary.Reads)*100,
					summary.Reads-summary.Unclassified, summary.Reads, humanize.Comma(int64(summary.TotalHits)))
			}
			if path, hits, ok := summary.LikelyContaminant(tree); ok {
				id := path[len(path)-1]
				name := ""
				if n, ok := tree.Node(id); ok {
					name = n.Name
				}
				log.Infof("  likely contaminant: %d %s (%d hits)", id, name, hits)
			}
		}
		if outFile != "-" {
			log.Infof("report saved to: %s", outFile)
		}
	},
}

func init() {
	RootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().StringP("query", "i", "",
		formatFlagUsage(`Query sequence file in FASTA/Q format (required).`))
	classifyCmd.Flags().StringP("index", "x", "",
		formatFlagUsage(`Index directory created by "contam build". If not given, an index is built in memory.`))
	addReferenceFlags(classifyCmd)
	addPseudoreadFlags(classifyCmd)
	classifyCmd.Flags().StringP("out-file", "o", "-",
		formatFlagUsage(`Out file, supports and recommends a ".gz" suffix ("-" for stdout).`))

	classifyCmd.SetUsageTemplate(usageTemplate(""))
}
