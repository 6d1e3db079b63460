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
	"regexp"
	"time"

	contam "github.com/cli135/computational-genomics-team-47"
	"github.com/cli135/computational-genomics-team-47/taxonomy"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seq"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a k-mer index from reference genomes of contaminants",
	Long: `Build a k-mer index from reference genomes of contaminants

Steps:
  1. The taxonomy is pruned to the paths from the TaxIDs of the
     accession-to-TaxID file to the root.
  2. Every k-mer of every reference sequence is assigned its TaxID,
     k-mers shared by several genomes get the lowest common ancestor.

Reference files:
  Sequences are assigned the TaxID of their sequence IDs, or of the
  accessions in the file names (e.g., GCA_001500975.1_ViralProj306529_genomic.fna).
  Sequences matching neither are skipped.

Output:
  A directory with info.toml, taxonomy.tsv and kmers.bin.

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

		outDir := getFlagString(cmd, "out-dir")
		if outDir == "" {
			checkError(fmt.Errorf("flag -O/--out-dir needed"))
		}
		force := getFlagBool(cmd, "force")

		idx, _ := buildIndex(cmd, opt)

		log.Info()
		log.Infof("saving the index to %s ...", outDir)
		err := idx.WriteToPath(outDir, force)
		if err == contam.ErrDirExists {
			checkError(fmt.Errorf("output directory exists, use --force to overwrite: %s", outDir))
		}
		checkError(errors.Wrapf(err, "write index"))
		log.Infof("index saved")
	},
}

// buildIndex builds an index in memory with the flags of reference genomes.
func buildIndex(cmd *cobra.Command, opt *Options) (*contam.Index, *contam.BuildStats) {
	refDir := getFlagString(cmd, "db")
	taxDir := getFlagString(cmd, "taxonomy")
	taxidFile := getFlagString(cmd, "taxid-map")
	if taxidFile == "" {
		taxidFile = defaultTaxIDMap(taxDir)
	}
	k := getFlagPositiveInt(cmd, "kmer")

	bopt := &contam.BuildOptions{
		K:       k,
		RefDir:  refDir,
		Verbose: opt.Verbose,

		SkipLowComplexity: getFlagBool(cmd, "skip-low-complexity"),
	}

	var err error
	if s := getFlagString(cmd, "file-regexp"); s != "" {
		bopt.FileRegexp, err = regexp.Compile(s)
		checkError(errors.Wrapf(err, "failed to parse regular expression for matching file: %s", s))
	}
	if s := getFlagString(cmd, "ref-name-regexp"); s != "" {
		if !regexp.MustCompile(`\(.+\)`).MatchString(s) {
			checkError(fmt.Errorf(`value of --ref-name-regexp must contains "(" and ")" to capture the ref name from file name`))
		}
		bopt.ReRefName, err = regexp.Compile(s)
		checkError(errors.Wrapf(err, "failed to parse regular expression for matching file name: %s", s))
	}
	checkError(contam.CheckBuildOptions(bopt))
	checkFileGiven("taxid-map", taxidFile)

	log.Infof("loading taxonomy ...")
	tax, err := loadTaxonomy(taxDir)
	checkError(err)

	acc2taxid, err := taxonomy.ReadAccession2TaxID(taxidFile)
	checkError(err)
	log.Infof("  %d accessions of %d TaxIDs loaded from %s",
		len(acc2taxid), len(taxonomy.TaxIDs(acc2taxid)), taxidFile)

	log.Info()
	log.Infof("building the index (k=%d) from %s ...", k, refDir)
	idx, stats, err := contam.Build(bopt, tax, acc2taxid)
	checkError(err)

	log.Infof("  %d files, %d sequences, %s k-mers processed in %s",
		stats.Files, stats.Records, humanize.Comma(int64(stats.Kmers)), stats.Time)
	log.Infof("  %s distinct k-mers, %d taxa in the pruned taxonomy",
		humanize.Comma(int64(idx.Len())), idx.Taxonomy().Tree.Len())
	if len(stats.Skipped) > 0 {
		log.Warningf("  %d sequences skipped for unknown accessions:", len(stats.Skipped))
		for _, id := range stats.Skipped {
			log.Warningf("    %s", id)
		}
	}
	return idx, stats
}

func addReferenceFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("db", "d", "genomes-of-common-contaminants",
		formatFlagUsage(`Directory of reference genomes of contaminants, in FASTA/Q format.`))
	cmd.Flags().StringP("taxonomy", "T", "taxonomy",
		formatFlagUsage(`Taxdump directory with nodes.dmp (and optional names.dmp), or a tab-delimited ancestor table.`))
	cmd.Flags().StringP("taxid-map", "a", "",
		formatFlagUsage(`Tab-delimited accession-to-TaxID file. Default: custom_taxonomy_ids.txt in the taxonomy directory.`))
	cmd.Flags().IntP("kmer", "k", contam.DefaultK,
		formatFlagUsage(`K-mer size, in range of [1, 32]. Smaller values save memory.`))
	cmd.Flags().StringP("file-regexp", "r", "",
		formatFlagUsage(`Regular expression for matching reference files. Default: FASTA/Q files, optionally compressed.`))
	cmd.Flags().StringP("ref-name-regexp", "N", "",
		formatFlagUsage(`Regular expression (must contains "(" and ")") for extracting accessions from file names.`))
	cmd.Flags().BoolP("skip-low-complexity", "", false,
		formatFlagUsage(`Do not index low-complexity k-mers like poly-A and short tandem repeats.`))
}

func init() {
	RootCmd.AddCommand(buildCmd)

	addReferenceFlags(buildCmd)
	buildCmd.Flags().StringP("out-dir", "O", "",
		formatFlagUsage(`Output directory of the index.`))
	buildCmd.Flags().BoolP("force", "", false,
		formatFlagUsage(`Overwrite existing output directory.`))

	buildCmd.SetUsageTemplate(usageTemplate(""))
}
