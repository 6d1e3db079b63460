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
	"github.com/cli135/computational-genomics-team-47/taxonomy"
	"github.com/pkg/errors"
	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Prune the taxonomy to the TaxIDs of reference genomes",
	Long: `Prune the taxonomy to the TaxIDs of reference genomes

Only nodes on the paths from the TaxIDs in the accession-to-TaxID file
to the root are kept. The output is a tab-delimited table of
taxid, parent, rank and name, with the root as its own parent.

`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)
		if opt.Log2File {
			fhLog := addLog(opt.LogFile)
			defer fhLog.Close()
		}

		taxDir := getFlagString(cmd, "taxonomy")
		taxidFile := getFlagString(cmd, "taxid-map")
		if taxidFile == "" {
			taxidFile = defaultTaxIDMap(taxDir)
		}
		checkFileGiven("taxid-map", taxidFile)
		outFile := getFlagString(cmd, "out-file")

		tax, err := loadTaxonomy(taxDir)
		checkError(err)

		acc2taxid, err := taxonomy.ReadAccession2TaxID(taxidFile)
		checkError(err)

		pruned, err := tax.Prune(taxonomy.TaxIDs(acc2taxid))
		checkError(errors.Wrapf(err, "prune taxonomy"))
		log.Infof("%d taxa kept", pruned.Tree.Len())

		outfh, err := xopen.Wopen(outFile)
		checkError(err)
		defer outfh.Close()

		checkError(pruned.Tree.WriteTable(outfh))
	},
}

func init() {
	RootCmd.AddCommand(pruneCmd)

	pruneCmd.Flags().StringP("taxonomy", "T", "taxonomy",
		formatFlagUsage(`Taxdump directory with nodes.dmp (and optional names.dmp), or a tab-delimited ancestor table.`))
	pruneCmd.Flags().StringP("taxid-map", "a", "",
		formatFlagUsage(`Tab-delimited accession-to-TaxID file. Default: custom_taxonomy_ids.txt in the taxonomy directory.`))
	pruneCmd.Flags().StringP("out-file", "o", "-",
		formatFlagUsage(`Out file ("-" for stdout).`))

	pruneCmd.SetUsageTemplate(usageTemplate(""))
}
