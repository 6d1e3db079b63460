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
	contam "github.com/cli135/computational-genomics-team-47"
	"github.com/pkg/errors"
	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Export k-mers and their TaxIDs of an index",
	Long: `Export k-mers and their TaxIDs of an index

The output is tab-delimited: k-mer, TaxID, sorted by k-mers.

`,
	Run: func(cmd *cobra.Command, args []string) {
		dbDir := getFlagString(cmd, "index")
		checkFileGiven("index", dbDir)
		outFile := getFlagString(cmd, "out-file")

		idx, err := contam.NewFromPath(dbDir)
		checkError(errors.Wrapf(err, "load index"))

		outfh, err := xopen.Wopen(outFile)
		checkError(err)
		defer outfh.Close()

		checkError(idx.Dump(outfh))
	},
}

func init() {
	RootCmd.AddCommand(dumpCmd)

	dumpCmd.Flags().StringP("index", "x", "",
		formatFlagUsage(`Index directory created by "contam build".`))
	dumpCmd.Flags().StringP("out-file", "o", "-",
		formatFlagUsage(`Out file, supports and recommends a ".gz" suffix ("-" for stdout).`))

	dumpCmd.SetUsageTemplate(usageTemplate(""))
}
