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
	"strings"

	"github.com/cli135/computational-genomics-team-47/taxonomy"
	"github.com/spf13/cobra"
)

var lcaCmd = &cobra.Command{
	Use:   "lca",
	Short: "Compute the lowest common ancestor of TaxIDs",
	Long: `Compute the lowest common ancestor of TaxIDs

TaxIDs are given as arguments, separated by spaces or commas.
The output contains the TaxID, rank, name and lineage of the LCA.

`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			checkError(fmt.Errorf("TaxIDs needed"))
		}
		ids, err := parseTaxIDs(args)
		checkError(err)

		tax, err := loadTaxonomy(getFlagString(cmd, "taxonomy"))
		checkError(err)

		r := taxonomy.NewLCAResolver(tax.Parents)
		lca, err := r.Fold(ids...)
		checkError(err)

		lineage, err := tax.Tree.Lineage(lca)
		checkError(err)
		s := make([]string, len(lineage))
		for i, id := range lineage {
			s[i] = id.String()
		}
		fmt.Printf("%d\t%s\t%s\t%s\n", lca, tax.Rank(lca), tax.Name(lca), strings.Join(s, ";"))
	},
}

func init() {
	RootCmd.AddCommand(lcaCmd)

	lcaCmd.Flags().StringP("taxonomy", "T", "taxonomy",
		formatFlagUsage(`Taxdump directory with nodes.dmp (and optional names.dmp), or a tab-delimited ancestor table.`))

	lcaCmd.SetUsageTemplate(usageTemplate(""))
}
