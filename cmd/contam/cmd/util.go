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
	"path/filepath"
	"runtime"
	"strings"

	"github.com/cli135/computational-genomics-team-47/taxonomy"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/pkg/profile"
	"github.com/shenwei356/go-logging"
	"github.com/shenwei356/util/pathutil"
	"github.com/spf13/cobra"
)

var log *logging.Logger

var logFormat = logging.MustStringFormatter(
	`%{time:15:04:05.000} %{color}[%{level:.4s}]%{color:reset} %{message}`,
)

var logFormatFile = logging.MustStringFormatter(
	`%{time:15:04:05.000} [%{level:.4s}] %{message}`,
)

func init() {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	logging.SetBackend(logging.NewBackendFormatter(backend, logFormat))
	log = logging.MustGetLogger("contam")
}

// addLog writes logs to a file too.
func addLog(file string) *os.File {
	fh, err := os.Create(file)
	checkError(errors.Wrapf(err, "create log file"))

	backend := logging.NewBackendFormatter(logging.NewLogBackend(os.Stderr, "", 0), logFormat)
	backendFile := logging.NewBackendFormatter(logging.NewLogBackend(fh, "", 0), logFormatFile)
	logging.SetBackend(backend, backendFile)
	return fh
}

// Options contains the global flags.
type Options struct {
	NumCPUs  int
	Verbose  bool
	Log2File bool
	LogFile  string

	PprofCPU bool
	PprofMem bool
}

func getOptions(cmd *cobra.Command) *Options {
	threads := getFlagInt(cmd, "threads")
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	logFile := getFlagString(cmd, "log")
	return &Options{
		NumCPUs:  threads,
		Verbose:  getFlagBool(cmd, "verbose"),
		Log2File: logFile != "",
		LogFile:  logFile,

		PprofCPU: getFlagBool(cmd, "pprof-cpu"),
		PprofMem: getFlagBool(cmd, "pprof-mem"),
	}
}

// startProfile starts profiling if asked, the returned function stops it.
func startProfile(opt *Options) func() {
	// go tool pprof -http=:8080 cpu.pprof
	if opt.PprofCPU {
		return profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop
	} else if opt.PprofMem {
		return profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet).Stop
	}
	return func() {}
}

func checkError(err error) {
	if err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func formatFlagUsage(s string) string {
	return "► " + s
}

func getFlagString(cmd *cobra.Command, flag string) string {
	value, err := cmd.Flags().GetString(flag)
	checkError(err)
	return value
}

func getFlagBool(cmd *cobra.Command, flag string) bool {
	value, err := cmd.Flags().GetBool(flag)
	checkError(err)
	return value
}

func getFlagInt(cmd *cobra.Command, flag string) int {
	value, err := cmd.Flags().GetInt(flag)
	checkError(err)
	return value
}

func getFlagPositiveInt(cmd *cobra.Command, flag string) int {
	value, err := cmd.Flags().GetInt(flag)
	checkError(err)
	if value <= 0 {
		checkError(fmt.Errorf("value of flag --%s should be greater than 0", flag))
	}
	return value
}

func getFlagNonNegativeInt(cmd *cobra.Command, flag string) int {
	value, err := cmd.Flags().GetInt(flag)
	checkError(err)
	if value < 0 {
		checkError(fmt.Errorf("value of flag --%s should be greater than or equal to 0", flag))
	}
	return value
}

func checkFileGiven(flag, file string) {
	if file == "" {
		checkError(fmt.Errorf("flag --%s needed", flag))
	}
	if file == "-" {
		return
	}
	ok, err := pathutil.Exists(file)
	checkError(errors.Wrapf(err, "check file of --%s", flag))
	if !ok {
		checkError(fmt.Errorf("file of --%s not found: %s", flag, file))
	}
}

// loadTaxonomy loads nodes.dmp (and names.dmp) from a taxdump directory,
// or a tab-delimited ancestor table. Orphans are reported as warnings.
func loadTaxonomy(path string) (*taxonomy.Taxonomy, error) {
	isDir, err := pathutil.IsDir(path)
	if err != nil {
		return nil, errors.Wrapf(err, "check taxonomy path")
	}

	var tax *taxonomy.Taxonomy
	if isDir {
		tax, err = taxonomy.NewTaxonomyFromNCBI(path)
	} else {
		tax, err = taxonomy.NewTaxonomy(path)
	}
	if err != nil {
		return nil, err
	}

	log.Infof("  %s taxa loaded from %s", humanize.Comma(int64(tax.Tree.Len())), path)
	for _, line := range orphanWarnings(tax.Orphans) {
		log.Warning(line)
	}
	return tax, nil
}

// orphanWarnings lists every orphan, one per line, after a heading.
func orphanWarnings(orphans []*taxonomy.OrphanError) []string {
	if len(orphans) == 0 {
		return nil
	}
	lines := make([]string, 0, len(orphans)+1)
	lines = append(lines, fmt.Sprintf("  %d taxa have parents absent from the table:", len(orphans)))
	for _, o := range orphans {
		lines = append(lines, "    "+o.Error())
	}
	return lines
}

// parseTaxIDs parses TaxIDs from arguments, separated by spaces or commas.
func parseTaxIDs(args []string) ([]taxonomy.TaxID, error) {
	ids := make([]taxonomy.TaxID, 0, len(args))
	for _, arg := range args {
		for _, s := range strings.FieldsFunc(arg, func(r rune) bool { return r == ',' || r == ' ' }) {
			id, err := taxonomy.ParseTaxID(s)
			if err != nil {
				return nil, fmt.Errorf("invalid TaxID: %s", s)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// defaultTaxIDMap returns the default path of the accession-to-taxid file
// in a taxonomy directory.
func defaultTaxIDMap(taxDir string) string {
	return filepath.Join(taxDir, "custom_taxonomy_ids.txt")
}
