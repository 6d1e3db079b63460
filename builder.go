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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/cli135/computational-genomics-team-47/taxonomy"
	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// DefaultFileRegexp matches FASTA/Q files, optionally compressed.
var DefaultFileRegexp = regexp.MustCompile(`(?i)\.(f[aq](st[aq])?|fna|fas|seq)(\.gz|\.xz|\.zst|\.bz2)?$`)

// DefaultRefNameRegexp captures NCBI assembly accessions from file names,
// e.g., GCA_001500975.1 in GCA_001500975.1_ViralProj306529_genomic.fna.
var DefaultRefNameRegexp = regexp.MustCompile(`^([A-Z]{2,3}_\d+\.\d+)`)

// BuildOptions contains options for building an index from reference genomes.
type BuildOptions struct {
	K int // k-mer size

	RefDir     string         // directory of reference genome files
	FileRegexp *regexp.Regexp // for matching reference files in RefDir

	// for extracting the accession from a file name,
	// used when the record id is not in the accession-to-taxid map.
	ReRefName *regexp.Regexp

	SkipLowComplexity bool // ignore low-complexity k-mers

	Verbose bool // show the progress bar
}

// CheckBuildOptions checks some important options.
func CheckBuildOptions(opt *BuildOptions) error {
	if opt.K < 1 || opt.K > 32 {
		return fmt.Errorf("invalid k value: %d, valid range: [1, 32]", opt.K)
	}
	if opt.RefDir == "" {
		return fmt.Errorf("directory of reference genomes needed")
	}
	if opt.FileRegexp == nil {
		opt.FileRegexp = DefaultFileRegexp
	}
	if opt.ReRefName == nil {
		opt.ReRefName = DefaultRefNameRegexp
	}
	return nil
}

// BuildStats records what happened during a build.
type BuildStats struct {
	Files   int
	Records int
	Kmers   int

	// ids of records skipped because their accessions are absent
	// from the accession-to-taxid map
	Skipped []string

	Time time.Duration
}

// ListFiles returns files in a directory matching the regular expression,
// in lexical order.
func ListFiles(dir string, re *regexp.Regexp) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read reference directory")
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !re.MatchString(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// RefNameFromFile returns the accession in a file name, or the
// file name with extensions trimmed.
func RefNameFromFile(file string, re *regexp.Regexp) string {
	base := filepath.Base(file)
	if re != nil {
		if m := re.FindStringSubmatch(base); len(m) > 1 {
			return m[1]
		}
	}
	return trimExtensions(base)
}

func trimExtensions(base string) string {
	for _, ext := range []string{".gz", ".xz", ".zst", ".bz2"} {
		if strings.HasSuffix(strings.ToLower(base), ext) {
			base = base[:len(base)-len(ext)]
			break
		}
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Build builds an index from the reference genomes in opt.RefDir.
//
// The taxonomy is pruned to the TaxIDs of the accession-to-taxid map.
// A record is assigned the TaxID of its id, or of the accession in the
// file name. Records matching neither are skipped and listed in BuildStats.
func Build(opt *BuildOptions, tax *taxonomy.Taxonomy, acc2taxid map[string]taxonomy.TaxID) (*Index, *BuildStats, error) {
	if err := CheckBuildOptions(opt); err != nil {
		return nil, nil, err
	}

	pruned, err := tax.Prune(taxonomy.TaxIDs(acc2taxid))
	if err != nil {
		return nil, nil, errors.Wrapf(err, "prune taxonomy")
	}

	files, err := ListFiles(opt.RefDir, opt.FileRegexp)
	if err != nil {
		return nil, nil, err
	}

	idx, err := NewIndex(opt.K, pruned)
	if err != nil {
		return nil, nil, err
	}
	if opt.SkipLowComplexity {
		idx.SkipLowComplexity()
	}

	stats, err := idx.AddFiles(files, acc2taxid, opt.ReRefName, opt.Verbose)
	if err != nil {
		return nil, nil, err
	}
	return idx, stats, nil
}

// AddFiles adds reference genomes in FASTA/Q files one by one.
func (idx *Index) AddFiles(files []string, acc2taxid map[string]taxonomy.TaxID,
	reRefName *regexp.Regexp, verbose bool) (*BuildStats, error) {
	timeStart := time.Now()
	stats := &BuildStats{Skipped: make([]string, 0, 8)}

	var pbs *mpb.Progress
	var bar *mpb.Bar
	if verbose {
		pbs = mpb.New(mpb.WithWidth(40), mpb.WithOutput(os.Stderr))
		bar = pbs.AddBar(int64(len(files)),
			mpb.PrependDecorators(
				decor.Name("processed files: ", decor.WC{W: len("processed files: "), C: decor.DindentRight}),
				decor.Name("", decor.WCSyncSpaceR),
				decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
			),
			mpb.AppendDecorators(
				decor.Name("ETA: ", decor.WC{W: len("ETA: ")}),
				decor.EwmaETA(decor.ET_STYLE_GO, 10),
				decor.OnComplete(decor.Name(""), ". done"),
			),
		)
	}

	var record *fastx.Record
	var fastxReader *fastx.Reader
	var err error
	var taxid taxonomy.TaxID
	var ok bool
	var refName, id string
	var n int
	for _, file := range files {
		startTime := time.Now()
		refName = RefNameFromFile(file, reRefName)

		fastxReader, err = fastx.NewReader(nil, file, "")
		if err != nil {
			return nil, errors.Wrapf(err, "read reference file: %s", file)
		}

		for {
			record, err = fastxReader.Read()
			if err != nil {
				if err == io.EOF {
					break
				}
				fastxReader.Close()
				return nil, errors.Wrapf(err, "read reference file: %s", file)
			}

			id = string(record.ID)
			if taxid, ok = acc2taxid[id]; !ok {
				if taxid, ok = acc2taxid[refName]; !ok {
					stats.Skipped = append(stats.Skipped, id)
					continue
				}
			}

			n = len(idx.Genomes)
			if err = idx.AddGenome(id, taxid, record.Seq.Seq); err != nil {
				fastxReader.Close()
				return nil, errors.Wrapf(err, "add %s in %s", id, file)
			}
			stats.Records++
			stats.Kmers += idx.Genomes[n].Kmers
		}
		fastxReader.Close()
		stats.Files++

		if verbose {
			bar.EwmaIncrBy(1, time.Since(startTime))
		}
	}
	if verbose {
		pbs.Wait()
	}

	stats.Time = time.Since(timeStart)
	return stats, nil
}
