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
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/cli135/computational-genomics-team-47/taxonomy"
	"github.com/pelletier/go-toml/v2"
	"github.com/shenwei356/util/pathutil"
	"github.com/shenwei356/xopen"
	"github.com/twotwotwo/sorts/sortutil"
)

var be = binary.BigEndian

// Magic number of the k-mer file.
var Magic = [8]byte{'c', 'o', 'n', 't', 'a', 'm', 'k', 'm'}

var MainVersion uint8 = 0
var MinorVersion uint8 = 1

// files in an index directory
const (
	FileInfo     = "info.toml"
	FileTaxonomy = "taxonomy.tsv"
	FileKmers    = "kmers.bin"
)

// ErrInvalidFileFormat means invalid file format.
var ErrInvalidFileFormat = errors.New("contam: invalid binary format")

// ErrBrokenFile means the file is not complete.
var ErrBrokenFile = errors.New("contam: broken file")

// ErrVersionMismatch means version mismatch between files and program.
var ErrVersionMismatch = errors.New("contam: version mismatch")

// ErrDirExists means the output directory exists and overwriting is not allowed.
var ErrDirExists = errors.New("contam: output directory exists")

// IndexInfo is the summary of an index, saved in info.toml.
type IndexInfo struct {
	MainVersion  uint8 `toml:"main-version" comment:"Index format"`
	MinorVersion uint8 `toml:"minor-version"`

	K        int `toml:"k" comment:"K-mer size"`
	Kmers    int `toml:"kmers" comment:"Distinct k-mers"`
	Encoded  int `toml:"encoded-kmers"`
	Verbatim int `toml:"verbatim-kmers"`
	Taxa     int `toml:"taxa" comment:"Nodes in the pruned taxonomy"`

	SkipLowComplexity bool `toml:"skip-low-complexity"`

	Created string `toml:"created"`

	Genomes []GenomeInfo `toml:"genomes"`
}

// Info returns the summary of the index.
func (idx *Index) Info() *IndexInfo {
	return &IndexInfo{
		MainVersion:  MainVersion,
		MinorVersion: MinorVersion,
		K:            idx.k,
		Kmers:        idx.Len(),
		Encoded:      len(idx.codes),
		Verbatim:     len(idx.verbatim),
		Taxa:         idx.taxonomy.Tree.Len(),

		SkipLowComplexity: idx.skipLowComplexity,
		Created:           time.Now().Format(time.RFC3339),
		Genomes:           idx.Genomes,
	}
}

// WriteToPath writes an index to a directory.
func (idx *Index) WriteToPath(dir string, overwrite bool) error {
	exists, err := pathutil.DirExists(dir)
	if err != nil {
		return err
	}
	if exists {
		if !overwrite {
			return ErrDirExists
		}
		if err = os.RemoveAll(dir); err != nil {
			return err
		}
	}
	if err = os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// info
	data, err := toml.Marshal(idx.Info())
	if err != nil {
		return err
	}
	if err = os.WriteFile(filepath.Join(dir, FileInfo), data, 0644); err != nil {
		return err
	}

	// taxonomy
	outfh, err := xopen.Wopen(filepath.Join(dir, FileTaxonomy))
	if err != nil {
		return err
	}
	if err = idx.taxonomy.Tree.WriteTable(outfh); err != nil {
		outfh.Close()
		return err
	}
	if err = outfh.Close(); err != nil {
		return err
	}

	// k-mers
	_, err = idx.WriteToFile(filepath.Join(dir, FileKmers))
	return err
}

// NewFromPath reads an index from a directory.
func NewFromPath(dir string) (*Index, error) {
	data, err := os.ReadFile(filepath.Join(dir, FileInfo))
	if err != nil {
		return nil, err
	}
	var info IndexInfo
	if err = toml.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("contam: %s: %s", FileInfo, err)
	}
	if info.MainVersion != MainVersion {
		return nil, ErrVersionMismatch
	}

	tax, err := taxonomy.NewTaxonomy(filepath.Join(dir, FileTaxonomy))
	if err != nil {
		return nil, err
	}

	fh, err := xopen.Ropen(filepath.Join(dir, FileKmers))
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	idx, err := Read(fh, taxonomy.PrunedFromTree(tax.Tree))
	if err != nil {
		return nil, err
	}
	if idx.k != info.K {
		return nil, fmt.Errorf("contam: k-mer size mismatch: %d (%s) != %d (%s)",
			info.K, FileInfo, idx.k, FileKmers)
	}
	if info.SkipLowComplexity {
		idx.SkipLowComplexity()
	}
	idx.Genomes = info.Genomes
	if idx.Genomes == nil {
		idx.Genomes = make([]GenomeInfo, 0)
	}
	return idx, nil
}

// WriteToFile writes the k-mers to a file,
// optional with file extensions of .gz, .xz, .zst, .bz2.
func (idx *Index) WriteToFile(file string) (int, error) {
	outfh, err := xopen.Wopen(file)
	if err != nil {
		return 0, err
	}
	defer outfh.Close()

	return idx.Write(outfh)
}

// Write writes the k-mers, sorted, so the output is deterministic.
//
// Header (32 bytes):
//
//	Magic number, 8 bytes, contamkm
//	Main and minor versions, 2 bytes
//	K, 1 byte
//	Blank, 5 bytes
//	Number of encoded k-mers: 8 bytes
//	Number of verbatim k-mers: 8 bytes
//
// Data:
//
//	Encoded k-mers, 12 bytes each: code (uint64), TaxID (uint32)
//	Verbatim k-mers, k+4 bytes each: k-mer, TaxID (uint32)
func (idx *Index) Write(w io.Writer) (int, error) {
	var N int // the number of bytes.
	var err error

	bw := bufio.NewWriter(w)

	// 8-byte magic number
	err = binary.Write(bw, be, Magic)
	if err != nil {
		return N, err
	}
	N += 8

	// 8-byte meta info
	err = binary.Write(bw, be, [8]uint8{MainVersion, MinorVersion, uint8(idx.k)})
	if err != nil {
		return N, err
	}
	N += 8

	// numbers of k-mers
	err = binary.Write(bw, be, [2]uint64{uint64(len(idx.codes)), uint64(len(idx.verbatim))})
	if err != nil {
		return N, err
	}
	N += 16

	codes := make([]uint64, 0, len(idx.codes))
	for code := range idx.codes {
		codes = append(codes, code)
	}
	sortutil.Uint64s(codes)

	buf := make([]byte, 12)
	for _, code := range codes {
		be.PutUint64(buf[:8], code)
		be.PutUint32(buf[8:12], uint32(idx.codes[code]))
		if _, err = bw.Write(buf); err != nil {
			return N, err
		}
		N += 12
	}

	kmers := make([]string, 0, len(idx.verbatim))
	for kmer := range idx.verbatim {
		kmers = append(kmers, kmer)
	}
	sort.Strings(kmers)

	for _, kmer := range kmers {
		if _, err = bw.WriteString(kmer); err != nil {
			return N, err
		}
		be.PutUint32(buf[:4], uint32(idx.verbatim[kmer]))
		if _, err = bw.Write(buf[:4]); err != nil {
			return N, err
		}
		N += len(kmer) + 4
	}

	return N, bw.Flush()
}

// Read reads k-mers from an io.Reader, TaxIDs must exist in the given taxonomy.
func Read(r io.Reader, tax *taxonomy.Pruned) (*Index, error) {
	buf := make([]byte, 64)

	var err error

	// check the magic number
	if _, err = io.ReadFull(r, buf[:8]); err != nil {
		return nil, ErrBrokenFile
	}
	same := true
	for i := 0; i < 8; i++ {
		if Magic[i] != buf[i] {
			same = false
			break
		}
	}
	if !same {
		return nil, ErrInvalidFileFormat
	}

	// read metadata
	if _, err = io.ReadFull(r, buf[:8]); err != nil {
		return nil, ErrBrokenFile
	}
	// check compatibility
	if MainVersion != buf[0] {
		return nil, ErrVersionMismatch
	}
	// check k-mer size
	if buf[2] < 1 || buf[2] > 32 {
		return nil, ErrKOverflow
	}
	k := int(buf[2])

	idx, err := NewIndex(k, tax)
	if err != nil {
		return nil, err
	}

	// the numbers of k-mers
	_, err = io.ReadFull(r, buf[:16])
	if err != nil {
		return nil, ErrBrokenFile
	}
	nCodes := be.Uint64(buf[:8])
	nVerbatim := be.Uint64(buf[8:16])

	var taxid taxonomy.TaxID
	for i := uint64(0); i < nCodes; i++ {
		if _, err = io.ReadFull(r, buf[:12]); err != nil {
			return nil, ErrBrokenFile
		}
		taxid = taxonomy.TaxID(be.Uint32(buf[8:12]))
		if _, ok := tax.Tree.Node(taxid); !ok {
			return nil, &taxonomy.UnknownTaxIDError{ID: taxid}
		}
		idx.codes[be.Uint64(buf[:8])] = taxid
	}

	rec := make([]byte, k+4)
	for i := uint64(0); i < nVerbatim; i++ {
		if _, err = io.ReadFull(r, rec); err != nil {
			return nil, ErrBrokenFile
		}
		taxid = taxonomy.TaxID(be.Uint32(rec[k:]))
		if _, ok := tax.Tree.Node(taxid); !ok {
			return nil, &taxonomy.UnknownTaxIDError{ID: taxid}
		}
		idx.verbatim[string(rec[:k])] = taxid
	}

	return idx, nil
}

// Dump writes all k-mers and their TaxIDs in plain text, sorted.
func (idx *Index) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)
	decoder := MustDecoder()

	codes := make([]uint64, 0, len(idx.codes))
	for code := range idx.codes {
		codes = append(codes, code)
	}
	sortutil.Uint64s(codes)

	var err error
	for _, code := range codes {
		if _, err = fmt.Fprintf(bw, "%s\t%d\n", decoder(code, uint8(idx.k)), idx.codes[code]); err != nil {
			return err
		}
	}

	kmers := make([]string, 0, len(idx.verbatim))
	for kmer := range idx.verbatim {
		kmers = append(kmers, kmer)
	}
	sort.Strings(kmers)
	for _, kmer := range kmers {
		if _, err = fmt.Fprintf(bw, "%s\t%d\n", kmer, idx.verbatim[kmer]); err != nil {
			return err
		}
	}
	return bw.Flush()
}
