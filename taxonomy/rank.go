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

package taxonomy

import "strings"

// Rank is a taxonomic rank.
type Rank uint8

// Ranks supported. Labels outside this vocabulary are Unranked.
const (
	Unranked Rank = iota
	SuperKingdom
	Kingdom
	Phylum
	Class
	Order
	Family
	Subfamily
	Genus
	Species
	Subspecies
)

var rank2label = [...]string{
	Unranked:     "no rank",
	SuperKingdom: "superkingdom",
	Kingdom:      "kingdom",
	Phylum:       "phylum",
	Class:        "class",
	Order:        "order",
	Family:       "family",
	Subfamily:    "subfamily",
	Genus:        "genus",
	Species:      "species",
	Subspecies:   "subspecies",
}

var rank2abbr = [...]string{
	Unranked:     "",
	SuperKingdom: "SK",
	Kingdom:      "K",
	Phylum:       "P",
	Class:        "C",
	Order:        "O",
	Family:       "F",
	Subfamily:    "SF",
	Genus:        "G",
	Species:      "S",
	Subspecies:   "SS",
}

var label2rank = map[string]Rank{
	"no rank":      Unranked,
	"superkingdom": SuperKingdom,
	"domain":       SuperKingdom, // NCBI renamed superkingdom to domain in 2025
	"kingdom":      Kingdom,
	"phylum":       Phylum,
	"class":        Class,
	"order":        Order,
	"family":       Family,
	"subfamily":    Subfamily,
	"genus":        Genus,
	"species":      Species,
	"subspecies":   Subspecies,
}

// ParseRank returns the Rank of a rank label, case-insensitive.
func ParseRank(label string) Rank {
	if r, ok := label2rank[strings.ToLower(strings.TrimSpace(label))]; ok {
		return r
	}
	return Unranked
}

func (r Rank) String() string {
	if int(r) < len(rank2label) {
		return rank2label[r]
	}
	return rank2label[Unranked]
}

// Abbr returns the short code of a rank, e.g., "G" for genus,
// and an empty string for Unranked.
func (r Rank) Abbr() string {
	if int(r) < len(rank2abbr) {
		return rank2abbr[r]
	}
	return ""
}
