// Copyright © 2024 Wei Shen <shenwei356@gmail.com>
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

package dnarepeat

import (
	"fmt"
	"sync"

	"github.com/shenwei356/dnarepeat/iterator"
)

// Orientation is the relative direction of the two copies of a repeat.
type Orientation uint8

const (
	// Direct means the two copies are on the same strand.
	Direct Orientation = iota
	// Inverted means the subject is the reverse complement of the query.
	Inverted
)

func (o Orientation) String() string {
	switch o {
	case Direct:
		return "direct"
	case Inverted:
		return "inverted"
	}
	return fmt.Sprintf("Orientation(%d)", uint8(o))
}

// RepeatHit is a pair of similar k-mers.
// Positions are 1-based and both ends are included.
type RepeatHit struct {
	RecordID string

	QueryStart   int
	QueryEnd     int
	SubjectStart int
	SubjectEnd   int

	QuerySeq   string
	SubjectSeq string // always on the positive strand

	Mismatches  int
	K           int
	Orientation Orientation
}

func (h *RepeatHit) String() string {
	return fmt.Sprintf("%s %s %d-%d %s vs %d-%d %s, mismatches: %d",
		h.RecordID, h.Orientation, h.QueryStart, h.QueryEnd, h.QuerySeq,
		h.SubjectStart, h.SubjectEnd, h.SubjectSeq, h.Mismatches)
}

// SearchOptions contains the parameters of repeat searching.
type SearchOptions struct {
	K             int // k-mer size, [4, 30]
	MaxMismatches int // [0, K/2]

	Direct   bool // search direct repeats
	Inverted bool // search inverted repeats

	// drop hits where the query k-mer is of low-complexity
	SkipLowComplexity bool
}

// DefaultSearchOptions is the default options.
var DefaultSearchOptions = SearchOptions{
	K:             20,
	MaxMismatches: 0,

	Direct:   true,
	Inverted: true,
}

// Validate checks the k-mer size and the number of mismatches.
func (opt *SearchOptions) Validate() error {
	return checkParameters(opt.K, opt.MaxMismatches)
}

func checkParameters(k, m int) error {
	if k < MinK || k > MaxK {
		return ErrKOverflow
	}
	if m < 0 || m > k/2 {
		return ErrMismatchOverflow
	}
	return nil
}

// the code arrays only live during one search.
var poolCodes = &sync.Pool{New: func() interface{} {
	tmp := make([]uint64, 0, 1024)
	return &tmp
}}

// FindDirectRepeats finds all pairs of k-mers with no more than m mismatches
// on the same strand. The query always starts before the subject.
// No hits are returned if k is larger than the sequence length.
func FindDirectRepeats(id string, s []byte, k, m int) ([]*RepeatHit, error) {
	return findDirect(id, s, k, m, false)
}

// FindInvertedRepeats finds all pairs of k-mers where the reverse complement
// of the subject has no more than m mismatches with the query.
// No hits are returned if k is larger than the sequence length.
func FindInvertedRepeats(id string, s []byte, k, m int) ([]*RepeatHit, error) {
	return findInverted(id, s, k, m, false)
}

// Find searches repeats with the given options, direct hits come first.
func Find(id string, s []byte, opt *SearchOptions) ([]*RepeatHit, error) {
	if err := opt.Validate(); err != nil {
		return nil, err
	}

	var hits, hits2 []*RepeatHit
	var err error
	if opt.Direct {
		hits, err = findDirect(id, s, opt.K, opt.MaxMismatches, opt.SkipLowComplexity)
		if err != nil {
			return nil, err
		}
	}
	if opt.Inverted {
		hits2, err = findInverted(id, s, opt.K, opt.MaxMismatches, opt.SkipLowComplexity)
		if err != nil {
			return nil, err
		}
		if hits == nil {
			return hits2, nil
		}
		hits = append(hits, hits2...)
	}
	return hits, nil
}

func findDirect(id string, s []byte, k, m int, skipLowComplexity bool) ([]*RepeatHit, error) {
	if err := checkParameters(k, m); err != nil {
		return nil, err
	}
	if len(s) < k {
		return []*RepeatHit{}, nil
	}

	codes := poolCodes.Get().(*[]uint64)
	defer poolCodes.Put(codes)

	var err error
	*codes, err = iterator.EncodeKmersTo(*codes, s, k)
	if err != nil {
		return nil, err
	}

	lsb := LSBMask(k)
	lc := newLowComplexityChecker(*codes, k, skipLowComplexity)
	hits := make([]*RepeatHit, 0, 8)

	var i, j, d int
	var a uint64
	cs := *codes
	n := len(cs)
	for i = 0; i < n; i++ {
		a = cs[i]
		for j = i + 1; j < n; j++ {
			d = hamming(a, cs[j], lsb)
			if d > m {
				continue
			}
			if lc.isLow(i) {
				break
			}

			hits = append(hits, &RepeatHit{
				RecordID:     id,
				QueryStart:   i + 1,
				QueryEnd:     i + k,
				SubjectStart: j + 1,
				SubjectEnd:   j + k,
				QuerySeq:     string(s[i : i+k]),
				SubjectSeq:   string(s[j : j+k]),
				Mismatches:   d,
				K:            k,
				Orientation:  Direct,
			})
		}
	}

	return hits, nil
}

func findInverted(id string, s []byte, k, m int, skipLowComplexity bool) ([]*RepeatHit, error) {
	if err := checkParameters(k, m); err != nil {
		return nil, err
	}
	if len(s) < k {
		return []*RepeatHit{}, nil
	}

	nk := len(s) - k + 1
	codes := poolCodes.Get().(*[]uint64)
	defer poolCodes.Put(codes)
	codesRC := poolCodes.Get().(*[]uint64)
	defer poolCodes.Put(codesRC)
	cs, csRC := resizeCodes(codes, nk), resizeCodes(codesRC, nk)

	// codes of the reverse complement sequence are filled from its end,
	// in the same pass as codes of the positive strand.
	iter, err := iterator.NewKmerIterator(s, k)
	if err != nil {
		return nil, err
	}
	var code, codeRC uint64
	var ok bool
	for {
		code, codeRC, ok, err = iter.NextKmer()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		cs[iter.Index()] = code
		csRC[nk-1-iter.Index()] = codeRC
	}

	lsb := LSBMask(k)
	lc := newLowComplexityChecker(cs, k, skipLowComplexity)
	hits := make([]*RepeatHit, 0, 8)

	var i, j, d, e, start int
	var a uint64
	n := len(s)
	for i = 0; i < len(cs); i++ {
		a = cs[i]
		// j < len(csRC)-i, so the subject never starts before the query.
		// A k-mer can match its own reverse complement (palindromes).
		e = len(csRC) - i
		for j = 0; j < e; j++ {
			d = hamming(a, csRC[j], lsb)
			if d > m {
				continue
			}
			if lc.isLow(i) {
				break
			}

			start = n - j - k // 0-based start on the positive strand
			hits = append(hits, &RepeatHit{
				RecordID:     id,
				QueryStart:   i + 1,
				QueryEnd:     i + k,
				SubjectStart: start + 1,
				SubjectEnd:   n - j,
				QuerySeq:     string(s[i : i+k]),
				SubjectSeq:   string(s[start : n-j]),
				Mismatches:   d,
				K:            k,
				Orientation:  Inverted,
			})
		}
	}

	return hits, nil
}

func resizeCodes(codes *[]uint64, n int) []uint64 {
	if cap(*codes) < n {
		*codes = make([]uint64, n)
	} else {
		*codes = (*codes)[:n]
	}
	return *codes
}
