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

package iterator

import (
	"errors"
	"fmt"
	"sync"

	"github.com/shenwei356/kmers"
)

// ErrInvalidK means k < 1 or K > 32
var ErrInvalidK = fmt.Errorf("k-mer iterator: invalid k-mer size (1 <= k <= 32)")

// ErrShortSeq means the sequence is shorter than k.
var ErrShortSeq = fmt.Errorf("k-mer iterator: sequence too short")

// ErrIllegalBase means that bases beyond A, C, G, T are detected.
var ErrIllegalBase = errors.New("k-mer iterator: illegal base")

var poolIterator = &sync.Pool{New: func() interface{} {
	return &Iterator{}
}}

// Iterator is a nucleotide k-mer iterator.
// Only upper-case A, C, G, T are accepted,
// a degenerate base can not be put into 2 bits.
type Iterator struct {
	s       []byte
	k       int
	kP1     int  // k -1
	kP1Uint uint // uint(k-1)

	finished bool
	idx      int

	end       int
	first     bool
	codeBase  uint64
	preCode   uint64
	preCodeRC uint64

	mask1 uint64 // (1<<(kP1Uint*2))-1
	mask2 uint   // iter.kP1Uint*2
}

// NewKmerIterator returns a k-mer code iterator.
func NewKmerIterator(s []byte, k int) (*Iterator, error) {
	if k < 1 || k > 32 {
		return nil, ErrInvalidK
	}
	if len(s) < k {
		return nil, ErrShortSeq
	}

	iter := poolIterator.Get().(*Iterator)
	iter.s = s
	iter.k = k
	iter.finished = false
	iter.idx = 0

	iter.end = len(s) - k + 1
	iter.kP1 = k - 1
	iter.kP1Uint = uint(k - 1)
	iter.mask1 = (1 << (iter.kP1Uint << 1)) - 1
	iter.mask2 = iter.kP1Uint << 1

	iter.first = true

	return iter, nil
}

// NextKmer returns next two k-mer codes.
// code is from the positive strand,
// codeRC is from the negative strand.
func (iter *Iterator) NextKmer() (code, codeRC uint64, ok bool, err error) {
	if iter.finished {
		return 0, 0, false, nil
	}

	if iter.idx == iter.end { // recycle the Iterator
		iter.finished = true
		poolIterator.Put(iter)
		return 0, 0, false, nil
	}

	if !iter.first {
		iter.codeBase = base2bit[iter.s[iter.idx+iter.kP1]]
		if iter.codeBase == 4 {
			return 0, 0, false, illegalBaseAt(iter.s, iter.idx+iter.kP1)
		}

		// compute code from previous one
		code = (iter.preCode&iter.mask1)<<2 | iter.codeBase

		// compute code of revcomp kmer from previous one
		codeRC = (iter.codeBase^3)<<(iter.mask2) | (iter.preCodeRC >> 2)
	} else {
		code, err = encodeAt(iter.s, iter.idx, iter.k)
		if err != nil {
			return 0, 0, false, err
		}
		codeRC = kmers.MustRevComp(code, iter.k)
		iter.first = false
	}

	iter.preCode = code
	iter.preCodeRC = codeRC
	iter.idx++

	return code, codeRC, true, nil
}

// Index returns the 0-based start position of the last k-mer.
func (iter *Iterator) Index() int {
	return iter.idx - 1
}

func illegalBaseAt(s []byte, i int) error {
	return fmt.Errorf("%w: %q at position %d", ErrIllegalBase, s[i], i+1)
}

// encodeAt encodes s[start:start+k], positions in errors are relative to s.
func encodeAt(s []byte, start, k int) (code uint64, err error) {
	var v uint64
	for i := start; i < start+k; i++ {
		v = base2bit[s[i]]
		if v == 4 {
			return 0, illegalBaseAt(s, i)
		}
		code = code<<2 | v
	}
	return code, nil
}

var base2bit = [256]uint64{
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 0, 4, 1, 4, 4, 4, 2, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 3, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
}
