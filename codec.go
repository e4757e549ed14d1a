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
	"errors"
	"fmt"

	"github.com/shenwei356/dnarepeat/iterator"
)

// MinK and MaxK bound the k-mer size. A k-mer is stored in 2k bits of an uint64,
// k=30 takes 60 bits.
const (
	MinK = 4
	MaxK = 30
)

// ErrKOverflow means k is out of the range of [MinK, MaxK].
var ErrKOverflow = errors.New("dnarepeat: k-mer size overflow, valid range is [4-30]")

// ErrMismatchOverflow means the number of allowed mismatches is < 0 or > k/2.
var ErrMismatchOverflow = errors.New("dnarepeat: mismatches overflow, valid range is [0, k/2]")

// ErrIllegalBase means bases other than A, C, G, T reached the encoder.
// It's the same value as iterator.ErrIllegalBase.
var ErrIllegalBase = iterator.ErrIllegalBase

var bit2base = [4]byte{'A', 'C', 'G', 'T'}

var complement = [256]byte{'A': 'T', 'C': 'G', 'G': 'C', 'T': 'A'}

// Complement returns the Watson-Crick complement of a base.
func Complement(b byte) (byte, error) {
	c := complement[b]
	if c == 0 {
		return 0, ErrIllegalBase
	}
	return c, nil
}

// RevComp returns the reverse complement sequence of s in a new slice.
func RevComp(s []byte) ([]byte, error) {
	rc := make([]byte, len(s))
	n := len(s) - 1
	var c byte
	for i, b := range s {
		c = complement[b]
		if c == 0 {
			return nil, fmt.Errorf("%w: %q at position %d", ErrIllegalBase, b, i+1)
		}
		rc[n-i] = c
	}
	return rc, nil
}

// MustDecoder returns a Decode function, which reuses the byte slice.
func MustDecoder() func(code uint64, k uint8) []byte {
	buf := make([]byte, 32)

	return func(code uint64, k uint8) []byte {
		return decodeTo(buf[:k], code)
	}
}

// MustDecode returns the k-mer of a code in a new slice.
func MustDecode(code uint64, k uint8) []byte {
	return decodeTo(make([]byte, k), code)
}

// decodeTo fills the whole kmer, from the last base backward.
func decodeTo(kmer []byte, code uint64) []byte {
	for i := len(kmer) - 1; i >= 0; i-- {
		kmer[i] = bit2base[code&3]
		code >>= 2
	}
	return kmer
}
