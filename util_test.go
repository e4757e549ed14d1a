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
	"math/rand"
	"testing"

	"github.com/shenwei356/dnarepeat/iterator"

	"github.com/shenwei356/kmers"
)

func TestLowComplexity(t *testing.T) {
	type Case struct {
		Kmer string
		LowC bool
	}
	tests := []Case{
		{"AAAAAAAAAA", true},
		{"TTTTTTTTTTTTTTTTTTTT", true},
		{"ATATATATAT", true},
		{"CAGCAGCAGCAG", true},
		{"GATTACAGGT", false},
		{"GCCAGGCAAGTTTTCTGCTT", true},
		{"ACGTTGCAAGTC", false},
		{"ACGT", false},
	}

	var code uint64
	var r bool
	for i, test := range tests {
		code, _ = kmers.Encode([]byte(test.Kmer))
		r = IsLowComplexity(code, len(test.Kmer))
		if r != test.LowC {
			t.Errorf("[%d] %s, expected: %v, result: %v", i+1, test.Kmer, test.LowC, r)
		}
	}
}

func TestLowComplexityChecker(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	k := 12

	s := randSeq(r, 500)
	for i := 100; i < 140; i++ { // a tandem repeat region
		s[i] = "CAG"[i%3]
	}
	codes, err := iterator.EncodeKmers(s, k)
	if err != nil {
		t.Error(err)
		return
	}

	c := newLowComplexityChecker(codes, k, true)
	for round := 0; round < 2; round++ { // the second round hits the cache
		for i, code := range codes {
			if c.isLow(i) != IsLowComplexity(code, k) {
				t.Errorf("[%d] %s: unmatched result of the cached checker", i, s[i:i+k])
			}
		}
	}

	c = newLowComplexityChecker(codes, k, false)
	if c.isLow(110) {
		t.Errorf("a disabled checker should always return false")
	}
}
