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

// IsLowComplexity checks if a k-mer is of low-complexity,
// i.e., it's a homopolymer or made of a few tandem copies of short units.
func IsLowComplexity(code uint64, k int) bool {
	return isLowComplexity(MustDecode(code, uint8(k)), make(map[string]int, k))
}

// isLowComplexity counts all sub-k-mers of 2 to k/2 bases,
// the map is cleared before using.
func isLowComplexity(kmer []byte, count map[string]int) bool {
	k := len(kmer)
	var i int
	for size := 2; size <= k/2; size++ {
		clear(count)
		for i = 0; i+size <= k; i++ {
			count[string(kmer[i:i+size])]++
		}
		for unit, c := range count {
			// 4 copies of any unit, including a homopolymer run of 5+ bases,
			// or fewer copies of a longer unit: 2-mer x4, 3-mer x3, 4+mer x2.
			if c >= 4 || (c > 1 && len(unit)+c >= 6) {
				return true
			}
		}
	}
	return false
}

// lowComplexityChecker caches the results of isLowComplexity for
// k-mers of a sequence, as a query k-mer might have many hits.
type lowComplexityChecker struct {
	codes   []uint64
	k       int
	enabled bool

	flags  []uint8 // 0: unknown, 1: no, 2: yes
	decode func(code uint64, k uint8) []byte
	count  map[string]int
}

func newLowComplexityChecker(codes []uint64, k int, enabled bool) *lowComplexityChecker {
	c := &lowComplexityChecker{codes: codes, k: k, enabled: enabled}
	if enabled {
		c.flags = make([]uint8, len(codes))
		c.decode = MustDecoder()
		c.count = make(map[string]int, k)
	}
	return c
}

func (c *lowComplexityChecker) isLow(i int) bool {
	if !c.enabled {
		return false
	}
	switch c.flags[i] {
	case 1:
		return false
	case 2:
		return true
	}
	if isLowComplexity(c.decode(c.codes[i], uint8(c.k)), c.count) {
		c.flags[i] = 2
		return true
	}
	c.flags[i] = 1
	return false
}
