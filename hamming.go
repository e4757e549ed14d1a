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

import "math/bits"

// LSBMask returns a mask of k repeats of "01", i.e., (4^k-1)/3,
// which keeps the lower bit of each 2-bit base.
func LSBMask(k int) uint64 {
	return (1<<(uint(k)<<1) - 1) / 3
}

// HammingDistance returns the number of mismatched bases between
// two k-mer codes of the same size.
//
// A matched base gives 00 in a^b, while a mismatch gives 01, 10, or 11.
// Folding the higher bit of each pair into the lower one with d|d>>1,
// one bit per mismatched base is left after masking with "0101...01".
func HammingDistance(a, b uint64, k int) int {
	d := a ^ b
	return bits.OnesCount64((d | d>>1) & LSBMask(k))
}

// hamming is the inlined version used in loops, where lsb is LSBMask(k).
func hamming(a, b, lsb uint64) int {
	d := a ^ b
	return bits.OnesCount64((d | d>>1) & lsb)
}
