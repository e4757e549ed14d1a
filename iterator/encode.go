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

// CodeOf returns the 2-bit code of a base: A=0, C=1, G=2, T=3.
func CodeOf(b byte) (uint64, error) {
	v := base2bit[b]
	if v == 4 {
		return 0, ErrIllegalBase
	}
	return v, nil
}

// Encode converts a k-mer into a 2k-bit code,
// the first base occupies the highest 2 bits.
func Encode(kmer []byte) (uint64, error) {
	if len(kmer) == 0 || len(kmer) > 32 {
		return 0, ErrInvalidK
	}
	return encodeAt(kmer, 0, len(kmer))
}

// EncodeKmers returns codes of all k-mers of s, one per start position.
// An empty slice is returned if k is larger than the sequence length.
func EncodeKmers(s []byte, k int) ([]uint64, error) {
	if k < 1 || k > 32 {
		return nil, ErrInvalidK
	}
	if len(s) < k {
		return []uint64{}, nil
	}
	return EncodeKmersTo(make([]uint64, 0, len(s)-k+1), s, k)
}

// EncodeKmersTo is similar to EncodeKmers, but the codes are stored
// in the given slice, which is reset before using.
func EncodeKmersTo(codes []uint64, s []byte, k int) ([]uint64, error) {
	codes = codes[:0]
	if k < 1 || k > 32 {
		return codes, ErrInvalidK
	}
	if len(s) < k {
		return codes, nil
	}

	code, err := encodeAt(s, 0, k)
	if err != nil {
		return codes, err
	}
	codes = append(codes, code)

	var mask uint64 = 1<<(uint(k)<<1) - 1
	var v uint64
	for i := k; i < len(s); i++ {
		v = base2bit[s[i]]
		if v == 4 {
			return codes[:0], illegalBaseAt(s, i)
		}
		code = (code<<2 | v) & mask
		codes = append(codes, code)
	}
	return codes, nil
}
