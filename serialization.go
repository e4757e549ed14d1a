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
	"encoding/binary"
	"errors"
	"io"
	"math"

	"github.com/shenwei356/dnarepeat/iterator"
	"github.com/shenwei356/xopen"
)

var be = binary.BigEndian

// maxCount bounds the number of codes and the length of ID in a header,
// so that 8*count fits in an int.
const maxCount = math.MaxInt / 8

const codesChunk = 1 << 16

// Magic number of the binary k-mer code file.
var Magic = [8]byte{'d', 'n', 'a', 'r', 'p', 'k', 'c', 0}

var MainVersion uint8 = 0
var MinorVersion uint8 = 1

// ErrInvalidFileFormat means invalid file format.
var ErrInvalidFileFormat = errors.New("dnarepeat: invalid binary format")

// ErrBrokenFile means the file is not complete.
var ErrBrokenFile = errors.New("dnarepeat: broken file")

// ErrVersionMismatch means version mismatch between files and program.
var ErrVersionMismatch = errors.New("dnarepeat: version mismatch")

// KmerCodes stores the codes of all k-mers of a sequence.
type KmerCodes struct {
	ID    []byte
	K     int
	Codes []uint64
}

// NewKmerCodes encodes all k-mers of a sequence.
func NewKmerCodes(id []byte, s []byte, k int) (*KmerCodes, error) {
	if k < MinK || k > MaxK {
		return nil, ErrKOverflow
	}
	codes, err := iterator.EncodeKmers(s, k)
	if err != nil {
		return nil, err
	}
	return &KmerCodes{ID: id, K: k, Codes: codes}, nil
}

// WriteKmerCodesToFile writes one or more KmerCodes to a file,
// optional with file extensions of .gz, .xz, .zst, .bz2.
func WriteKmerCodesToFile(file string, kcs ...*KmerCodes) (int, error) {
	outfh, err := xopen.Wopen(file)
	if err != nil {
		return 0, err
	}
	defer outfh.Close()

	var N, n int
	for _, kc := range kcs {
		n, err = kc.Write(outfh)
		N += n
		if err != nil {
			return N, err
		}
	}
	return N, nil
}

// ReadKmerCodesFromFile reads all KmerCodes from a file.
func ReadKmerCodesFromFile(file string) ([]*KmerCodes, error) {
	fh, err := xopen.Ropen(file)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	kcs := make([]*KmerCodes, 0, 8)
	var kc *KmerCodes
	for {
		kc, err = ReadKmerCodes(fh)
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		kcs = append(kcs, kc)
	}
	return kcs, nil
}

// Write writes a KmerCodes.
//
// Header (32 bytes + length of ID):
//
//	Magic number, 8 bytes, dnarpkc\0
//	Main and minor versions, 2 bytes
//	K, 1 byte
//	Blank, 5 bytes
//	Number of codes: 8 bytes
//	Length of ID: 8 bytes
//	ID: variable length
//
// Data: codes.
//
//	Codes in uint64, 8*$(the number of codes)
func (kc *KmerCodes) Write(w io.Writer) (int, error) {
	var N int // the number of bytes.
	var err error

	// 8-byte magic number
	err = binary.Write(w, be, Magic)
	if err != nil {
		return N, err
	}
	N += 8

	// 8-byte meta info
	err = binary.Write(w, be, [8]uint8{MainVersion, MinorVersion, uint8(kc.K)})
	if err != nil {
		return N, err
	}
	N += 8

	// 8-byte the number of codes
	err = binary.Write(w, be, uint64(len(kc.Codes)))
	if err != nil {
		return N, err
	}
	N += 8

	// 8-byte the length of ID, and the ID
	err = binary.Write(w, be, uint64(len(kc.ID)))
	if err != nil {
		return N, err
	}
	N += 8
	_, err = w.Write(kc.ID)
	if err != nil {
		return N, err
	}
	N += len(kc.ID)

	data := make([]byte, 8*len(kc.Codes))
	var i int
	for _, code := range kc.Codes {
		be.PutUint64(data[i:i+8], code)
		i += 8
	}
	_, err = w.Write(data)
	if err != nil {
		return N, err
	}
	N += len(data)

	return N, nil
}

// ReadKmerCodes reads a KmerCodes from an io.Reader.
// io.EOF is returned if there's no more data.
func ReadKmerCodes(r io.Reader) (*KmerCodes, error) {
	buf := make([]byte, 8)

	var err error

	// check the magic number
	_, err = io.ReadFull(r, buf)
	if err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, ErrBrokenFile
		}
		return nil, err
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
	if _, err = io.ReadFull(r, buf); err != nil {
		return nil, ErrBrokenFile
	}
	// check compatibility
	if MainVersion != buf[0] {
		return nil, ErrVersionMismatch
	}
	// check k-mer size
	if buf[2] < MinK || buf[2] > MaxK {
		return nil, ErrKOverflow
	}

	kc := &KmerCodes{K: int(buf[2])}

	// the number of codes
	if _, err = io.ReadFull(r, buf); err != nil {
		return nil, ErrBrokenFile
	}
	nCodes := be.Uint64(buf)
	if nCodes > maxCount {
		return nil, ErrBrokenFile
	}

	// the ID
	if _, err = io.ReadFull(r, buf); err != nil {
		return nil, ErrBrokenFile
	}
	lenID := be.Uint64(buf)
	if lenID > maxCount {
		return nil, ErrBrokenFile
	}
	// the buffer grows with the data actually read
	kc.ID, err = io.ReadAll(io.LimitReader(r, int64(lenID)))
	if err != nil || uint64(len(kc.ID)) != lenID {
		return nil, ErrBrokenFile
	}

	// codes are read in chunks, a corrupt count fails at the end of data
	// instead of allocating it all at once.
	codes := make([]uint64, 0, min(int(nCodes), codesChunk))
	data := make([]byte, 8*min(int(nCodes), codesChunk))
	var n, i int
	for remain := int(nCodes); remain > 0; remain -= n {
		n = min(remain, codesChunk)
		if _, err = io.ReadFull(r, data[:8*n]); err != nil {
			return nil, ErrBrokenFile
		}
		for i = 0; i < 8*n; i += 8 {
			codes = append(codes, be.Uint64(data[i:i+8]))
		}
	}
	kc.Codes = codes

	return kc, nil
}
