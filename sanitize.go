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
	"strings"
)

// EmptySequenceError means nothing is left after removing white spaces.
type EmptySequenceError struct {
	ID string
}

func (e *EmptySequenceError) Error() string {
	return fmt.Sprintf("dnarepeat: empty sequence: %s", e.ID)
}

// InvalidBase is a non-ACGT character and its 1-based position.
type InvalidBase struct {
	Base byte
	Pos  int
}

// InvalidSequenceError lists all characters beyond A, C, G, T.
type InvalidSequenceError struct {
	ID    string
	Bases []InvalidBase
}

func (e *InvalidSequenceError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "dnarepeat: %d invalid character(s) in sequence %s:", len(e.Bases), e.ID)
	for i, v := range e.Bases {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, " %q at %d", v.Base, v.Pos)
	}
	return b.String()
}

// KmerTooLongError means the k-mer size is larger than the sequence length.
type KmerTooLongError struct {
	ID  string
	K   int
	Len int
}

func (e *KmerTooLongError) Error() string {
	return fmt.Sprintf("dnarepeat: k-mer size (%d) is larger than the length of sequence %s (%d bp)",
		e.K, e.ID, e.Len)
}

// IsRecordError tells if the error only concerns a single record,
// so the remaining records could still be processed.
func IsRecordError(err error) bool {
	var e1 *EmptySequenceError
	var e2 *InvalidSequenceError
	var e3 *KmerTooLongError
	return errors.As(err, &e1) || errors.As(err, &e2) || errors.As(err, &e3)
}

// CleanAndCheck removes white spaces and converts bases to upper case,
// then checks if the sequence is made of A, C, G, T and not shorter than k.
// Positions of invalid characters are 1-based and refer to the input sequence.
// An empty ID is replaced with "No-name sequence (<length> bp)".
func CleanAndCheck(id string, seq []byte, k int) (string, []byte, error) {
	id = strings.TrimSpace(id)

	s := make([]byte, 0, len(seq))
	var bad []InvalidBase
	for i, b := range seq {
		switch b {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			continue
		}
		if b >= 'a' && b <= 'z' {
			b -= 'a' - 'A'
		}
		switch b {
		case 'A', 'C', 'G', 'T':
		default:
			bad = append(bad, InvalidBase{Base: seq[i], Pos: i + 1})
		}
		s = append(s, b)
	}

	if id == "" {
		id = fmt.Sprintf("No-name sequence (%d bp)", len(s))
	}

	if len(s) == 0 {
		return id, nil, &EmptySequenceError{ID: id}
	}
	if len(bad) > 0 {
		return id, nil, &InvalidSequenceError{ID: id, Bases: bad}
	}
	if k > len(s) {
		return id, nil, &KmerTooLongError{ID: id, K: k, Len: len(s)}
	}
	return id, s, nil
}
