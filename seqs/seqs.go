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

// Package seqs reads FASTA/Q records for repeat searching.
package seqs

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/shenwei356/dnarepeat"
)

// ErrInvalidFASTA means no sequences could be read from the file.
var ErrInvalidFASTA = errors.New("seqs: invalid FASTA/Q file, no sequences found")

func init() {
	// invalid characters are reported by dnarepeat.CleanAndCheck with positions
	seq.ValidateSeq = false
}

func newReader(file string) (*fastx.Reader, error) {
	if file != "-" {
		if _, err := os.Stat(file); err != nil {
			return nil, err
		}
	}
	fastxReader, err := fastx.NewReader(nil, file, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFASTA, err)
	}
	return fastxReader, nil
}

// CountRecords returns the number of sequences in a file.
// ErrInvalidFASTA is returned if the file contains no sequences.
func CountRecords(file string) (int, error) {
	fastxReader, err := newReader(file)
	if err != nil {
		return 0, err
	}
	defer fastxReader.Close()

	var n int
	for {
		_, err = fastxReader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return n, fmt.Errorf("%w: %s", ErrInvalidFASTA, err)
		}
		n++
	}

	if n == 0 {
		return 0, ErrInvalidFASTA
	}
	return n, nil
}

// Stream reads records from a file and sends them to the channel,
// which is closed when all records are sent or an error occurs.
// ErrInvalidFASTA is returned if the file contains no sequences.
func Stream(file string, out chan<- *dnarepeat.Record) error {
	defer close(out)

	fastxReader, err := newReader(file)
	if err != nil {
		return err
	}
	defer fastxReader.Close()

	var record *fastx.Record
	var n int
	for {
		record, err = fastxReader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("%w: %s", ErrInvalidFASTA, err)
		}
		n++

		// the record is reused by the reader
		out <- &dnarepeat.Record{
			ID:  string(record.ID),
			Seq: append([]byte(nil), record.Seq.Seq...),
		}
	}

	if n == 0 {
		return ErrInvalidFASTA
	}
	return nil
}
