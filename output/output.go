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

// Package output writes repeat hits as a CSV or TSV table.
package output

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"syscall"

	"github.com/shenwei356/dnarepeat"
	"github.com/shenwei356/xopen"
)

// Header is the column names of the table.
var Header = []string{
	"record_id",
	"query_start", "query_end",
	"subject_start", "subject_end",
	"query_seq", "subject_seq",
	"mismatches", "kmer_length", "orientation",
}

// Formats are the supported table formats.
var Formats = map[string]rune{
	"csv": ',',
	"tsv": '\t',
}

// ErrUnknownFormat means the table format is not csv or tsv.
var ErrUnknownFormat = errors.New("output: unknown format, available: csv, tsv")

// Writer writes RepeatHits, one row per hit.
type Writer struct {
	fh io.Closer // nil for writers not opened by us
	w  *csv.Writer

	row []string
	N   int // number of hits written
}

// NewWriter creates a Writer to a file, "-" for stdout.
// Compressed files are written according to the file extension.
func NewWriter(file string, format string) (*Writer, error) {
	comma, ok := Formats[format]
	if !ok {
		return nil, ErrUnknownFormat
	}
	outfh, err := xopen.Wopen(file)
	if err != nil {
		return nil, err
	}
	w := newWriter(outfh, comma)
	w.fh = outfh
	return w, nil
}

// NewWriterTo creates a Writer to an io.Writer.
func NewWriterTo(wtr io.Writer, format string) (*Writer, error) {
	comma, ok := Formats[format]
	if !ok {
		return nil, ErrUnknownFormat
	}
	return newWriter(wtr, comma), nil
}

func newWriter(wtr io.Writer, comma rune) *Writer {
	w := csv.NewWriter(wtr)
	w.Comma = comma
	return &Writer{w: w, row: make([]string, len(Header))}
}

// WriteHeader writes the column names.
func (w *Writer) WriteHeader() error {
	return w.w.Write(Header)
}

// Write writes a hit.
func (w *Writer) Write(h *dnarepeat.RepeatHit) error {
	row := w.row
	row[0] = h.RecordID
	row[1] = strconv.Itoa(h.QueryStart)
	row[2] = strconv.Itoa(h.QueryEnd)
	row[3] = strconv.Itoa(h.SubjectStart)
	row[4] = strconv.Itoa(h.SubjectEnd)
	row[5] = h.QuerySeq
	row[6] = h.SubjectSeq
	row[7] = strconv.Itoa(h.Mismatches)
	row[8] = strconv.Itoa(h.K)
	row[9] = h.Orientation.String()

	if err := w.w.Write(row); err != nil {
		return err
	}
	w.N++
	return nil
}

// Flush writes buffered data to the underlying writer.
func (w *Writer) Flush() error {
	w.w.Flush()
	return w.w.Error()
}

// Close flushes the data and closes the file if it's opened by NewWriter.
func (w *Writer) Close() error {
	err := w.Flush()
	if w.fh != nil {
		if err2 := w.fh.Close(); err == nil {
			err = err2
		}
	}
	return err
}

// IsBrokenPipe reports whether an error is a broken pipe / closed pipe,
// e.g., the output is piped to "head".
func IsBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}
