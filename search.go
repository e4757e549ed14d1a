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
	"runtime"
	"sync"

	"github.com/twotwotwo/sorts"
)

// Threads is the default concurrency number of a Searcher.
var Threads = runtime.NumCPU()

// Record is a raw input sequence, it will be cleaned and checked
// with CleanAndCheck before searching.
type Record struct {
	ID  string
	Seq []byte
}

// Result is the search result of a record.
// Either Hits or Err is valid. Err might be a per-record error
// (see IsRecordError) or a fatal one.
type Result struct {
	Index int    // 0-based index of the record in the input
	ID    string // cleaned ID
	Len   int    // length of the cleaned sequence

	Hits []*RepeatHit
	Err  error
}

// Searcher searches repeats of multiple records in parallel.
type Searcher struct {
	opt *SearchOptions

	Threads  int  // concurrency number
	SortHits bool // sort hits of each record by orientation and positions

	// MaxPending is the maximum number of records dispatched but not yet
	// emitted, which bounds the results buffered behind a slow record.
	// Values smaller than Threads mean 4 * Threads.
	MaxPending int

	search func(idx int, rec *Record) *Result
}

// NewSearcher creates a Searcher with valid options.
func NewSearcher(opt *SearchOptions) (*Searcher, error) {
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	sr := &Searcher{opt: opt, Threads: Threads}
	sr.search = sr.SearchRecord
	return sr, nil
}

// Options returns the search options.
func (sr *Searcher) Options() *SearchOptions {
	return sr.opt
}

// SearchRecord cleans, checks and searches a single record.
func (sr *Searcher) SearchRecord(idx int, rec *Record) *Result {
	r := &Result{Index: idx}

	id, s, err := CleanAndCheck(rec.ID, rec.Seq, sr.opt.K)
	r.ID = id
	r.Len = len(s)
	if err != nil {
		r.Err = err
		return r
	}

	r.Hits, r.Err = Find(id, s, sr.opt)
	if r.Err == nil && sr.SortHits {
		SortHits(r.Hits)
	}
	return r
}

// Search searches records from the input channel, and returns a channel
// of results in the same order as the input.
// The returned channel is closed after the input channel is closed
// and all records are processed.
//
// Example:
//
//	input := make(chan *dnarepeat.Record, 8)
//	results := searcher.Search(input)
//
//	go func() {
//		for ... {
//			input <- &dnarepeat.Record{ID: id, Seq: seq}
//		}
//		close(input)
//	}()
//
//	for r := range results {
//		...
//	}
func (sr *Searcher) Search(input <-chan *Record) <-chan *Result {
	threads := sr.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	maxPending := sr.MaxPending
	if maxPending < threads {
		maxPending = 4 * threads
	}

	out := make(chan *Result, threads)
	ch := make(chan *Result, threads)
	pending := make(chan int, maxPending) // released when a result is emitted
	search := sr.search
	if search == nil {
		search = sr.SearchRecord
	}

	// keep the input order
	go func() {
		buf := make(map[int]*Result, threads)
		var next int
		var ok bool
		for r := range ch {
			if r.Index != next {
				buf[r.Index] = r
				continue
			}

			out <- r
			<-pending
			next++
			for {
				if r, ok = buf[next]; !ok {
					break
				}
				delete(buf, next)
				out <- r
				<-pending
				next++
			}
		}
		close(out)
	}()

	go func() {
		var wg sync.WaitGroup
		tokens := make(chan int, threads)
		var idx int
		for rec := range input {
			pending <- 1
			tokens <- 1
			wg.Add(1)
			go func(idx int, rec *Record) {
				defer func() {
					wg.Done()
					<-tokens
				}()
				ch <- search(idx, rec)
			}(idx, rec)
			idx++
		}
		wg.Wait()
		close(ch)
	}()

	return out
}

// SortHits sorts hits by orientation, query start and subject start.
func SortHits(hits []*RepeatHit) {
	sorts.Quicksort(hitsByPos(hits))
}

type hitsByPos []*RepeatHit

func (h hitsByPos) Len() int      { return len(h) }
func (h hitsByPos) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h hitsByPos) Less(i, j int) bool {
	a, b := h[i], h[j]
	if a.Orientation != b.Orientation {
		return a.Orientation < b.Orientation
	}
	if a.QueryStart != b.QueryStart {
		return a.QueryStart < b.QueryStart
	}
	return a.SubjectStart < b.SubjectStart
}
