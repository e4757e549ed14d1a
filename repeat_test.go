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
	"math/rand"
	"testing"
)

var stevo = "TGAAAGCCAGGCAAGTTTTCTGCTTCTTTTGCTTCTTAGTCAGGAGATAGATAGATTACGTTTTTAGAGTGCCAGGCAAGTCTTCTGCTT"

type hitCase struct {
	QueryStart, QueryEnd     int
	SubjectStart, SubjectEnd int
	QuerySeq, SubjectSeq     string
	Mismatches               int
}

func checkHits(t *testing.T, name string, hits []*RepeatHit, tests []hitCase, o Orientation, k int) {
	if len(hits) != len(tests) {
		t.Errorf("%s: number of hits: expected %d, returned %d", name, len(tests), len(hits))
		for _, h := range hits {
			t.Log(h)
		}
		return
	}
	var h *RepeatHit
	for i, test := range tests {
		h = hits[i]
		if h.QueryStart != test.QueryStart || h.QueryEnd != test.QueryEnd ||
			h.SubjectStart != test.SubjectStart || h.SubjectEnd != test.SubjectEnd ||
			h.QuerySeq != test.QuerySeq || h.SubjectSeq != test.SubjectSeq ||
			h.Mismatches != test.Mismatches || h.Orientation != o || h.K != k {
			t.Errorf("%s: [%d] expected %+v, returned %s", name, i+1, test, h)
		}
	}
}

func TestFindDirectRepeats(t *testing.T) {
	hits, err := FindDirectRepeats("stevo", []byte(stevo), 20, 1)
	if err != nil {
		t.Error(err)
		return
	}
	if len(hits) == 0 || hits[0].QuerySeq != "GCCAGGCAAGTTTTCTGCTT" {
		t.Errorf("unexpected hits: %v", hits)
		return
	}
	checkHits(t, "stevo", hits, []hitCase{
		{6, 25, 71, 90, "GCCAGGCAAGTTTTCTGCTT", "GCCAGGCAAGTCTTCTGCTT", 1},
	}, Direct, 20)
	if hits[0].RecordID != "stevo" {
		t.Errorf("record ID: expected stevo, returned %s", hits[0].RecordID)
	}

	hits, _ = FindDirectRepeats("find", []byte("TTTATCTATTCTTGAAAAAAACGACTTTTTCTATTCTTGAACAAA"), 20, 2)
	checkHits(t, "find", hits, []hitCase{
		{1, 20, 26, 45, "TTTATCTATTCTTGAAAAAA", "TTTTTCTATTCTTGAACAAA", 2},
	}, Direct, 20)

	hits, _ = FindDirectRepeats("tandem", []byte("ACGTACGTACGT"), 4, 0)
	checkHits(t, "tandem", hits, []hitCase{
		{1, 4, 5, 8, "ACGT", "ACGT", 0},
		{1, 4, 9, 12, "ACGT", "ACGT", 0},
		{2, 5, 6, 9, "CGTA", "CGTA", 0},
		{3, 6, 7, 10, "GTAC", "GTAC", 0},
		{4, 7, 8, 11, "TACG", "TACG", 0},
		{5, 8, 9, 12, "ACGT", "ACGT", 0},
	}, Direct, 4)
}

func TestFindInvertedRepeats(t *testing.T) {
	// GATTACAGGT + CCCCC + reverse complement of GATTACAGGT
	s := []byte("GATTACAGGTCCCCCACCTGTAATC")

	hits, err := FindInvertedRepeats("ir", s, 10, 0)
	if err != nil {
		t.Error(err)
		return
	}
	checkHits(t, "ir k=10", hits, []hitCase{
		{1, 10, 16, 25, "GATTACAGGT", "ACCTGTAATC", 0},
	}, Inverted, 10)

	hits, _ = FindInvertedRepeats("ir", s, 8, 0)
	checkHits(t, "ir k=8", hits, []hitCase{
		{1, 8, 18, 25, "GATTACAG", "CTGTAATC", 0},
		{2, 9, 17, 24, "ATTACAGG", "CCTGTAAT", 0},
		{3, 10, 16, 23, "TTACAGGT", "ACCTGTAA", 0},
	}, Inverted, 8)

	// a palindrome matches its own reverse complement
	hits, _ = FindInvertedRepeats("ecori", []byte("AAAAGAATTCAAAA"), 6, 0)
	checkHits(t, "EcoRI", hits, []hitCase{
		{5, 10, 5, 10, "GAATTC", "GAATTC", 0},
	}, Inverted, 6)

	hits, _ = FindInvertedRepeats("stevo", []byte(stevo), 10, 2)
	checkHits(t, "stevo k=10", hits, []hitCase{
		{69, 78, 70, 79, "GTGCCAGGCA", "TGCCAGGCAA", 2},
	}, Inverted, 10)

	hits, _ = FindInvertedRepeats("stevo", []byte(stevo), 8, 1)
	checkHits(t, "stevo k=8", hits, []hitCase{
		{6, 13, 70, 77, "GCCAGGCA", "TGCCAGGC", 1},
		{70, 77, 71, 78, "TGCCAGGC", "GCCAGGCA", 1},
	}, Inverted, 8)
}

func TestRepeatProperties(t *testing.T) {
	r := rand.New(rand.NewSource(5))

	var s, rc []byte
	var hits []*RepeatHit
	var err error
	var k, m, n int
	for round := 0; round < 100; round++ {
		// low diversity alphabet in some rounds, for more hits
		s = randSeq(r, 20+r.Intn(150))
		if round%2 == 0 {
			for i := range s {
				if s[i] == 'G' || s[i] == 'C' {
					s[i] = 'A'
				}
			}
		}
		n = len(s)
		k = MinK + r.Intn(8)
		m = r.Intn(k/2 + 1)

		hits, err = FindDirectRepeats("r", s, k, m)
		if err != nil {
			t.Error(err)
			return
		}
		for _, h := range hits {
			if h.SubjectStart <= h.QueryStart {
				t.Errorf("subject should start after query: %s", h)
			}
			if h.Mismatches > m || naiveHamming([]byte(h.QuerySeq), []byte(h.SubjectSeq)) != h.Mismatches {
				t.Errorf("unexpected mismatches: %s", h)
			}
			if h.QuerySeq != string(s[h.QueryStart-1:h.QueryEnd]) ||
				h.SubjectSeq != string(s[h.SubjectStart-1:h.SubjectEnd]) {
				t.Errorf("unmatched sequences: %s", h)
			}
		}

		// exhaustive: every pair within the budget is reported exactly once
		var expected int
		for i := 0; i+k <= n; i++ {
			for j := i + 1; j+k <= n; j++ {
				if naiveHamming(s[i:i+k], s[j:j+k]) <= m {
					expected++
				}
			}
		}
		if expected != len(hits) {
			t.Errorf("number of direct hits: expected %d, returned %d", expected, len(hits))
		}

		hits, err = FindInvertedRepeats("r", s, k, m)
		if err != nil {
			t.Error(err)
			return
		}
		for _, h := range hits {
			if h.SubjectStart < h.QueryStart {
				t.Errorf("subject should not start before query: %s", h)
			}
			if h.SubjectEnd-h.SubjectStart+1 != k || h.SubjectEnd > n {
				t.Errorf("invalid subject window: %s", h)
			}
			rc, _ = RevComp([]byte(h.SubjectSeq))
			if h.Mismatches > m || naiveHamming([]byte(h.QuerySeq), rc) != h.Mismatches {
				t.Errorf("unexpected mismatches: %s", h)
			}
			if h.SubjectSeq != string(s[h.SubjectStart-1:h.SubjectEnd]) {
				t.Errorf("unmatched subject sequence: %s", h)
			}
		}

		// exhaustive: every pair of p <= q, where the reverse complement of
		// s[q:q+k] is within the budget of s[p:p+k], is reported exactly once
		pairs := make(map[[2]int]struct{}, len(hits))
		for _, h := range hits {
			pairs[[2]int{h.QueryStart, h.SubjectStart}] = struct{}{}
		}
		if len(pairs) != len(hits) {
			t.Errorf("duplicated inverted hits: %d unique pairs in %d hits", len(pairs), len(hits))
		}
		expected = 0
		for p := 0; p+k <= n; p++ {
			for q := p; q+k <= n; q++ {
				rc, _ = RevComp(s[q : q+k])
				if naiveHamming(s[p:p+k], rc) > m {
					continue
				}
				expected++
				if _, ok := pairs[[2]int{p + 1, q + 1}]; !ok {
					t.Errorf("missing inverted hit: %d-%d vs %d-%d", p+1, p+k, q+1, q+k)
				}
			}
		}
		if expected != len(hits) {
			t.Errorf("number of inverted hits: expected %d, returned %d", expected, len(hits))
		}
	}
}

func TestFindParameters(t *testing.T) {
	s := []byte(stevo)

	type Case struct {
		K, M int
		Err  error
	}
	tests := []Case{
		{3, 0, ErrKOverflow},
		{31, 0, ErrKOverflow},
		{20, 11, ErrMismatchOverflow},
		{20, -1, ErrMismatchOverflow},
		{4, 2, nil},
		{30, 15, nil},
	}
	var err error
	for i, test := range tests {
		_, err = FindDirectRepeats("s", s, test.K, test.M)
		if err != test.Err {
			t.Errorf("[%d] direct, k=%d, m=%d: expected %v, returned %v", i+1, test.K, test.M, test.Err, err)
		}
		_, err = FindInvertedRepeats("s", s, test.K, test.M)
		if err != test.Err {
			t.Errorf("[%d] inverted, k=%d, m=%d: expected %v, returned %v", i+1, test.K, test.M, test.Err, err)
		}
	}

	// k > length of the sequence
	hits, err := FindDirectRepeats("short", []byte("GT"), 20, 0)
	if err != nil || len(hits) != 0 {
		t.Errorf("no hits and no error expected, returned %d hits, error: %v", len(hits), err)
	}
	hits, err = FindInvertedRepeats("short", []byte("GT"), 20, 0)
	if err != nil || len(hits) != 0 {
		t.Errorf("no hits and no error expected, returned %d hits, error: %v", len(hits), err)
	}

	// illegal bases
	_, err = FindDirectRepeats("bad", []byte("ACGTNACGTACGT"), 4, 0)
	if !errors.Is(err, ErrIllegalBase) {
		t.Errorf("ErrIllegalBase expected, %v returned", err)
	}
	_, err = FindInvertedRepeats("bad", []byte("ACGTNACGTACGT"), 4, 0)
	if !errors.Is(err, ErrIllegalBase) {
		t.Errorf("ErrIllegalBase expected, %v returned", err)
	}
}

func TestFind(t *testing.T) {
	opt := DefaultSearchOptions
	opt.K = 8
	opt.MaxMismatches = 1

	hits, err := Find("stevo", []byte(stevo), &opt)
	if err != nil {
		t.Error(err)
		return
	}
	direct, _ := FindDirectRepeats("stevo", []byte(stevo), 8, 1)
	inverted, _ := FindInvertedRepeats("stevo", []byte(stevo), 8, 1)
	if len(hits) != len(direct)+len(inverted) {
		t.Errorf("number of hits: expected %d, returned %d", len(direct)+len(inverted), len(hits))
		return
	}
	for i, h := range hits {
		if i < len(direct) && h.Orientation != Direct {
			t.Errorf("[%d] direct hits should come first", i)
		}
	}

	opt.Direct = false
	hits, _ = Find("stevo", []byte(stevo), &opt)
	if len(hits) != len(inverted) {
		t.Errorf("number of inverted hits: expected %d, returned %d", len(inverted), len(hits))
	}

	opt.K = 40
	if _, err = Find("stevo", []byte(stevo), &opt); err != ErrKOverflow {
		t.Errorf("ErrKOverflow expected, %v returned", err)
	}
}

func TestSkipLowComplexity(t *testing.T) {
	s := []byte("AAAAAAAAAAAAGATTACAGGTCCCGATTACAGGT")
	opt := SearchOptions{K: 10, MaxMismatches: 0, Direct: true}

	hits, _ := Find("lc", s, &opt)
	var poly int
	for _, h := range hits {
		if h.QuerySeq == "AAAAAAAAAA" {
			poly++
		}
	}
	if poly != 3 {
		t.Errorf("number of poly-A hits: expected 3, returned %d", poly)
	}

	opt.SkipLowComplexity = true
	hits, _ = Find("lc", s, &opt)
	checkHits(t, "low-complexity", hits, []hitCase{
		{13, 22, 26, 35, "GATTACAGGT", "GATTACAGGT", 0},
	}, Direct, 10)
}
