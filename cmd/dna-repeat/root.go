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

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/profile"
	"github.com/shenwei356/dnarepeat"
	"github.com/shenwei356/dnarepeat/output"
	"github.com/shenwei356/dnarepeat/seqs"
	"github.com/shenwei356/util/pathutil"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v5"
)

// VERSION is the version of the tool.
const VERSION = "0.1.0"

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "dna-repeat [flags] <input fasta/q> [<output directory>]",
	Short: "Finds direct and inverted repeats in DNA sequences",
	Long: fmt.Sprintf(`dna-repeat v%s - Finds repeats in DNA sequences

All pairs of k-mers with no more than m mismatches (substitutions only) are
reported, for both direct repeats (same strand) and inverted repeats
(reverse complement). It's a brute-force search, the time is quadratic
in the sequence length.

Sequences are cleaned before searching: white spaces are removed and bases
are converted to upper case. Records that are empty, contain characters other
than A, C, G, T, or are shorter than the k-mer size are skipped with warnings.

Output columns (1-based positions, both ends included):
  record_id, query_start, query_end, subject_start, subject_end,
  query_seq, subject_seq, mismatches, kmer_length, orientation

Subject sequences of inverted repeats are on the positive strand.
`, VERSION),
	Args:    cobra.RangeArgs(1, 2),
	Version: VERSION,
	Run: func(cmd *cobra.Command, args []string) {
		quiet := getFlagBool(cmd, "quiet")
		setQuiet(quiet)

		k := getFlagKmerLength(cmd, "length")
		m := getFlagNonNegativeInt(cmd, "mismatches")
		if m > k/2 {
			checkError(fmt.Errorf("mismatches (-m, --mismatches) must be <= length / 2"))
		}

		opt := dnarepeat.DefaultSearchOptions
		opt.K = k
		opt.MaxMismatches = m
		opt.SkipLowComplexity = getFlagBool(cmd, "skip-low-complexity")
		switch orientation := getFlagString(cmd, "orientation"); orientation {
		case "both":
			opt.Direct, opt.Inverted = true, true
		case "direct":
			opt.Direct, opt.Inverted = true, false
		case "inverted":
			opt.Direct, opt.Inverted = false, true
		default:
			checkError(fmt.Errorf("invalid orientation: %s, available: both, direct, inverted", orientation))
		}

		format := getFlagString(cmd, "out-format")
		if _, ok := output.Formats[format]; !ok {
			checkError(output.ErrUnknownFormat)
		}

		inFile := args[0]
		checkInputFile(inFile)

		outFile := "-"
		if getFlagBool(cmd, "file") {
			outDir := "."
			if len(args) > 1 {
				outDir = args[1]
			}
			existed, err := pathutil.DirExists(outDir)
			checkError(err)
			if !existed {
				checkError(os.MkdirAll(outDir, 0755))
			}
			outFile = filepath.Join(outDir, "output."+format)
		}

		// go tool pprof -http=:8080 cpu.pprof
		if getFlagBool(cmd, "pprof-cpu") {
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
		} else if getFlagBool(cmd, "pprof-mem") {
			defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
		}

		// -----------------------------------------------

		sTime := time.Now()

		searcher, err := dnarepeat.NewSearcher(&opt)
		checkError(err)
		searcher.Threads = getThreads(cmd)
		searcher.SortHits = getFlagBool(cmd, "sort")

		log.Infof("searching %s repeats with k=%d, mismatches<=%d, threads: %d",
			formatOrientations(opt.Direct, opt.Inverted), k, m, searcher.Threads)

		var total int
		if inFile != "-" {
			total, err = seqs.CountRecords(inFile)
			checkError(err)
			log.Infof("%s records in %s", humanize.Comma(int64(total)), inFile)
		}

		writer, err := output.NewWriter(outFile, format)
		checkError(err)
		checkError(writer.WriteHeader())

		input := make(chan *dnarepeat.Record, searcher.Threads)
		results := searcher.Search(input)

		chErr := make(chan error, 1)
		go func() {
			chErr <- seqs.Stream(inFile, input)
		}()

		var pbs *mpb.Progress
		var bar *mpb.Bar
		if !quiet && total > 0 {
			pbs, bar = newProgressBar(total)
		}

		var nRecords, nSkipped int
		for r := range results {
			nRecords++
			if bar != nil {
				bar.Increment()
			}

			if r.Err != nil {
				if !dnarepeat.IsRecordError(r.Err) {
					checkError(fmt.Errorf("%s: %w", r.ID, r.Err))
				}
				nSkipped++
				log.Warningf("skip record: %s", r.Err)
				continue
			}

			for _, h := range r.Hits {
				checkError(writer.Write(h))
			}
		}
		if pbs != nil {
			pbs.Wait()
		}

		checkError(<-chErr)
		checkError(writer.Close())

		if outFile != "-" {
			log.Infof("results are saved to: %s", outFile)
		}
		log.Infof("%s hits found in %s records (%s skipped) in %s",
			humanize.Comma(int64(writer.N)), humanize.Comma(int64(nRecords)),
			humanize.Comma(int64(nSkipped)), time.Since(sTime))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	RootCmd.Flags().IntP("length", "l", 20, "repeat length in bp (min 4, max 30)")
	RootCmd.Flags().IntP("mismatches", "m", 0, "number of bp mismatches allowed, <= length/2")
	RootCmd.Flags().StringP("orientation", "r", "both", `repeats to search: "both", "direct", or "inverted"`)
	RootCmd.Flags().BoolP("file", "f", false, "write to output.csv (or output.tsv) in the output directory (default: stdout)")
	RootCmd.Flags().StringP("out-format", "F", "csv", `output format: "csv" or "tsv"`)
	RootCmd.Flags().BoolP("skip-low-complexity", "L", false, "skip hits where the query k-mer is of low-complexity")
	RootCmd.Flags().BoolP("sort", "s", false, "sort hits of each record by orientation, query and subject positions")

	RootCmd.PersistentFlags().IntP("threads", "j", runtime.NumCPU(), "number of threads")
	RootCmd.PersistentFlags().Bool("quiet", false, "do not print logs and the progress bar")
	RootCmd.PersistentFlags().Bool("pprof-cpu", false, "pprofile CPU")
	RootCmd.PersistentFlags().Bool("pprof-mem", false, "pprofile memory")
}
