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
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/shenwei356/dnarepeat/output"
	"github.com/shenwei356/go-logging"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v5"
	"github.com/vbauerster/mpb/v5/decor"
)

var log *logging.Logger

var logFormat = logging.MustStringFormatter(
	`%{time:15:04:05.000} [%{level:.4s}] %{message}`,
)

func init() {
	log = logging.MustGetLogger("dna-repeat")
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	logging.SetBackend(logging.NewBackendFormatter(backend, logFormat))
}

func setQuiet(quiet bool) {
	if quiet {
		logging.SetLevel(logging.ERROR, "dna-repeat")
	} else {
		logging.SetLevel(logging.INFO, "dna-repeat")
	}
}

func checkError(err error) {
	if err == nil {
		return
	}
	if output.IsBrokenPipe(err) {
		os.Exit(0)
	}
	log.Error(err)
	os.Exit(1)
}

func getFlagInt(cmd *cobra.Command, flag string) int {
	value, err := cmd.Flags().GetInt(flag)
	checkError(err)
	return value
}

func getFlagNonNegativeInt(cmd *cobra.Command, flag string) int {
	value := getFlagInt(cmd, flag)
	if value < 0 {
		checkError(fmt.Errorf("value of flag --%s should be >= 0", flag))
	}
	return value
}

func getFlagBool(cmd *cobra.Command, flag string) bool {
	value, err := cmd.Flags().GetBool(flag)
	checkError(err)
	return value
}

func getFlagString(cmd *cobra.Command, flag string) string {
	value, err := cmd.Flags().GetString(flag)
	checkError(err)
	return value
}

func getFlagKmerLength(cmd *cobra.Command, flag string) int {
	k := getFlagInt(cmd, flag)
	if k < 4 || k > 30 {
		checkError(fmt.Errorf("repeat length (-l, --%s) must be in the range 4-30", flag))
	}
	return k
}

func getThreads(cmd *cobra.Command) int {
	threads := getFlagInt(cmd, "threads")
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	return threads
}

func checkInputFile(file string) {
	if file == "-" {
		return
	}
	if _, err := os.Stat(file); errors.Is(err, os.ErrNotExist) {
		checkError(fmt.Errorf("input file not found: %s", file))
	}
}

// newProgressBar returns a bar for counting records,
// call pbs.Wait() after all records are processed.
func newProgressBar(total int) (*mpb.Progress, *mpb.Bar) {
	name := "processed records: "
	pbs := mpb.New(mpb.WithWidth(40), mpb.WithOutput(os.Stderr))
	bar := pbs.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name(name),
			decor.CountersNoUnit("%d / %d"),
		),
		mpb.AppendDecorators(
			decor.Name(" ETA: "),
			decor.OnComplete(decor.AverageETA(decor.ET_STYLE_GO), "done"),
		),
	)
	return pbs, bar
}

func formatOrientations(direct, inverted bool) string {
	s := make([]string, 0, 2)
	if direct {
		s = append(s, "direct")
	}
	if inverted {
		s = append(s, "inverted")
	}
	return strings.Join(s, " and ")
}
