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
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shenwei356/dnarepeat"
	"github.com/shenwei356/dnarepeat/seqs"
	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"
)

var encodeCmd = &cobra.Command{
	Use:   "encode [flags] <input fasta/q>",
	Short: "Encode k-mers of sequences into 2-bit codes",
	Long: `Encode k-mers of sequences into 2-bit codes

Each base takes 2 bits (A=0, C=1, G=2, T=3), the first base of a k-mer
occupies the highest bits.

Text output columns:
  record_id, position (1-based), kmer, code, binary

If the output file name contains ".bin", e.g., codes.bin or codes.bin.gz,
codes of each record are saved in a binary format instead.
`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setQuiet(getFlagBool(cmd, "quiet"))

		k := getFlagKmerLength(cmd, "length")
		outFile := getFlagString(cmd, "out-file")
		binary := strings.Contains(outFile, ".bin")

		inFile := args[0]
		checkInputFile(inFile)

		sTime := time.Now()

		outfh, err := xopen.Wopen(outFile)
		checkError(err)

		var w *bufio.Writer
		if !binary {
			w = bufio.NewWriter(outfh)
			checkError(writeCodesHeader(w))
		}

		input := make(chan *dnarepeat.Record, 8)
		chErr := make(chan error, 1)
		go func() {
			chErr <- seqs.Stream(inFile, input)
		}()

		var nRecords, nCodes int
		var id string
		var s []byte
		var kc *dnarepeat.KmerCodes
		for rec := range input {
			id, s, err = dnarepeat.CleanAndCheck(rec.ID, rec.Seq, k)
			if err != nil {
				log.Warningf("skip record: %s", err)
				continue
			}
			kc, err = dnarepeat.NewKmerCodes([]byte(id), s, k)
			checkError(err)

			nRecords++
			nCodes += len(kc.Codes)

			if binary {
				_, err = kc.Write(outfh)
				checkError(err)
				continue
			}
			for i, code := range kc.Codes {
				checkError(writeCode(w, id, i, s[i:i+k], code, k))
			}
		}
		checkError(<-chErr)

		// errors of compressed writers might only show up here
		if w != nil {
			checkError(w.Flush())
		}
		checkError(outfh.Close())

		log.Infof("%s k-mers of %s records encoded in %s",
			humanize.Comma(int64(nCodes)), humanize.Comma(int64(nRecords)), time.Since(sTime))
	},
}

func init() {
	RootCmd.AddCommand(encodeCmd)

	encodeCmd.Flags().IntP("length", "l", 20, "k-mer size (min 4, max 30)")
	encodeCmd.Flags().StringP("out-file", "o", "-", `out file, "-" for stdout. A name containing ".bin" for the binary format`)
}

func writeCodesHeader(w io.Writer) error {
	_, err := fmt.Fprintf(w, "record_id\tposition\tkmer\tcode\tbinary\n")
	return err
}

// writeCode writes a k-mer code in text, i is the 0-based position.
func writeCode(w io.Writer, id string, i int, kmer []byte, code uint64, k int) error {
	_, err := fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%0*b\n", id, i+1, kmer, code, 2*k, code)
	return err
}
