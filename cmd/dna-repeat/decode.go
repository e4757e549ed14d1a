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
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shenwei356/dnarepeat"
	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"
)

var decodeCmd = &cobra.Command{
	Use:   "decode [flags] <codes.bin[.gz]>",
	Short: "Decode k-mer codes saved by \"encode\" back to text",
	Long: `Decode k-mer codes saved by "encode" back to text

The input is a binary file created by "dna-repeat encode -o codes.bin".
Output columns are the same as the text output of "encode":
  record_id, position (1-based), kmer, code, binary
`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setQuiet(getFlagBool(cmd, "quiet"))

		inFile := args[0]
		checkInputFile(inFile)
		outFile := getFlagString(cmd, "out-file")

		sTime := time.Now()

		infh, err := xopen.Ropen(inFile)
		checkError(err)

		outfh, err := xopen.Wopen(outFile)
		checkError(err)
		w := bufio.NewWriter(outfh)
		checkError(writeCodesHeader(w))

		decoder := dnarepeat.MustDecoder()

		var nRecords, nCodes int
		var kc *dnarepeat.KmerCodes
		var id string
		for {
			kc, err = dnarepeat.ReadKmerCodes(infh)
			if err != nil {
				if err == io.EOF {
					break
				}
				checkError(fmt.Errorf("%s: %w", inFile, err))
			}
			nRecords++
			nCodes += len(kc.Codes)

			id = string(kc.ID)
			for i, code := range kc.Codes {
				checkError(writeCode(w, id, i, decoder(code, uint8(kc.K)), code, kc.K))
			}
		}
		checkError(infh.Close())

		checkError(w.Flush())
		checkError(outfh.Close())

		log.Infof("%s k-mers of %s records decoded in %s",
			humanize.Comma(int64(nCodes)), humanize.Comma(int64(nRecords)), time.Since(sTime))
	},
}

func init() {
	RootCmd.AddCommand(decodeCmd)

	decodeCmd.Flags().StringP("out-file", "o", "-", `out file, "-" for stdout`)
}
