package renderer

import (
	"bytes"
	"io"

	attribution "github.com/sonwamoh/perfomance-attribution"
)

// ConditionalBlock let you fully write a block and decide at the end to print it or not.
// If the block function returns true, the content is printed to w, otherwise it is discarded.
func ConditionalBlock(w io.Writer, block func(io.Writer) bool) {
	bw := &bytes.Buffer{}
	if block(bw) {
		io.Copy(w, bw)
	}
}

// ratio formats a fraction as a signed percent.
func ratio(f float64) string { return attribution.Ratio(f).SignedString() }

// weight formats a fraction as a percent.
func weight(f float64) string { return attribution.Ratio(f).String() }
