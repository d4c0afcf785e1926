package deform

import (
	"fmt"
	"strings"
)

// BinMapper picks the spectrum bin driving vertex i of n.
type BinMapper func(i, n, bins int) int

// WrapBins cycles through the bins along the vertex buffer, i mod bins.
func WrapBins(i, n, bins int) int {
	return i % bins
}

// SpreadBins splits the vertex buffer into bins contiguous runs.
func SpreadBins(i, n, bins int) int {
	if n <= 0 {
		return 0
	}
	b := i * bins / n
	if b >= bins {
		b = bins - 1
	}
	return b
}

// ParseBinMapper parses "wrap" or "spread".
func ParseBinMapper(s string) (BinMapper, error) {
	switch strings.ToLower(s) {
	case "", "wrap":
		return WrapBins, nil
	case "spread":
		return SpreadBins, nil
	}
	return nil, fmt.Errorf("deform: unknown bin mapping %q", s)
}
