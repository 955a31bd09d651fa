// Package splice plans where marker blocks land inside a host file and
// applies or removes them as pure content transforms. Nothing in this
// package touches the filesystem, which keeps every operation directly
// testable against in-memory content.
package splice

import (
	"crypto/sha256"
	"encoding/binary"
	"math/rand/v2"
	"sort"
)

// planSkipLines keeps markers off the first few lines of a host file, where
// shebangs, package clauses, and license headers live.
const planSkipLines = 3

// Plan picks blockCount insertion indices into [0, lineCount], ascending, to
// be consumed in order against the growing buffer: each index is relative to
// the original lines, and the caller offsets by the lines already inserted.
//
// Blocks are spread evenly across the file below the first few lines, with
// small jitter derived from seed so the spacing looks natural but replans
// identically for the same session. Indices are strictly increasing whenever
// the host has room; on a host shorter than blockCount the tail clamps to
// lineCount and consecutive blocks stack there in order.
func Plan(lineCount, blockCount int, seed string) []int {
	if blockCount <= 0 {
		return nil
	}
	if lineCount < 0 {
		lineCount = 0
	}

	start := min(planSkipLines, lineCount)
	step := float64(lineCount-start) / float64(blockCount+1)
	rng := rand.New(rand.NewPCG(seedPair(seed)))

	out := make([]int, blockCount)
	for i := range out {
		pos := float64(start) + step*float64(i+1)
		if step >= 1 {
			pos += (rng.Float64()*2 - 1) * step / 3
		}
		p := int(pos + 0.5)
		if p < start {
			p = start
		}
		if p > lineCount {
			p = lineCount
		}
		out[i] = p
	}
	sort.Ints(out)

	// Spread collisions forward, then pull any overflow back to the end.
	for i := 1; i < len(out); i++ {
		if out[i] <= out[i-1] {
			out[i] = out[i-1] + 1
		}
	}
	for i := range out {
		if out[i] > lineCount {
			out[i] = lineCount
		}
	}
	return out
}

// seedPair derives the two PCG seed words from an arbitrary seed string.
func seedPair(seed string) (uint64, uint64) {
	sum := sha256.Sum256([]byte(seed))
	return binary.BigEndian.Uint64(sum[0:8]), binary.BigEndian.Uint64(sum[8:16])
}
