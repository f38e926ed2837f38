// Package diff computes lightweight diff summaries between text snapshots.
package diff

import (
	"github.com/pmezard/go-difflib/difflib"

	"github.com/rcliao/vibe-writer/internal/model"
)

// Compute returns the diff summary between old and new. Lengths count runes.
// Similarity is 2*M/T where M is the number of runes in matching blocks and
// T the combined length; two empty strings are identical.
func Compute(old, new string) model.Diff {
	a := runes(old)
	b := runes(new)

	return model.Diff{
		OldLength:  len(a),
		NewLength:  len(b),
		ChangeSize: len(b) - len(a),
		Similarity: Similarity(a, b),
	}
}

// Similarity returns the matching-blocks ratio of two rune sequences.
func Similarity(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	return difflib.NewMatcher(a, b).Ratio()
}

// runes splits s into one-rune strings, the element type the matcher expects.
func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
