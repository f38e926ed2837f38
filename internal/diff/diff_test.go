package diff

import (
	"math"
	"testing"
)

func TestComputeScenario(t *testing.T) {
	d := Compute("Hello", "Hello world")

	if d.OldLength != 5 || d.NewLength != 11 {
		t.Fatalf("expected lengths 5/11, got %d/%d", d.OldLength, d.NewLength)
	}
	if d.ChangeSize != 6 {
		t.Errorf("expected change_size 6, got %d", d.ChangeSize)
	}
	if math.Abs(d.Similarity-0.625) > 1e-9 {
		t.Errorf("expected similarity 0.625, got %f", d.Similarity)
	}
}

func TestChangeSizeMatchesLengths(t *testing.T) {
	pairs := [][2]string{
		{"", ""},
		{"", "abc"},
		{"abc", ""},
		{"the cat sat", "the dog sat down"},
		{"naïve café", "naive cafe"},
		{"long text that shrinks", "long"},
	}
	for _, p := range pairs {
		d := Compute(p[0], p[1])
		if d.ChangeSize != d.NewLength-d.OldLength {
			t.Errorf("%q -> %q: change_size %d != %d-%d", p[0], p[1], d.ChangeSize, d.NewLength, d.OldLength)
		}
		if d.Similarity < 0 || d.Similarity > 1 {
			t.Errorf("%q -> %q: similarity %f out of range", p[0], p[1], d.Similarity)
		}
	}
}

func TestIdenticalIsOne(t *testing.T) {
	for _, s := range []string{"", "a", "Hello world", "日本語のテキスト"} {
		if got := Compute(s, s).Similarity; got != 1.0 {
			t.Errorf("%q: expected similarity 1.0, got %f", s, got)
		}
	}
}

func TestEmptySide(t *testing.T) {
	d := Compute("", "grow")
	if d.Similarity != 0 {
		t.Errorf("expected 0 similarity, got %f", d.Similarity)
	}
	if d.ChangeSize != 4 {
		t.Errorf("expected change_size 4, got %d", d.ChangeSize)
	}

	d = Compute("shrink", "")
	if d.Similarity != 0 {
		t.Errorf("expected 0 similarity, got %f", d.Similarity)
	}
	if d.ChangeSize != -6 {
		t.Errorf("expected change_size -6, got %d", d.ChangeSize)
	}
}

func TestLengthsCountRunes(t *testing.T) {
	d := Compute("café", "cafés")
	if d.OldLength != 4 || d.NewLength != 5 {
		t.Errorf("expected rune lengths 4/5, got %d/%d", d.OldLength, d.NewLength)
	}
}

func TestDisjoint(t *testing.T) {
	if got := Compute("aaaa", "bbbb").Similarity; got != 0 {
		t.Errorf("expected 0 for disjoint text, got %f", got)
	}
}
