package biquad

import (
	"testing"

	"github.com/cwbudde/algo-apdob/internal/testutil"
)

func TestNewChain(t *testing.T) {
	c := NewChain([]Coefficients{lowpassish(), passthrough()})
	if c.NumSections() != 2 {
		t.Fatalf("NumSections = %d, want 2", c.NumSections())
	}
	if c.Section(0).Coefficients != lowpassish() || c.Section(1).Coefficients != passthrough() {
		t.Fatal("sections out of order")
	}

	u := NewUniformChain(3, lowpassish())
	if u.NumSections() != 3 || u.Section(2).Coefficients != lowpassish() {
		t.Fatal("uniform chain has wrong sections")
	}
	if NewUniformChain(-1, lowpassish()).NumSections() != 0 {
		t.Fatal("negative count should produce empty chain")
	}
}

func TestChainMatchesManualCascade(t *testing.T) {
	input := testutil.DeterministicNoise(3, 1, 128)

	a := NewSection(lowpassish())
	b := NewSection(lowpassish())
	want := make([]float64, len(input))
	for i, x := range input {
		want[i] = b.ProcessSample(a.ProcessSample(x))
	}

	c := NewUniformChain(2, lowpassish())
	got := make([]float64, len(input))
	for i, x := range input {
		got[i] = c.ProcessSample(x)
	}
	testutil.RequireSliceNearlyEqual(t, got, want, eps)

	blk := NewUniformChain(2, lowpassish())
	buf := append([]float64(nil), input...)
	blk.ProcessBlock(buf)
	testutil.RequireSliceNearlyEqual(t, buf, want, eps)
}

func TestUpdateAllKeepsHistory(t *testing.T) {
	c := NewUniformChain(2, passthrough())
	c.ProcessSample(0.5)
	before := c.State()

	c.UpdateAll(lowpassish())
	for i := range c.NumSections() {
		if c.Section(i).Coefficients != lowpassish() {
			t.Fatalf("section %d not updated", i)
		}
	}
	after := c.State()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("section %d state changed", i)
		}
	}

	allocs := testing.AllocsPerRun(100, func() {
		c.UpdateAll(passthrough())
		c.ProcessSample(1)
	})
	if allocs != 0 {
		t.Fatalf("UpdateAll+ProcessSample allocated %v times", allocs)
	}
}

func TestChainStateAndReset(t *testing.T) {
	c := NewUniformChain(2, lowpassish())
	c.ProcessSample(1)
	saved := c.State()

	c.Reset()
	for _, st := range c.State() {
		if st != [4]float64{} {
			t.Fatal("Reset did not clear state")
		}
	}

	c.SetState(saved)
	got := c.State()
	for i := range saved {
		if got[i] != saved[i] {
			t.Fatalf("section %d: SetState gave %v, want %v", i, got[i], saved[i])
		}
	}
}
