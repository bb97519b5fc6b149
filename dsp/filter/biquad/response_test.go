package biquad

import (
	"math"
	"testing"
)

const testDT = 1e-4

func TestMagnitudeSquaredMatchesResponse(t *testing.T) {
	c := lowpassish()

	for _, w := range []float64{0, 10, 100, 1000, 10000, 31000} {
		h := c.Response(w, testDT)
		want := real(h)*real(h) + imag(h)*imag(h)
		got := c.MagnitudeSquared(w, testDT)
		if math.Abs(got-want) > 1e-9*math.Max(1, want) {
			t.Fatalf("w=%v: MagnitudeSquared=%v, |Response|^2=%v", w, got, want)
		}
	}

	p := passthrough()
	if h := p.Response(500, testDT); h != 1 {
		t.Fatalf("passthrough response %v, want 1", h)
	}
}

func TestPolesAndStability(t *testing.T) {
	tests := []struct {
		name   string
		c      Coefficients
		stable bool
	}{
		{"lowpass", lowpassish(), true},
		{"passthrough", passthrough(), true},
		{"unit circle", Coefficients{B0: 1, A1: 0, A2: 1}, false},
		{"outside", Coefficients{B0: 1, A1: -2.5, A2: 1.2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Stable(); got != tt.stable {
				t.Fatalf("Stable() = %v, want %v (poles %v)", got, tt.stable, tt.c.Poles())
			}
		})
	}

	// 1 - 0.2 z^-1 + 0.04 z^-2 has a complex-conjugate pole pair with |p| = 0.2.
	lp := lowpassish()
	for _, pole := range lp.Poles() {
		if math.Abs(real(pole)*real(pole)+imag(pole)*imag(pole)-0.04) > 1e-12 {
			t.Fatalf("pole %v has unexpected radius", pole)
		}
	}
}

func TestChainMagnitudeIsProduct(t *testing.T) {
	c := NewUniformChain(2, lowpassish())
	single := lowpassish()

	for _, w := range []float64{50, 500, 5000} {
		want := single.MagnitudeSquared(w, testDT) * single.MagnitudeSquared(w, testDT)
		if got := c.MagnitudeSquared(w, testDT); math.Abs(got-want) > 1e-12 {
			t.Fatalf("w=%v: got %v, want %v", w, got, want)
		}
	}

	if g := NewChain(nil).MagnitudeSquared(100, testDT); g != 1 {
		t.Fatalf("empty chain gain %v, want 1", g)
	}
}
