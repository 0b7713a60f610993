package backoff

import (
	"testing"
	"time"
)

func TestPow(t *testing.T) {
	tests := []struct {
		base     float64
		exponent int
		want     float64
	}{
		{2, 0, 1},
		{2, 1, 2},
		{2, 5, 32},
		{1.5, 2, 2.25},
	}
	for _, tt := range tests {
		if got := Pow(tt.base, tt.exponent); got != tt.want {
			t.Errorf("Pow(%v, %d) = %v, want %v", tt.base, tt.exponent, got, tt.want)
		}
	}
}

func TestExponential(t *testing.T) {
	factor := 50 * time.Millisecond

	if got := Exponential(0, factor); got != factor {
		t.Errorf("Exponential(0) = %v, want %v", got, factor)
	}
	if got := Exponential(3, factor); got != 8*factor {
		t.Errorf("Exponential(3) = %v, want %v", got, 8*factor)
	}
	if got := Exponential(-1, factor); got != factor {
		t.Errorf("Exponential(-1) = %v, want clamp to attempt 0", got)
	}
	if got := Exponential(100, factor); got != Exponential(30, factor) {
		t.Errorf("Exponential(100) = %v, want clamp to attempt 30", got)
	}
}
