package types

import "testing"

func TestAmountConstructors(t *testing.T) {
	tests := []struct {
		name    string
		amount  Amount
		motes   uint64
		display string
	}{
		{"Motes", Motes(1_500_000_000), 1_500_000_000, "1.500000000 CSPR"},
		{"CSPR", CSPR(51), 51_000_000_000, "51.000000000 CSPR"},
		{"Zero", Motes(0), 0, "0.000000000 CSPR"},
		{"SubMote", Motes(42), 42, "0.000000042 CSPR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if uint64(tt.amount) != tt.motes {
				t.Errorf("motes: got %d, want %d", uint64(tt.amount), tt.motes)
			}
			if tt.amount.String() != tt.display {
				t.Errorf("display: got %s, want %s", tt.amount.String(), tt.display)
			}
		})
	}
}

func TestAmountArithmetic(t *testing.T) {
	tests := []struct {
		name     string
		op       func() Amount
		expected Amount
	}{
		{"Add", func() Amount { return Motes(100).Add(Motes(200)) }, Motes(300)},
		{"Sub", func() Amount { return Motes(500).Sub(Motes(200)) }, Motes(300)},
		{"Mul", func() Amount { return Motes(100).Mul(3) }, Motes(300)},
		{"Min", func() Amount { return Motes(100).Min(Motes(70)) }, Motes(70)},
		{"Max", func() Amount { return Motes(100).Max(Motes(70)) }, Motes(100)},
		{"Sum", func() Amount { return Sum(Motes(1), Motes(2), Motes(3)) }, Motes(6)},
		{"SumEmpty", func() Amount { return Sum() }, Motes(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.op(); got != tt.expected {
				t.Errorf("got %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAmountMulDiv(t *testing.T) {
	tests := []struct {
		name     string
		a        Amount
		num, den uint64
		expected Amount
	}{
		// 8% of 1 CSPR over a full year of seconds.
		{"YearOfYield", CSPR(1), 800 * 31_536_000, 10_000 * 31_536_000, Motes(80_000_000)},
		// 1% protocol fee.
		{"OnePercentFee", CSPR(51), 100, 10_000, Motes(510_000_000)},
		// Truncation: 1 mote at 1 bps rounds down to zero.
		{"TruncatesDown", Motes(1), 1, 10_000, Motes(0)},
		{"FullRatio", Motes(777), 10_000, 10_000, Motes(777)},
		// Intermediate product exceeds 64 bits but quotient fits.
		{"WideIntermediate", Amount(1 << 62), 6, 4, Amount(3 << 61)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.MulDiv(tt.num, tt.den); got != tt.expected {
				t.Errorf("got %d, want %d", uint64(got), uint64(tt.expected))
			}
		})
	}
}

func TestAmountAddOverflow(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on addition overflow")
		}
	}()
	_ = Amount(1<<64 - 1).Add(Motes(1))
}

func TestAmountSubUnderflow(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on subtraction underflow")
		}
	}()
	_ = Motes(1).Sub(Motes(2))
}

func TestAmountMulDivByZero(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on mul-div by zero")
		}
	}()
	_ = Motes(1).MulDiv(1, 0)
}
