// Package types provides common types used across CasperFlow.
package types

import (
	"fmt"
	"math/bits"
)

// MotesPerCSPR is the number of motes in one CSPR token.
const MotesPerCSPR = 1_000_000_000

// Amount is a token quantity in motes, the smallest CSPR unit.
// All arithmetic is unsigned-integer only, with no floating point and
// no negative balances. Overflow, underflow, and division by zero
// panic rather than silently wrapping.
type Amount uint64

// Motes creates an Amount from a raw mote count.
func Motes(n uint64) Amount { return Amount(n) }

// CSPR creates an Amount from a whole CSPR count.
// Panics if the mote value would overflow.
func CSPR(n uint64) Amount {
	hi, lo := bits.Mul64(n, MotesPerCSPR)
	if hi != 0 {
		panic(fmt.Sprintf("amount: %d CSPR overflows", n))
	}
	return Amount(lo)
}

// Arithmetic operations

// Add returns a + b. Panics on overflow.
func (a Amount) Add(b Amount) Amount {
	sum, carry := bits.Add64(uint64(a), uint64(b), 0)
	if carry != 0 {
		panic("amount: addition overflow")
	}
	return Amount(sum)
}

// Sub returns a - b. Panics on underflow; callers must check
// sufficiency first.
func (a Amount) Sub(b Amount) Amount {
	diff, borrow := bits.Sub64(uint64(a), uint64(b), 0)
	if borrow != 0 {
		panic("amount: subtraction underflow")
	}
	return Amount(diff)
}

// Mul returns a * n. Panics on overflow.
func (a Amount) Mul(n uint64) Amount {
	hi, lo := bits.Mul64(uint64(a), n)
	if hi != 0 {
		panic("amount: multiplication overflow")
	}
	return Amount(lo)
}

// MulDiv returns a * num / den with full 128-bit intermediate
// precision and truncating division. This is the primitive behind all
// basis-point math: yield is always rounded down, never up.
// Panics if den is zero or the quotient overflows.
func (a Amount) MulDiv(num, den uint64) Amount {
	if den == 0 {
		panic("amount: mul-div by zero")
	}
	hi, lo := bits.Mul64(uint64(a), num)
	if hi >= den {
		panic("amount: mul-div overflow")
	}
	q, _ := bits.Div64(hi, lo, den)
	return Amount(q)
}

// Comparison methods

// IsZero returns true if the amount is zero.
func (a Amount) IsZero() bool { return a == 0 }

// Min returns the smaller of two amounts.
func (a Amount) Min(b Amount) Amount {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two amounts.
func (a Amount) Max(b Amount) Amount {
	if a > b {
		return a
	}
	return b
}

// Formatting methods

// FormatCSPR returns the amount as a decimal CSPR string, e.g.
// "51.000000000" for CSPR(51).
func (a Amount) FormatCSPR() string {
	return fmt.Sprintf("%d.%09d", uint64(a)/MotesPerCSPR, uint64(a)%MotesPerCSPR)
}

// String returns a human-readable string, e.g. "51.000000000 CSPR".
func (a Amount) String() string {
	return a.FormatCSPR() + " CSPR"
}

// Sum calculates the sum of multiple amounts. Panics on overflow.
func Sum(values ...Amount) Amount {
	var total Amount
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
