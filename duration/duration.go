// Package duration turns durations in divisions into abc length strings.
package duration

import (
	"fmt"

	"github.com/jsphweid/xmlabc/constants"
	"github.com/jsphweid/xmlabc/model"
	"github.com/jsphweid/xmlabc/util"
)

// Simplify divides a and b by their greatest common divisor.
func Simplify(a, b int) (int, int) {
	g := util.GCD(a, b)
	if g == 0 {
		return a, b
	}
	return a / g, b / g
}

func abs(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}

// LimitDenominator finds the closest fraction to num/den with a denominator
// of at most max, using the convergents of the continued fraction.
func LimitDenominator(num, den, max int) (int, int) {
	if den <= max {
		return num, den
	}
	p0, q0, p1, q1 := int64(0), int64(1), int64(1), int64(0)
	n, d := int64(num), int64(den)
	for {
		a := n / d
		q2 := q0 + a*q1
		if q2 > int64(max) {
			break
		}
		p0, q0, p1, q1 = p1, q1, p0+a*p1, q2
		n, d = d, n-a*d
	}
	k := (int64(max) - q0) / q1
	b1p, b1q := p0+k*p1, q0+k*q1
	// compare |p1/q1 - num/den| with |b1p/b1q - num/den|
	x, y := int64(num), int64(den)
	dist2 := abs(p1*y-x*q1) * b1q
	dist1 := abs(b1p*y-x*b1q) * q1
	if dist2 <= dist1 {
		return Simplify(int(p1), int(q1))
	}
	return Simplify(int(b1p), int(b1q))
}

// Format renders num/den the compact abc way: "" for 1, "/" for 1/2,
// "/4" for 1/4, "3" for 3 and "3/2" otherwise.
func Format(num, den int) string {
	if num == 1 {
		switch den {
		case 1:
			return ""
		case 2:
			return "/"
		default:
			return fmt.Sprintf("/%d", den)
		}
	}
	if den == 1 {
		return fmt.Sprintf("%d", num)
	}
	return fmt.Sprintf("%d/%d", num, den)
}

// Abc converts dur divisions to a multiple of the unit length 1/unitL.
// A zero duration always gives the empty string.
func Abc(dur, divs, unitL int, fact *model.Fraction) string {
	if dur == 0 {
		return ""
	}
	if divs <= 0 {
		divs = 1
	}
	num, den := Simplify(unitL*dur, divs*4)
	if fact != nil {
		num, den = Simplify(num*fact.Num, den*fact.Den)
	}
	if den > constants.MaxDenominator {
		num, den = LimitDenominator(num, den, constants.MaxDenominator)
	}
	return Format(num, den)
}

func ForNote(n *model.Note, divs, unitL int) string {
	return Abc(n.Dur, divs, unitL, n.Fact)
}
