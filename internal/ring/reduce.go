// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ring implements arithmetic in the ML-KEM ring Rq = ℤq[X]/(X²⁵⁶+1)
// with q = 3329, as specified in FIPS 203: modular reduction, the NTT,
// sampling, compression, and byte encodings.
//
// Coefficients are stored as int16 and reduced lazily. The bounds below are
// what every function in this package assumes and guarantees; all of them
// follow from int16 holding any x with |x| ≤ 9q (9q = 29961 < 2¹⁵, while
// 10q = 33290 overflows).
//
//   - barrettReduce accepts any int16 and returns a value in [0, q].
//   - condSubQ accepts [0, 2q) and returns [0, q).
//   - montgomeryReduce accepts |x| < 2¹⁵q and returns a value in (-q, q).
//     So fqmul(a, b) is safe whenever |a·b| < 2¹⁵q, for example for any int16
//     times a value bounded by q, like a zeta.
//   - NTT accepts |x| ≤ q and returns |x| ≤ 8q: each of the seven layers adds
//     at most one fqmul result, which is smaller than q.
//   - BaseMul needs |a·b| < 2¹⁵q, so NTT outputs are reduced first. Each
//     output coefficient is smaller than 2q in absolute value, so an
//     accumulation of up to four products (k ≤ 4) stays below 8q.
//   - InverseNTT accepts |x| < 2¹⁴ and returns |x| < q.
//   - Add and Sub don't reduce. A sum of up to nine polynomials in [0, q]
//     still fits, after which Reduce is mandatory.
//
// Whether a polynomial is in the normal or NTT domain, and whether it carries
// a Montgomery factor, is tracked by the caller.
package ring

const (
	// N is the number of coefficients of a ring element.
	N = 256
	// Q is the ML-KEM prime modulus, 13·2⁸ + 1.
	Q = 3329

	// qInv is q⁻¹ mod 2¹⁶, as a signed value (62209 - 2¹⁶).
	qInv = -3327

	// rSquared is R² mod q, with the Montgomery factor R = 2¹⁶.
	rSquared = 1353

	// barrettMultiplier is ⌈2²⁶/q⌋.
	barrettMultiplier = 20159
)

// montgomeryReduce returns x·R⁻¹ mod q, in (-q, q), for |x| < 2¹⁵q.
func montgomeryReduce(x int32) int16 {
	// m = x·q⁻¹ mod R, so x - m·q is divisible by R and congruent to x mod q.
	// Both |x| and |m·q| are smaller than 2¹⁵q, so the quotient is in (-q, q).
	m := int16(x) * qInv
	return int16((x - int32(m)*Q) >> 16)
}

// fqmul returns a·b·R⁻¹ mod q, in (-q, q), for |a·b| < 2¹⁵q.
func fqmul(a, b int16) int16 {
	return montgomeryReduce(int32(a) * int32(b))
}

// toMont returns x·R mod q, in (-q, q), for any int16 x.
func toMont(x int16) int16 {
	return montgomeryReduce(int32(x) * rSquared)
}

// barrettReduce returns the representative of x mod q in [0, q].
//
// The quotient estimate ⌊x·barrettMultiplier/2²⁶⌋ equals ⌊x/q⌋ for every
// int16, except for negative multiples of q where it is one less, which is
// why q itself can be returned.
func barrettReduce(x int16) int16 {
	t := int16((int32(x) * barrettMultiplier) >> 26)
	// t·q may wrap around int16, but the difference fits, and int16
	// arithmetic is modulo 2¹⁶.
	return x - t*Q
}

// condSubQ returns x - q if x ≥ q and x otherwise, for x in [0, 2q), without
// branching on x.
func condSubQ(x int16) int16 {
	x -= Q
	return x + (x>>15)&Q
}

// condAddQ returns x + q if x < 0 and x otherwise, for x in (-q, q).
func condAddQ(x int16) int16 {
	return x + (x>>15)&Q
}
