// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ring

// zetas are the powers of ζ = 17 used by the NTT, in Montgomery form and in
// bit-reversed order:
//
//	zetas[k] = ζ^BitRev₇(k) · R mod q
//
// The NTT uses zetas[1:128], BaseMul uses zetas[64:128] (and their
// negations), and the inverse NTT walks the same table backwards.
var zetas = [128]int16{
	2285, 2571, 2970, 1812, 1493, 1422, 287, 202, 3158, 622, 1577, 182,
	962, 2127, 1855, 1468, 573, 2004, 264, 383, 2500, 1458, 1727, 3199,
	2648, 1017, 732, 608, 1787, 411, 3124, 1758, 1223, 652, 2777, 1015,
	2036, 1491, 3047, 1785, 516, 3321, 3009, 2663, 1711, 2167, 126,
	1469, 2476, 3239, 3058, 830, 107, 1908, 3082, 2378, 2931, 961, 1821,
	2604, 448, 2264, 677, 2054, 2226, 430, 555, 843, 2078, 871, 1550,
	105, 422, 587, 177, 3094, 3038, 2869, 1574, 1653, 3083, 778, 1159,
	3182, 2552, 1483, 2727, 1119, 1739, 644, 2457, 349, 418, 329, 3173,
	3254, 817, 1097, 603, 610, 1322, 2044, 1864, 384, 2114, 3193, 1218,
	1994, 2455, 220, 2142, 1670, 2144, 1799, 2051, 794, 1819, 2475,
	2459, 478, 3221, 3021, 996, 991, 958, 1869, 1522, 1628,
}

// invNTTScale is R²/128 mod q. Multiplying by it in Montgomery form undoes
// the factor 2⁷ accumulated by the inverse butterflies and leaves a factor R.
const invNTTScale = 1441

// NTT replaces p with its number-theoretic transform, FIPS 203 Algorithm 9,
// in place.
//
// X²⁵⁶+1 splits into 128 irreducible factors X² - ζ^(2·BitRev₇(i)+1) over
// ℤq, so the transform yields 128 degree-one residues rather than 256
// scalars; they are stored as consecutive pairs of coefficients in
// bit-reversed order.
//
// Coefficients must be bounded by q in absolute value. The output is bounded
// by 8q and must be reduced before BaseMul. Since zetas are in Montgomery
// form and multiplied with fqmul, the transform doesn't change the
// Montgomery factor of the input.
func (p *Poly) NTT() {
	k := 1
	for l := 128; l >= 2; l >>= 1 {
		for start := 0; start < N; start += 2 * l {
			zeta := zetas[k]
			k++
			// Cooley-Tukey butterflies: (a, b) ↦ (a + ζb, a - ζb).
			for j := start; j < start+l; j++ {
				t := fqmul(zeta, p[j+l])
				p[j+l] = p[j] - t
				p[j] = p[j] + t
			}
		}
	}
}

// InverseNTT replaces p with its inverse number-theoretic transform, FIPS 203
// Algorithm 10, multiplied by the Montgomery factor R.
//
// The factor R cancels the R⁻¹ left by BaseMul, so that for inputs in the
// normal domain InverseNTT(BaseMul(NTT(a), NTT(b))) = a·b. For a single
// polynomial, InverseNTT(NTT(a)) = a·R.
//
// Coefficients must be bounded by 2¹⁴ in absolute value. The output is
// bounded by q in absolute value.
func (p *Poly) InverseNTT() {
	k := 127
	for l := 2; l <= 128; l <<= 1 {
		for start := 0; start < N; start += 2 * l {
			// ζ^-BitRev₇(k) = -ζ^(128-BitRev₇(k)), and the sign is folded
			// into computing b - a rather than a - b, so the forward table
			// serves read backwards.
			zeta := zetas[k]
			k--
			// Gentleman-Sande butterflies: (a, b) ↦ (a + b, ζ(b - a)).
			for j := start; j < start+l; j++ {
				t := p[j]
				p[j] = barrettReduce(t + p[j+l])
				p[j+l] = fqmul(zeta, p[j+l]-t)
			}
		}
	}
	for j := range p {
		p[j] = fqmul(p[j], invNTTScale)
	}
}

// baseMul sets r to the product of the degree-one polynomials a and b modulo
// X² - ζ, where zeta is ζ·R. The result carries a factor R⁻¹.
//
//	(a₀ + a₁X)(b₀ + b₁X) = (a₀b₀ + a₁b₁ζ) + (a₀b₁ + a₁b₀)X
//
// Products of coefficients must be smaller than 2¹⁵q in absolute value. The
// output is bounded by 2q in absolute value.
func baseMul(r, a, b *[2]int16, zeta int16) {
	r[0] = fqmul(fqmul(a[1], b[1]), zeta)
	r[0] += fqmul(a[0], b[0])
	r[1] = fqmul(a[0], b[1])
	r[1] += fqmul(a[1], b[0])
}

// BaseMulMontgomery sets p to the product of a and b in the NTT domain,
// FIPS 203 Algorithm 11, times R⁻¹.
//
// Both inputs must be in the NTT domain with reduced coefficients, see
// Reduce. The output is bounded by 2q in absolute value. p must not alias a
// or b.
func (p *Poly) BaseMulMontgomery(a, b *Poly) {
	for i := 0; i < N/4; i++ {
		zeta := zetas[64+i]
		baseMul((*[2]int16)(p[4*i:]), (*[2]int16)(a[4*i:]), (*[2]int16)(b[4*i:]), zeta)
		baseMul((*[2]int16)(p[4*i+2:]), (*[2]int16)(a[4*i+2:]), (*[2]int16)(b[4*i+2:]), -zeta)
	}
}

// BaseMulAccMontgomery sets p to the inner product of a and b in the NTT
// domain, times R⁻¹, and reduces it.
//
// a and b must have the same length, at most four, and reduced coefficients.
func (p *Poly) BaseMulAccMontgomery(a, b Vec) {
	if len(a) != len(b) || len(a) > 4 {
		panic("ring: invalid vector lengths")
	}
	var t Poly
	*p = Poly{}
	for i := range a {
		t.BaseMulMontgomery(&a[i], &b[i])
		p.Add(p, &t)
	}
	p.Reduce()
}
