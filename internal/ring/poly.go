// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ring

import "errors"

// EncodingSize12 is the size of a ring element encoded with ByteEncode₁₂.
const EncodingSize12 = N * 12 / 8

// MessageSize is the size of a message encoded with ByteEncode₁.
const MessageSize = N / 8

// A Poly is an element of Rq, or of its NTT representation Tq.
//
// Coefficients are not always reduced, see Reduce and Normalize.
type Poly [N]int16

// Add sets p to a + b, without reducing. p may alias a or b.
func (p *Poly) Add(a, b *Poly) {
	for i := range p {
		p[i] = a[i] + b[i]
	}
}

// Sub sets p to a - b, without reducing. p may alias a or b.
func (p *Poly) Sub(a, b *Poly) {
	for i := range p {
		p[i] = a[i] - b[i]
	}
}

// Reduce almost normalizes p: every coefficient ends up in [0, q].
func (p *Poly) Reduce() {
	for i := range p {
		p[i] = barrettReduce(p[i])
	}
}

// Normalize reduces every coefficient to its canonical value in [0, q).
func (p *Poly) Normalize() {
	for i := range p {
		p[i] = condSubQ(barrettReduce(p[i]))
	}
}

// ToMontgomery multiplies p by R. Any coefficients are accepted, and the
// results are bounded by q in absolute value.
func (p *Poly) ToMontgomery() {
	for i := range p {
		p[i] = toMont(p[i])
	}
}

// ToBytes writes ByteEncode₁₂(p), FIPS 203 Algorithm 5, to b, which must be
// EncodingSize12 bytes long.
//
// Pairs of 12-bit coefficients are packed little-endian into three bytes.
// p must be normalized.
func (p *Poly) ToBytes(b []byte) {
	b = b[:EncodingSize12]
	for i := 0; i < N; i += 2 {
		x := uint32(p[i]) | uint32(p[i+1])<<12
		b[0] = uint8(x)
		b[1] = uint8(x >> 8)
		b[2] = uint8(x >> 16)
		b = b[3:]
	}
}

// FromBytes sets p to ByteDecode₁₂(b), FIPS 203 Algorithm 6, where b must be
// EncodingSize12 bytes long.
//
// Coefficients are not checked against q, so they end up in [0, 2¹²), see
// FromBytesChecked.
func (p *Poly) FromBytes(b []byte) {
	b = b[:EncodingSize12]
	for i := 0; i < N; i += 2 {
		d := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
		p[i] = int16(d & 0xfff)
		p[i+1] = int16(d >> 12)
		b = b[3:]
	}
}

var errUnreducedCoefficient = errors.New("unreduced coefficient")

// FromBytesChecked is like FromBytes, but returns an error if any coefficient
// is not smaller than q, implementing the modulus check of FIPS 203,
// Section 7.2. p is left in an unspecified state on error.
func (p *Poly) FromBytesChecked(b []byte) error {
	p.FromBytes(b)
	var bad int16
	for i := range p {
		// Q - 1 - p[i] is negative iff p[i] ≥ q.
		bad |= Q - 1 - p[i]
	}
	if bad < 0 {
		return errUnreducedCoefficient
	}
	return nil
}

// FromMessage sets p to Decompress₁(ByteDecode₁(m)): every bit of m becomes
// either 0 or ⌈q/2⌋, without branching on the bits. m must be MessageSize
// bytes long.
func (p *Poly) FromMessage(m []byte) {
	m = m[:MessageSize]
	for i := range p {
		bit := int16(m[i/8]>>(i%8)) & 1
		p[i] = -bit & ((Q + 1) / 2)
	}
}

// ToMessage writes ByteEncode₁(Compress₁(p)) to m, which must be MessageSize
// bytes long. p must be normalized.
//
// Compress₁(x) is 1 exactly for x in [⌈q/4⌋, ⌊3q/4⌋] = [833, 2496], which is
// computed with arithmetic masking rather than comparisons.
func (p *Poly) ToMessage(m []byte) {
	m = m[:MessageSize]
	for i := range m {
		m[i] = 0
	}
	for i, x := range p {
		// Center on q/2: t is in [-832, 831] for message bits set to one.
		t := (Q-1)/2 - x
		// Fold negative values onto non-negative ones: t ↦ -t-1.
		t ^= t >> 15
		// t < 832 iff the bit is one, that is iff t - 832 is negative.
		t -= 832
		m[i/8] |= byte(t>>15) & 1 << (i % 8)
	}
}
