// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ring

import (
	"encoding/binary"

	"filippo.io/mlkem/sha3"
)

// SampleNTT draws a uniformly random element of Tq from a stream of uniformly
// random bytes, according to FIPS 203, Algorithm 7.
//
// The stream is SHAKE128(rho || x || y). For the matrix Â, FIPS 203 uses
// x = j and y = i for entry (i, j).
func SampleNTT(rho []byte, x, y byte) Poly {
	B := sha3.NewShake128()
	B.Write(rho)
	B.Write([]byte{x, y})

	// SampleNTT essentially draws 12 bits at a time from r, interprets them in
	// little-endian, and rejects values higher than q, until it drew 256
	// values. (The rejection rate is approximately 19%.)
	//
	// To do this from a bytes stream, it draws three bytes at a time, and
	// splits them into two uint16 appropriately masked.
	//
	//               r₀              r₁              r₂
	//       |- - - - - - - -|- - - - - - - -|- - - - - - - -|
	//
	//               Uint16(r₀ || r₁)
	//       |- - - - - - - - - - - - - - - -|
	//       |- - - - - - - - - - - -|
	//                   d₁
	//
	//                                Uint16(r₁ || r₂)
	//                       |- - - - - - - - - - - - - - - -|
	//                               |- - - - - - - - - - - -|
	//                                           d₂
	//
	// Note that in little-endian, the rightmost bits are the most significant
	// bits (dropped with a mask) and the leftmost bits are the least
	// significant bits (dropped with a right shift).

	var p Poly
	var j int         // index into p
	var buf [168]byte // one SHAKE128 block
	off := len(buf)   // index into buf, starts in a "buffer fully consumed" state
	for {
		if off >= len(buf) {
			B.Read(buf[:])
			off = 0
		}
		d1 := binary.LittleEndian.Uint16(buf[off:]) & 0b1111_1111_1111
		d2 := binary.LittleEndian.Uint16(buf[off+1:]) >> 4
		off += 3
		if d1 < Q {
			p[j] = int16(d1)
			j++
		}
		if j >= len(p) {
			break
		}
		if d2 < Q {
			p[j] = int16(d2)
			j++
		}
		if j >= len(p) {
			break
		}
	}
	return p
}

// SampleNoise draws a polynomial with coefficients in [-eta, eta] from the
// centered binomial distribution CBD_eta, FIPS 203, Algorithm 8, using
// PRF_eta(seed, nonce) = SHAKE256(seed || nonce) as the source of 64·eta
// bytes.
//
// eta must be 2 or 3. The same inputs always produce the same polynomial.
func SampleNoise(seed []byte, nonce byte, eta int) Poly {
	var buf [64 * 3]byte
	b := buf[:64*eta]
	prf := sha3.NewShake256()
	prf.Write(seed)
	prf.Write([]byte{nonce})
	prf.Read(b)

	var p Poly
	switch eta {
	case 2:
		cbd2(&p, b)
	case 3:
		cbd3(&p, b)
	default:
		panic("ring: unsupported eta")
	}
	return p
}

// cbd2 samples with η = 2: each coefficient is the difference of the sums of
// two pairs of bits, taken four bits at a time.
func cbd2(p *Poly, b []byte) {
	for i := 0; i < N/8; i++ {
		t := binary.LittleEndian.Uint32(b[4*i:])
		// Sum adjacent bits: every two-bit field of d holds the popcount of
		// the respective two bits of t.
		d := t & 0x55555555
		d += t >> 1 & 0x55555555
		for j := 0; j < 8; j++ {
			x := int16(d >> (4 * j) & 0x3)
			y := int16(d >> (4*j + 2) & 0x3)
			p[8*i+j] = x - y
		}
	}
}

// cbd3 samples with η = 3, taking six bits at a time from 24-bit words.
func cbd3(p *Poly, b []byte) {
	for i := 0; i < N/4; i++ {
		t := uint32(b[3*i]) | uint32(b[3*i+1])<<8 | uint32(b[3*i+2])<<16
		d := t & 0x00249249
		d += t >> 1 & 0x00249249
		d += t >> 2 & 0x00249249
		for j := 0; j < 4; j++ {
			x := int16(d >> (6 * j) & 0x7)
			y := int16(d >> (6*j + 3) & 0x7)
			p[4*i+j] = x - y
		}
	}
}
