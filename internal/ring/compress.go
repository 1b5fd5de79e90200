// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ring

const (
	// compressMultiplier is ⌊2²⁴/q⌋. Compression operates on dividends
	// smaller than q·2¹¹ < 2²⁴, for which the quotient estimate is off by at
	// most one.
	compressMultiplier = 5039
	compressShift      = 24
)

// compress maps a field element uniformly to the range 0 to 2ᵈ-1, according
// to FIPS 203, Definition 4.7.
//
// x must be in [0, q).
func compress(x uint16, d uint8) uint16 {
	// We want to compute (x * 2ᵈ) / q, rounded to nearest integer, with 1/2
	// rounding up (see FIPS 203, Section 2.3).

	// Barrett reduction produces a quotient and a remainder in the range [0, 2q),
	// such that dividend = quotient * q + remainder.
	dividend := uint32(x) << d // x * 2ᵈ
	quotient := uint32(uint64(dividend) * compressMultiplier >> compressShift)
	remainder := dividend - quotient*Q

	// Since the remainder is in the range [0, 2q), not [0, q), we need to
	// portion it into three spans for rounding.
	//
	//     [ 0,       q/2     ) -> round to 0
	//     [ q/2,     q + q/2 ) -> round to 1
	//     [ q + q/2, 2q      ) -> round to 2
	//
	// We can convert that to the following logic: add 1 if remainder > q/2,
	// then add 1 again if remainder > q + q/2.
	//
	// Note that if remainder > x, then ⌊x⌋ - remainder underflows, and the top
	// bit of the difference will be set.
	quotient += (Q/2 - remainder) >> 31 & 1
	quotient += (Q + Q/2 - remainder) >> 31 & 1

	// quotient might have overflowed at this point, so reduce it by masking.
	var mask uint32 = (1 << d) - 1
	return uint16(quotient & mask)
}

// decompress maps a number x between 0 and 2ᵈ-1 uniformly to the full range
// of field elements, according to FIPS 203, Definition 4.8.
func decompress(y uint16, d uint8) uint16 {
	// We want to compute (y * q) / 2ᵈ, rounded to nearest integer, with 1/2
	// rounding up (see FIPS 203, Section 2.3).

	dividend := uint32(y) * Q
	quotient := dividend >> d // (y * q) / 2ᵈ

	// The d'th least-significant bit of the dividend (the most significant bit
	// of the remainder) is 1 for the top half of the values that divide to the
	// same quotient, which are the ones that round up.
	quotient += dividend >> (d - 1) & 1

	// quotient <= (2ᵈ-1) * q / 2ᵈ + 1 < q
	return uint16(quotient)
}

func checkCompressWidth(d uint8) {
	switch d {
	case 1, 4, 5, 10, 11:
	default:
		panic("ring: unsupported compression width")
	}
}

// CompressedSize returns the size of a ring element encoded with
// ByteEncode_d, that is 32·d bytes.
func CompressedSize(d uint8) int {
	return N * int(d) / 8
}

// CompressTo writes ByteEncode_d(Compress_d(p)) to b, which must be
// CompressedSize(d) bytes long. p must be normalized.
//
// Coefficient i occupies bits i·d to (i+1)·d-1 of b, where bit j is bit j%8
// of byte j/8.
func (p *Poly) CompressTo(b []byte, d uint8) {
	checkCompressWidth(d)
	b = b[:CompressedSize(d)]
	var acc uint32
	var accLen uint8
	for _, x := range p {
		acc |= uint32(compress(uint16(x), d)) << accLen
		accLen += d
		for accLen >= 8 {
			b[0] = byte(acc)
			b = b[1:]
			acc >>= 8
			accLen -= 8
		}
	}
}

// Decompress sets p to Decompress_d(ByteDecode_d(b)), where b must be
// CompressedSize(d) bytes long. The result is normalized.
//
// Every d-bit value decodes, so unlike FromBytes there are no invalid
// encodings.
func (p *Poly) Decompress(b []byte, d uint8) {
	checkCompressWidth(d)
	b = b[:CompressedSize(d)]
	var acc uint32
	var accLen uint8
	mask := uint32(1)<<d - 1
	for i := range p {
		for accLen < d {
			acc |= uint32(b[0]) << accLen
			b = b[1:]
			accLen += 8
		}
		p[i] = int16(decompress(uint16(acc&mask), d))
		acc >>= d
		accLen -= d
	}
}
