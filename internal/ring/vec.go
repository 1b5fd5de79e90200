// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ring

// A Vec is a vector of k ring elements, all in the same domain.
type Vec []Poly

// A Matrix is a k×k matrix of ring elements, stored by rows.
type Matrix []Vec

// NewVec returns a zero vector of length k.
func NewVec(k int) Vec {
	return make(Vec, k)
}

// NTT applies Poly.NTT to every element.
func (v Vec) NTT() {
	for i := range v {
		v[i].NTT()
	}
}

// InverseNTT applies Poly.InverseNTT to every element.
func (v Vec) InverseNTT() {
	for i := range v {
		v[i].InverseNTT()
	}
}

// Reduce applies Poly.Reduce to every element.
func (v Vec) Reduce() {
	for i := range v {
		v[i].Reduce()
	}
}

// Normalize applies Poly.Normalize to every element.
func (v Vec) Normalize() {
	for i := range v {
		v[i].Normalize()
	}
}

// ToMontgomery applies Poly.ToMontgomery to every element.
func (v Vec) ToMontgomery() {
	for i := range v {
		v[i].ToMontgomery()
	}
}

// Add sets v to a + b, without reducing. All three must have the same length.
func (v Vec) Add(a, b Vec) {
	if len(a) != len(v) || len(b) != len(v) {
		panic("ring: vector length mismatch")
	}
	for i := range v {
		v[i].Add(&a[i], &b[i])
	}
}

// ToBytes writes ByteEncode₁₂ of every element to b, which must be
// len(v)·EncodingSize12 bytes long. v must be normalized.
func (v Vec) ToBytes(b []byte) {
	for i := range v {
		v[i].ToBytes(b[i*EncodingSize12:])
	}
}

// FromBytesChecked decodes len(v) ByteEncode₁₂ elements from b, which must
// be len(v)·EncodingSize12 bytes long, and returns an error if any
// coefficient is not smaller than q.
func (v Vec) FromBytesChecked(b []byte) error {
	for i := range v {
		if err := v[i].FromBytesChecked(b[i*EncodingSize12:]); err != nil {
			return err
		}
	}
	return nil
}

// FromBytes is like FromBytesChecked, but doesn't check the coefficients.
func (v Vec) FromBytes(b []byte) {
	for i := range v {
		v[i].FromBytes(b[i*EncodingSize12:])
	}
}

// CompressTo writes ByteEncode_d(Compress_d(·)) of every element to b, which
// must be len(v)·CompressedSize(d) bytes long. v must be normalized.
func (v Vec) CompressTo(b []byte, d uint8) {
	n := CompressedSize(d)
	for i := range v {
		v[i].CompressTo(b[i*n:], d)
	}
}

// Decompress decodes len(v) compressed elements from b, which must be
// len(v)·CompressedSize(d) bytes long.
func (v Vec) Decompress(b []byte, d uint8) {
	n := CompressedSize(d)
	for i := range v {
		v[i].Decompress(b[i*n:], d)
	}
}

// MulAccMontgomery sets v to m·u in the NTT domain, times R⁻¹, and reduces
// it. u must be reduced and have the same length as v and every row of m.
func (v Vec) MulAccMontgomery(m Matrix, u Vec) {
	if len(m) != len(v) {
		panic("ring: matrix size mismatch")
	}
	for i := range v {
		v[i].BaseMulAccMontgomery(m[i], u)
	}
}

// ExpandMatrix generates the k×k matrix Â from the 32-byte seed rho by
// calling SampleNTT(rho, j, i) for every entry (i, j), as in FIPS 203,
// Algorithm 13. If transposed is true, it generates Âᵀ instead, as needed by
// Algorithm 14.
func ExpandMatrix(rho []byte, k int, transposed bool) Matrix {
	m := make(Matrix, k)
	for i := range m {
		m[i] = NewVec(k)
		for j := range m[i] {
			if transposed {
				m[i][j] = SampleNTT(rho, byte(i), byte(j))
			} else {
				m[i][j] = SampleNTT(rho, byte(j), byte(i))
			}
		}
	}
	return m
}

// Transpose returns a new matrix holding the transpose of m. The elements
// are copied.
func (m Matrix) Transpose() Matrix {
	t := make(Matrix, len(m))
	for i := range t {
		t[i] = NewVec(len(m))
		for j := range t[i] {
			t[i][j] = m[j][i]
		}
	}
	return t
}
