// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mlkem

import (
	"filippo.io/mlkem/internal/ring"
	"filippo.io/mlkem/sha3"
)

// encryptionKey is the parsed and expanded form of a K-PKE encryption key.
type encryptionKey struct {
	t  ring.Vec    // ByteDecode₁₂(ek[:384k]), NTT domain, normalized
	aT ring.Matrix // Âᵀ, NTT domain, normalized
}

// decryptionKey is the parsed form of a K-PKE decryption key.
type decryptionKey struct {
	s ring.Vec // ŝ, NTT domain, reduced
}

// pkeKeyGen generates a K-PKE key pair from the 32-byte seed d, according to
// FIPS 203, Algorithm 13. It returns the encoded encryption key and the
// parsed keys.
func (p *ParameterSet) pkeKeyGen(d []byte) (ekPKE []byte, ek *encryptionKey, dk *decryptionKey) {
	G := sha3.New512()
	G.Write(d)
	G.Write([]byte{byte(p.k)})
	ρσ := G.Sum(make([]byte, 0, 64))
	ρ, σ := ρσ[:32], ρσ[32:]

	A := ring.ExpandMatrix(ρ, p.k, false)

	var N byte
	s := ring.NewVec(p.k)
	for i := range s {
		s[i] = ring.SampleNoise(σ, N, p.eta1)
		N++
	}
	e := ring.NewVec(p.k)
	for i := range e {
		e[i] = ring.SampleNoise(σ, N, p.eta1)
		N++
	}
	s.NTT()
	s.Normalize()
	e.NTT()

	// t̂ = Â ◦ ŝ + ê. The products carry a factor R⁻¹, which ToMontgomery
	// cancels before adding ê.
	t := ring.NewVec(p.k)
	t.MulAccMontgomery(A, s)
	t.ToMontgomery()
	t.Add(t, e)
	t.Normalize()

	ekPKE = make([]byte, p.EncapsulationKeySize())
	t.ToBytes(ekPKE)
	copy(ekPKE[p.k*ring.EncodingSize12:], ρ)

	return ekPKE, &encryptionKey{t: t, aT: A.Transpose()}, &decryptionKey{s: s}
}

// parseEncryptionKey decodes an encryption key, running the modulus check of
// FIPS 203, Section 7.2, and expands Âᵀ from the seed ρ. The length must have
// been checked already.
func (p *ParameterSet) parseEncryptionKey(ekPKE []byte) (*encryptionKey, error) {
	t := ring.NewVec(p.k)
	if err := t.FromBytesChecked(ekPKE[:p.k*ring.EncodingSize12]); err != nil {
		return nil, err
	}
	ρ := ekPKE[p.k*ring.EncodingSize12:]
	return &encryptionKey{t: t, aT: ring.ExpandMatrix(ρ, p.k, true)}, nil
}

// parseDecryptionKey decodes a decryption key. The length must have been
// checked already.
func (p *ParameterSet) parseDecryptionKey(dkPKE []byte) *decryptionKey {
	s := ring.NewVec(p.k)
	s.FromBytes(dkPKE[:p.decryptionKeySize()])
	// Coefficients are not checked, but they must be reduced for BaseMul.
	s.Reduce()
	return &decryptionKey{s: s}
}

// pkeEncrypt encrypts a plaintext message, according to FIPS 203,
// Algorithm 14, with randomness r.
//
// The message m must be 32 bytes, and r 32 bytes.
func (p *ParameterSet) pkeEncrypt(ek *encryptionKey, m, r []byte) []byte {
	var N byte
	rv := ring.NewVec(p.k)
	for i := range rv {
		rv[i] = ring.SampleNoise(r, N, p.eta1)
		N++
	}
	e1 := ring.NewVec(p.k)
	for i := range e1 {
		e1[i] = ring.SampleNoise(r, N, p.eta2)
		N++
	}
	e2 := ring.SampleNoise(r, N, p.eta2)

	rv.NTT()
	rv.Reduce()

	// u = NTT⁻¹(Âᵀ ◦ r̂) + e₁. The R⁻¹ of the products cancels with the R
	// of InverseNTT.
	u := ring.NewVec(p.k)
	u.MulAccMontgomery(ek.aT, rv)
	u.InverseNTT()
	u.Add(u, e1)
	u.Normalize()

	// v = NTT⁻¹(t̂ᵀ ◦ r̂) + e₂ + Decompress₁(m)
	var μ, v ring.Poly
	μ.FromMessage(m)
	v.BaseMulAccMontgomery(ek.t, rv)
	v.InverseNTT()
	v.Add(&v, &e2)
	v.Add(&v, &μ)
	v.Normalize()

	c := make([]byte, p.CiphertextSize())
	u.CompressTo(c, p.du)
	v.CompressTo(c[p.k*ring.CompressedSize(p.du):], p.dv)
	return c
}

// pkeDecrypt decrypts a ciphertext, according to FIPS 203, Algorithm 15.
//
// c must be CiphertextSize bytes. Any ciphertext of the right length
// decrypts to some message.
func (p *ParameterSet) pkeDecrypt(dk *decryptionKey, c []byte) []byte {
	uSize := p.k * ring.CompressedSize(p.du)
	u := ring.NewVec(p.k)
	u.Decompress(c[:uSize], p.du)
	var v ring.Poly
	v.Decompress(c[uSize:], p.dv)

	// w = v - NTT⁻¹(ŝᵀ ◦ NTT(u))
	u.NTT()
	u.Reduce()
	var w ring.Poly
	w.BaseMulAccMontgomery(dk.s, u)
	w.InverseNTT()
	w.Sub(&v, &w)
	w.Normalize()

	m := make([]byte, MessageSize)
	w.ToMessage(m)
	return m
}
