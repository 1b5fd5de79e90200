// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mlkem implements the quantum-resistant key encapsulation method
// ML-KEM (formerly known as Kyber), as specified in [NIST FIPS 203].
//
// All three parameter sets are provided: ML-KEM-512, ML-KEM-768 and
// ML-KEM-1024. ML-KEM-768 is the recommended one.
//
// Every operation is deterministic given its inputs: key generation takes a
// seed and encapsulation takes the message m. Callers must provide uniformly
// random values, for example from crypto/rand.
//
// [NIST FIPS 203]: https://doi.org/10.6028/NIST.FIPS.203
package mlkem

// This package is a purposefully simple, ideally readable implementation of
// ML-KEM, as specified in NIST FIPS 203.
//
// The ring arithmetic, sampling and encodings live in internal/ring, and all
// hashing goes through this module's sha3 package. Variable names follow the
// notation of FIPS 203 where possible.
//
// Reviewers unfamiliar with polynomials or linear algebra might find the
// background at https://words.filippo.io/kyber-math/ useful.

import (
	"crypto/subtle"
	"fmt"

	"filippo.io/mlkem/internal/ring"
	"filippo.io/mlkem/sha3"
)

// An EncapsulationKey is the public key used to produce ciphertexts to be
// decapsulated by the corresponding DecapsulationKey.
type EncapsulationKey struct {
	p *ParameterSet
	b []byte   // encoded encapsulation key
	h [32]byte // H(ek)
	encryptionKey
}

// NewEncapsulationKey parses an encapsulation key from its encoded form.
// If the encapsulation key is not valid, NewEncapsulationKey returns an error
// wrapping ErrMalformedInput.
func (p *ParameterSet) NewEncapsulationKey(encapsulationKey []byte) (*EncapsulationKey, error) {
	if len(encapsulationKey) != p.EncapsulationKeySize() {
		return nil, fmt.Errorf("%w: %s encapsulation key of length %d, expected %d",
			ErrMalformedInput, p.name, len(encapsulationKey), p.EncapsulationKeySize())
	}
	ek, err := p.parseEncryptionKey(encapsulationKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %s encapsulation key: %v", ErrMalformedInput, p.name, err)
	}
	return &EncapsulationKey{
		p:             p,
		b:             append([]byte(nil), encapsulationKey...),
		h:             sha3.Sum256(encapsulationKey),
		encryptionKey: *ek,
	}, nil
}

// Bytes returns the encapsulation key in its encoded form.
func (ek *EncapsulationKey) Bytes() []byte {
	return append([]byte(nil), ek.b...)
}

// ParameterSet returns the parameter set of the key.
func (ek *EncapsulationKey) ParameterSet() *ParameterSet {
	return ek.p
}

// Encapsulate generates a shared key and an associated ciphertext, according
// to FIPS 203, Algorithm 17, from the 32 bytes of randomness m.
//
// The shared key must be kept secret. m must be uniformly random and never
// reused.
func (ek *EncapsulationKey) Encapsulate(m []byte) (ciphertext, sharedKey []byte, err error) {
	if len(m) != MessageSize {
		return nil, nil, fmt.Errorf("%w: message of length %d, expected %d",
			ErrMalformedInput, len(m), MessageSize)
	}
	ciphertext, sharedKey = ek.encapsulate(m)
	return ciphertext, sharedKey, nil
}

func (ek *EncapsulationKey) encapsulate(m []byte) (c, K []byte) {
	G := sha3.New512()
	G.Write(m)
	G.Write(ek.h[:])
	Kr := G.Sum(make([]byte, 0, 64))
	K, r := Kr[:SharedKeySize], Kr[SharedKeySize:]
	c = ek.p.pkeEncrypt(&ek.encryptionKey, m, r)
	return c, K
}

// A DecapsulationKey is the secret key used to decapsulate a shared key from a
// ciphertext. It includes various precomputed values.
type DecapsulationKey struct {
	ek *EncapsulationKey
	decryptionKey
	z [32]byte

	// seed is d || z, when the key was generated from a seed.
	seed    [SeedSize]byte
	hasSeed bool
}

// NewDecapsulationKeyFromSeed deterministically generates a decapsulation key
// from a 64-byte seed in the "d || z" form, according to FIPS 203,
// Algorithm 16. The seed must be uniformly random.
func (p *ParameterSet) NewDecapsulationKeyFromSeed(seed []byte) (*DecapsulationKey, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("%w: seed of length %d, expected %d",
			ErrMalformedInput, len(seed), SeedSize)
	}
	d, z := seed[:32], seed[32:]

	ekPKE, ek, dk := p.pkeKeyGen(d)
	key := &DecapsulationKey{
		ek: &EncapsulationKey{
			p:             p,
			b:             ekPKE,
			h:             sha3.Sum256(ekPKE),
			encryptionKey: *ek,
		},
		decryptionKey: *dk,
		hasSeed:       true,
	}
	copy(key.z[:], z)
	copy(key.seed[:], seed)
	return key, nil
}

// NewDecapsulationKey parses a decapsulation key from its expanded encoding,
// dk_PKE || ek || H(ek) || z, as returned by Bytes.
//
// It runs the hash check of FIPS 203, Section 7.3, and the modulus check on the
// embedded encapsulation key. On failure it returns an error wrapping
// ErrMalformedInput.
func (p *ParameterSet) NewDecapsulationKey(decapsulationKey []byte) (*DecapsulationKey, error) {
	if len(decapsulationKey) != p.DecapsulationKeySize() {
		return nil, fmt.Errorf("%w: %s decapsulation key of length %d, expected %d",
			ErrMalformedInput, p.name, len(decapsulationKey), p.DecapsulationKeySize())
	}
	b := decapsulationKey
	dkPKE, b := b[:p.decryptionKeySize()], b[p.decryptionKeySize():]
	ekBytes, b := b[:p.EncapsulationKeySize()], b[p.EncapsulationKeySize():]
	h, z := b[:32], b[32:]

	ek, err := p.NewEncapsulationKey(ekBytes)
	if err != nil {
		return nil, err
	}
	if subtle.ConstantTimeCompare(ek.h[:], h) != 1 {
		return nil, fmt.Errorf("%w: %s decapsulation key hash check failed", ErrMalformedInput, p.name)
	}

	key := &DecapsulationKey{
		ek:            ek,
		decryptionKey: *p.parseDecryptionKey(dkPKE),
	}
	copy(key.z[:], z)
	return key, nil
}

// Bytes returns the decapsulation key in its expanded encoding,
// dk_PKE || ek || H(ek) || z.
func (dk *DecapsulationKey) Bytes() []byte {
	p := dk.ek.p
	b := make([]byte, p.decryptionKeySize(), p.DecapsulationKeySize())
	s := ring.NewVec(p.k)
	copy(s, dk.s)
	s.Normalize()
	s.ToBytes(b)
	b = append(b, dk.ek.b...)
	b = append(b, dk.ek.h[:]...)
	b = append(b, dk.z[:]...)
	return b
}

// Seed returns the 64-byte "d || z" seed the key was generated from, and
// false if the key was parsed from its expanded encoding instead.
func (dk *DecapsulationKey) Seed() ([]byte, bool) {
	if !dk.hasSeed {
		return nil, false
	}
	return append([]byte(nil), dk.seed[:]...), true
}

// EncapsulationKey returns the public encapsulation key necessary to produce
// ciphertexts.
func (dk *DecapsulationKey) EncapsulationKey() *EncapsulationKey {
	return dk.ek
}

// Decapsulate generates a shared key from a ciphertext, according to FIPS 203,
// Algorithm 18. If the ciphertext has the wrong length, Decapsulate returns an
// error wrapping ErrMalformedInput.
//
// Any ciphertext of the right length decapsulates successfully: an invalid or
// tampered ciphertext yields a pseudorandom key derived from the secret z and
// the ciphertext (implicit rejection).
//
// The shared key must be kept secret.
func (dk *DecapsulationKey) Decapsulate(ciphertext []byte) (sharedKey []byte, err error) {
	p := dk.ek.p
	if len(ciphertext) != p.CiphertextSize() {
		return nil, fmt.Errorf("%w: %s ciphertext of length %d, expected %d",
			ErrMalformedInput, p.name, len(ciphertext), p.CiphertextSize())
	}
	return dk.decapsulate(ciphertext), nil
}

func (dk *DecapsulationKey) decapsulate(c []byte) []byte {
	p := dk.ek.p
	m := p.pkeDecrypt(&dk.decryptionKey, c)

	G := sha3.New512()
	G.Write(m)
	G.Write(dk.ek.h[:])
	Kr := G.Sum(make([]byte, 0, 64))
	Kout, r := Kr[:SharedKeySize], Kr[SharedKeySize:]

	J := sha3.NewShake256()
	J.Write(dk.z[:])
	J.Write(c)
	Kbar := make([]byte, SharedKeySize)
	J.Read(Kbar)

	c1 := p.pkeEncrypt(&dk.ek.encryptionKey, m, r)

	subtle.ConstantTimeCopy(1-subtle.ConstantTimeCompare(c, c1), Kout, Kbar)
	return Kout
}

// GenerateKeyPair deterministically generates a key pair from a 64-byte seed
// in the "d || z" form, and returns the encoded encapsulation key and the
// expanded decapsulation key.
func (p *ParameterSet) GenerateKeyPair(seed []byte) (encapsulationKey, decapsulationKey []byte, err error) {
	dk, err := p.NewDecapsulationKeyFromSeed(seed)
	if err != nil {
		return nil, nil, err
	}
	return dk.ek.Bytes(), dk.Bytes(), nil
}

// Encapsulate parses an encoded encapsulation key and encapsulates a shared key
// to it with the 32 bytes of randomness m.
func (p *ParameterSet) Encapsulate(encapsulationKey, m []byte) (ciphertext, sharedKey []byte, err error) {
	if len(m) != MessageSize {
		return nil, nil, fmt.Errorf("%w: message of length %d, expected %d",
			ErrMalformedInput, len(m), MessageSize)
	}
	ek, err := p.NewEncapsulationKey(encapsulationKey)
	if err != nil {
		return nil, nil, err
	}
	ciphertext, sharedKey = ek.encapsulate(m)
	return ciphertext, sharedKey, nil
}

// Decapsulate parses an expanded decapsulation key and decapsulates the
// shared key from ciphertext.
func (p *ParameterSet) Decapsulate(decapsulationKey, ciphertext []byte) (sharedKey []byte, err error) {
	if len(ciphertext) != p.CiphertextSize() {
		return nil, fmt.Errorf("%w: %s ciphertext of length %d, expected %d",
			ErrMalformedInput, p.name, len(ciphertext), p.CiphertextSize())
	}
	dk, err := p.NewDecapsulationKey(decapsulationKey)
	if err != nil {
		return nil, err
	}
	return dk.decapsulate(ciphertext), nil
}
