// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kat

import (
	"bytes"
	"fmt"

	"filippo.io/mlkem/sha3"
)

// A KEM is a deterministic key encapsulation mechanism operating on encoded
// keys, like an ML-KEM parameter set.
type KEM interface {
	// GenerateKeyPair derives a key pair from a 64-byte "d || z" seed.
	GenerateKeyPair(seed []byte) (ek, dk []byte, err error)
	// Encapsulate derives a ciphertext and shared key from ek and the 32
	// bytes of randomness m.
	Encapsulate(ek, m []byte) (c, K []byte, err error)
	Decapsulate(dk, c []byte) (K []byte, err error)
	CiphertextSize() int
}

// Accumulate runs n iterations of key generation, encapsulation,
// decapsulation, and decapsulation of a random ciphertext, drawing every
// input from a SHAKE128 stream over the empty string. It returns the
// SHAKE128 digest of all outputs, which two implementations agree on if and
// only if (with overwhelming probability) they produced the same outputs.
//
// It fails if a decapsulated key doesn't match the encapsulated one.
func Accumulate(kem KEM, n int) ([]byte, error) {
	s := sha3.NewShake128()
	o := sha3.NewShake128()
	seed := make([]byte, 64)
	m := make([]byte, 32)
	ct1 := make([]byte, kem.CiphertextSize())

	for i := 0; i < n; i++ {
		s.Read(seed)
		ek, dk, err := kem.GenerateKeyPair(seed)
		if err != nil {
			return nil, fmt.Errorf("iteration %d: key generation: %w", i, err)
		}
		o.Write(ek)
		o.Write(dk)

		s.Read(m)
		ct, k, err := kem.Encapsulate(ek, m)
		if err != nil {
			return nil, fmt.Errorf("iteration %d: encapsulation: %w", i, err)
		}
		o.Write(ct)
		o.Write(k)

		kk, err := kem.Decapsulate(dk, ct)
		if err != nil {
			return nil, fmt.Errorf("iteration %d: decapsulation: %w", i, err)
		}
		if !bytes.Equal(kk, k) {
			return nil, fmt.Errorf("iteration %d: decapsulated key %x, expected %x", i, kk, k)
		}

		s.Read(ct1)
		k1, err := kem.Decapsulate(dk, ct1)
		if err != nil {
			return nil, fmt.Errorf("iteration %d: decapsulation of random ciphertext: %w", i, err)
		}
		o.Write(k1)
	}

	return o.Sum(nil), nil
}
