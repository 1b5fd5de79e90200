// Package xwing implements the hybrid quantum-resistant key encapsulation
// method X-Wing, which combines X25519, ML-KEM-768, and SHA3-256 as specified
// in [draft-connolly-cfrg-xwing-kem].
//
// [draft-connolly-cfrg-xwing-kem]: https://datatracker.ietf.org/doc/draft-connolly-cfrg-xwing-kem/
package xwing

import (
	"bytes"
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/curve25519"

	"filippo.io/mlkem"
	"filippo.io/mlkem/sha3"
)

const (
	CiphertextSize       = mlkem.CiphertextSize768 + 32
	EncapsulationKeySize = mlkem.EncapsulationKeySize768 + 32
	SharedKeySize        = 32
	SeedSize             = 32

	// EncapsulationSeedSize is the size of the randomness consumed by
	// EncapsulateDerand: the ML-KEM message followed by an X25519 scalar.
	EncapsulationSeedSize = mlkem.MessageSize + 32
)

// A DecapsulationKey is the secret key used to decapsulate a shared key from a
// ciphertext. It includes various precomputed values.
type DecapsulationKey struct {
	sk  [SeedSize]byte
	skM *mlkem.DecapsulationKey
	skX [32]byte
	pk  [EncapsulationKeySize]byte
}

// Bytes returns the decapsulation key as a 32-byte seed.
func (dk *DecapsulationKey) Bytes() []byte {
	return bytes.Clone(dk.sk[:])
}

// EncapsulationKey returns the public encapsulation key necessary to produce
// ciphertexts.
func (dk *DecapsulationKey) EncapsulationKey() []byte {
	return bytes.Clone(dk.pk[:])
}

// GenerateKey generates a new decapsulation key, drawing random bytes from
// crypto/rand. The decapsulation key must be kept secret.
func GenerateKey() (*DecapsulationKey, error) {
	sk := make([]byte, SeedSize)
	if _, err := rand.Read(sk); err != nil {
		return nil, err
	}
	return NewKeyFromSeed(sk)
}

// NewKeyFromSeed deterministically generates a decapsulation key from a 32-byte
// seed. The seed must be uniformly random.
func NewKeyFromSeed(sk []byte) (*DecapsulationKey, error) {
	if len(sk) != SeedSize {
		return nil, fmt.Errorf("xwing: %w: seed of length %d", mlkem.ErrMalformedInput, len(sk))
	}

	expanded := make([]byte, mlkem.SeedSize+32)
	sha3.ShakeSum256(expanded, sk)

	skM, err := mlkem.MLKEM768.NewDecapsulationKeyFromSeed(expanded[:mlkem.SeedSize])
	if err != nil {
		return nil, err
	}
	pkM := skM.EncapsulationKey().Bytes()

	dk := &DecapsulationKey{skM: skM}
	copy(dk.sk[:], sk)
	copy(dk.skX[:], expanded[mlkem.SeedSize:])
	pkX, err := curve25519.X25519(dk.skX[:], curve25519.Basepoint)
	if err != nil {
		return nil, err
	}
	copy(dk.pk[:], append(pkM, pkX...))
	return dk, nil
}

const xwingLabel = (`` +
	`\./` +
	`/^\`)

func combiner(ssM, ssX, ctX, pkX []byte) []byte {
	h := sha3.New256()
	h.Write(ssM)
	h.Write(ssX)
	h.Write(ctX)
	h.Write(pkX)
	h.Write([]byte(xwingLabel))
	return h.Sum(nil)
}

// Encapsulate generates a shared key and an associated ciphertext from an
// encapsulation key, drawing random bytes from crypto/rand.
// If the encapsulation key is not valid, Encapsulate returns an error.
//
// The shared key must be kept secret.
func Encapsulate(encapsulationKey []byte) (ciphertext, sharedKey []byte, err error) {
	eseed := make([]byte, EncapsulationSeedSize)
	if _, err := rand.Read(eseed); err != nil {
		return nil, nil, err
	}
	return EncapsulateDerand(encapsulationKey, eseed)
}

// EncapsulateDerand is like Encapsulate, but deterministically uses the 64
// bytes of eseed as randomness. It is meant for testing, eseed must be
// uniformly random and never reused.
func EncapsulateDerand(encapsulationKey, eseed []byte) (ciphertext, sharedKey []byte, err error) {
	if len(encapsulationKey) != EncapsulationKeySize {
		return nil, nil, fmt.Errorf("xwing: %w: encapsulation key of length %d",
			mlkem.ErrMalformedInput, len(encapsulationKey))
	}
	if len(eseed) != EncapsulationSeedSize {
		return nil, nil, fmt.Errorf("xwing: %w: encapsulation seed of length %d",
			mlkem.ErrMalformedInput, len(eseed))
	}

	pkM := encapsulationKey[:mlkem.EncapsulationKeySize768]
	pkX := encapsulationKey[mlkem.EncapsulationKeySize768:]
	m, ekX := eseed[:mlkem.MessageSize], eseed[mlkem.MessageSize:]

	ctX, err := curve25519.X25519(ekX, curve25519.Basepoint)
	if err != nil {
		return nil, nil, err
	}
	ssX, err := curve25519.X25519(ekX, pkX)
	if err != nil {
		return nil, nil, fmt.Errorf("xwing: %w: %v", mlkem.ErrMalformedInput, err)
	}

	ctM, ssM, err := mlkem.MLKEM768.Encapsulate(pkM, m)
	if err != nil {
		return nil, nil, err
	}

	ss := combiner(ssM, ssX, ctX, pkX)
	ct := append(ctM, ctX...)
	return ct, ss, nil
}

// Decapsulate generates a shared key from a ciphertext and a decapsulation key.
// If the ciphertext is not valid, Decapsulate returns an error.
//
// The shared key must be kept secret.
func Decapsulate(dk *DecapsulationKey, ciphertext []byte) (sharedKey []byte, err error) {
	if len(ciphertext) != CiphertextSize {
		return nil, fmt.Errorf("xwing: %w: ciphertext of length %d", mlkem.ErrMalformedInput, len(ciphertext))
	}

	ctM := ciphertext[:mlkem.CiphertextSize768]
	ctX := ciphertext[mlkem.CiphertextSize768:]
	pkX := dk.pk[mlkem.EncapsulationKeySize768:]

	ssM, err := dk.skM.Decapsulate(ctM)
	if err != nil {
		return nil, err
	}

	ssX, err := curve25519.X25519(dk.skX[:], ctX)
	if err != nil {
		return nil, fmt.Errorf("xwing: %w: %v", mlkem.ErrMalformedInput, err)
	}

	ss := combiner(ssM, ssX, ctX, pkX)
	return ss, nil
}
