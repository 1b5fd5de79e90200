// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sha3 implements the SHA-3 fixed-output hash functions and the
// SHAKE extendable-output functions defined in [FIPS 202], as well as the
// legacy Keccak hashes that predate the standard's domain separation.
//
// Unlike golang.org/x/crypto/sha3, messages don't need to be a whole number
// of bytes: DoFinalBits absorbs a trailing partial byte before finalizing,
// which is what bit-oriented test vectors require.
//
// None of the types in this package are safe for concurrent use.
//
// [FIPS 202]: https://doi.org/10.6028/NIST.FIPS.202
package sha3

import (
	"fmt"
	"hash"
)

// A Digest is a hash function that, in addition to [hash.Hash], can be
// finalized into a caller-provided buffer, optionally after a trailing
// partial byte, and names its algorithm.
//
// After DoFinal and DoFinalBits the Digest is reset and can be reused.
type Digest interface {
	hash.Hash

	// AlgorithmName returns the name of the hash function, like "SHA3-256".
	AlgorithmName() string

	// DoFinal writes Size() bytes of output to out and resets the Digest.
	// It returns the number of bytes written.
	DoFinal(out []byte) (int, error)

	// DoFinalBits absorbs the low partialBits bits of partialByte (in
	// least-significant-bit first order) then behaves like DoFinal.
	// partialBits must be between 0 and 7.
	DoFinalBits(out []byte, partialByte byte, partialBits int) (int, error)
}

var (
	_ Digest = (*Hasher)(nil)
	_ Digest = (*SHAKE)(nil)
)

// A Hasher is a SHA-3 or legacy Keccak instance with a fixed output size.
type Hasher struct {
	s    sponge
	size int
	name string
}

// New224 returns a new Hasher computing SHA3-224.
func New224() *Hasher { return newHasher(224, suffixSHA3, suffixSHA3Len, "SHA3-224") }

// New256 returns a new Hasher computing SHA3-256.
func New256() *Hasher { return newHasher(256, suffixSHA3, suffixSHA3Len, "SHA3-256") }

// New384 returns a new Hasher computing SHA3-384.
func New384() *Hasher { return newHasher(384, suffixSHA3, suffixSHA3Len, "SHA3-384") }

// New512 returns a new Hasher computing SHA3-512.
func New512() *Hasher { return newHasher(512, suffixSHA3, suffixSHA3Len, "SHA3-512") }

// NewLegacyKeccak256 returns a new Hasher computing the original Keccak-256,
// as used by Ethereum. It differs from SHA3-256 only in the padding.
func NewLegacyKeccak256() *Hasher { return newHasher(256, 0, 0, "Keccak-256") }

// NewLegacyKeccak512 returns a new Hasher computing the original Keccak-512.
func NewLegacyKeccak512() *Hasher { return newHasher(512, 0, 0, "Keccak-512") }

// NewSHA3 returns a new Hasher computing SHA3 with an output of bits bits,
// which must be one of 224, 256, 384 or 512.
func NewSHA3(bits int) (*Hasher, error) {
	switch bits {
	case 224:
		return New224(), nil
	case 256:
		return New256(), nil
	case 384:
		return New384(), nil
	case 512:
		return New512(), nil
	}
	return nil, fmt.Errorf("%w: unsupported SHA-3 output size %d", ErrInvalidConfiguration, bits)
}

// New returns a new Digest for the algorithm with the given name, as
// reported by AlgorithmName.
func New(name string) (Digest, error) {
	switch name {
	case "SHA3-224":
		return New224(), nil
	case "SHA3-256":
		return New256(), nil
	case "SHA3-384":
		return New384(), nil
	case "SHA3-512":
		return New512(), nil
	case "SHAKE128":
		return NewShake128(), nil
	case "SHAKE256":
		return NewShake256(), nil
	case "Keccak-256":
		return NewLegacyKeccak256(), nil
	case "Keccak-512":
		return NewLegacyKeccak512(), nil
	}
	return nil, fmt.Errorf("%w: unknown algorithm %q", ErrInvalidConfiguration, name)
}

func newHasher(bits int, suffix byte, suffixLen int, name string) *Hasher {
	// The capacity is twice the output size.
	rate := stateSize - 2*bits/8
	return &Hasher{
		s:    newSponge(rate, maxRounds, suffix, suffixLen),
		size: bits / 8,
		name: name,
	}
}

// Write absorbs more data into the hash's state. It never returns an error.
// It panics if a partial byte was already absorbed.
func (h *Hasher) Write(p []byte) (int, error) {
	h.s.absorb(p)
	return len(p), nil
}

// Sum appends the current hash to b and returns the resulting slice.
// It does not change the underlying hash state.
func (h *Hasher) Sum(b []byte) []byte {
	dup := h.s
	out := make([]byte, h.size)
	dup.squeeze(out)
	return append(b, out...)
}

// DoFinal implements [Digest].
func (h *Hasher) DoFinal(out []byte) (int, error) {
	return h.DoFinalBits(out, 0, 0)
}

// DoFinalBits implements [Digest].
func (h *Hasher) DoFinalBits(out []byte, partialByte byte, partialBits int) (int, error) {
	if err := checkFinal(len(out), h.size, partialBits); err != nil {
		return 0, err
	}
	if partialBits > 0 {
		h.s.absorbBits(partialByte, partialBits)
	}
	h.s.squeeze(out[:h.size])
	h.s.reset()
	return h.size, nil
}

func checkFinal(outLen, size, partialBits int) error {
	if partialBits < 0 || partialBits > 7 {
		return fmt.Errorf("%w: partial byte of %d bits", ErrInvalidConfiguration, partialBits)
	}
	if outLen < size {
		return fmt.Errorf("%w: need %d bytes, have %d", ErrInsufficientBuffer, size, outLen)
	}
	return nil
}

// Reset resets the Hasher to its initial state.
func (h *Hasher) Reset() { h.s.reset() }

// Size returns the number of bytes Sum and DoFinal produce.
func (h *Hasher) Size() int { return h.size }

// BlockSize returns the rate of the sponge, in bytes.
func (h *Hasher) BlockSize() int { return h.s.rate }

// AlgorithmName implements [Digest].
func (h *Hasher) AlgorithmName() string { return h.name }

// Sum224 returns the SHA3-224 digest of data.
func Sum224(data []byte) [28]byte {
	var out [28]byte
	h := New224()
	h.Write(data)
	h.s.squeeze(out[:])
	return out
}

// Sum256 returns the SHA3-256 digest of data.
func Sum256(data []byte) [32]byte {
	var out [32]byte
	h := New256()
	h.Write(data)
	h.s.squeeze(out[:])
	return out
}

// Sum384 returns the SHA3-384 digest of data.
func Sum384(data []byte) [48]byte {
	var out [48]byte
	h := New384()
	h.Write(data)
	h.s.squeeze(out[:])
	return out
}

// Sum512 returns the SHA3-512 digest of data.
func Sum512(data []byte) [64]byte {
	var out [64]byte
	h := New512()
	h.Write(data)
	h.s.squeeze(out[:])
	return out
}
