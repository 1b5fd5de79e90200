// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sha3

import (
	"encoding/binary"
	"fmt"
)

// stateSize is the size in bytes of the Keccak-f[1600] state, rate plus
// capacity.
const stateSize = 200

// Domain separation suffixes, appended to the message before pad10*1 and
// written in absorption order (least significant bit first). FIPS 202,
// Section 6.1 and 6.2.
const (
	suffixSHA3     = 0b10 // M || 01
	suffixSHA3Len  = 2
	suffixSHAKE    = 0b1111 // M || 1111
	suffixSHAKELen = 4
)

// sponge is the Keccak sponge construction over Keccak-p[1600, rounds].
//
// Absorption is tracked in bits so that a message can end in the middle of a
// byte. The permutation runs lazily: a full block is only permuted once more
// input arrives or the sponge is padded, so that the padding can be written
// into the same state.
//
// The zero value is not usable; sponges are copied by value to fork them.
type sponge struct {
	a [25]uint64

	rate   int // in bytes, a multiple of 8; fixed at construction
	rounds int // fixed at construction

	suffix    byte // domain separation bits, see suffixSHA3
	suffixLen int

	n         int  // absorbed bits in the current block
	off       int  // squeezed bytes in the current block
	partial   bool // a trailing partial byte was absorbed
	squeezing bool
}

func newSponge(rate, rounds int, suffix byte, suffixLen int) sponge {
	if rate <= 0 || rate >= stateSize || rate%8 != 0 {
		panic("sha3: invalid sponge rate")
	}
	return sponge{rate: rate, rounds: rounds, suffix: suffix, suffixLen: suffixLen}
}

func (s *sponge) permute() {
	keccakP1600(&s.a, s.rounds)
}

// reset returns s to the all-zero state, keeping its configuration.
func (s *sponge) reset() {
	*s = sponge{rate: s.rate, rounds: s.rounds, suffix: s.suffix, suffixLen: s.suffixLen}
}

// absorb XORs p into the state.
func (s *sponge) absorb(p []byte) {
	if s.squeezing {
		panic("sha3: Write after Read")
	}
	if s.partial {
		panic("sha3: Write after a partial byte")
	}
	blockBits := 8 * s.rate
	for len(p) > 0 {
		if s.n == blockBits {
			s.permute()
			s.n = 0
		}
		i := s.n / 8
		if i%8 == 0 {
			for len(p) >= 8 && i < s.rate {
				s.a[i/8] ^= binary.LittleEndian.Uint64(p)
				p = p[8:]
				i += 8
			}
		}
		for len(p) > 0 && i < s.rate {
			s.a[i/8] ^= uint64(p[0]) << (8 * (i % 8))
			p = p[1:]
			i++
		}
		s.n = 8 * i
	}
}

// absorbBits XORs the low n bits of b into the state. n must be in [1, 7],
// and no further input can be absorbed afterwards.
func (s *sponge) absorbBits(b byte, n int) {
	if s.squeezing {
		panic("sha3: Write after Read")
	}
	if s.partial {
		panic("sha3: Write after a partial byte")
	}
	if n < 1 || n > 7 {
		panic("sha3: invalid partial bit count")
	}
	s.xorBits(uint32(b), n)
	s.partial = true
}

// xorBits XORs the low n bits of v into the state at the current position.
// It permutes in place of writing past the end of the block.
func (s *sponge) xorBits(v uint32, n int) {
	blockBits := 8 * s.rate
	for ; n > 0; n-- {
		if s.n == blockBits {
			s.permute()
			s.n = 0
		}
		// Bit n of the block is bit n%64 of lane n/64.
		s.a[s.n/64] ^= uint64(v&1) << (s.n % 64)
		v >>= 1
		s.n++
	}
}

// pad appends the domain separation suffix and the pad10*1 padding, applies
// the permutation, and switches s to squeezing.
func (s *sponge) pad() {
	s.xorBits(uint32(s.suffix), s.suffixLen)
	s.xorBits(1, 1)
	if s.n == 8*s.rate {
		// The first padding bit was the last bit of the block, so the closing
		// one goes at the end of a block of its own.
		s.permute()
		s.n = 0
	}
	s.a[s.rate/8-1] ^= 1 << 63
	s.permute()
	s.squeezing = true
	s.off = 0
}

// squeeze fills out with output, padding first if still absorbing. It can
// be called repeatedly to extend the output.
func (s *sponge) squeeze(out []byte) {
	if !s.squeezing {
		s.pad()
	}
	for len(out) > 0 {
		if s.off == s.rate {
			s.permute()
			s.off = 0
		}
		if s.off%8 == 0 {
			for len(out) >= 8 && s.off < s.rate {
				binary.LittleEndian.PutUint64(out, s.a[s.off/8])
				out = out[8:]
				s.off += 8
			}
		}
		for len(out) > 0 && s.off < s.rate {
			out[0] = byte(s.a[s.off/8] >> (8 * (s.off % 8)))
			out = out[1:]
			s.off++
		}
	}
}

// squeezeBits squeezes bitLen bits into the start of out. Output is only
// produced in whole bytes, so bitLen must be a multiple of eight.
func (s *sponge) squeezeBits(out []byte, bitLen int) (int, error) {
	if bitLen < 0 || bitLen%8 != 0 {
		return 0, fmt.Errorf("%w: output length of %d bits is not a whole number of bytes", ErrInvalidConfiguration, bitLen)
	}
	if bitLen/8 > len(out) {
		return 0, fmt.Errorf("%w: %d bits requested, buffer holds %d bytes", ErrInsufficientBuffer, bitLen, len(out))
	}
	s.squeeze(out[:bitLen/8])
	return bitLen / 8, nil
}
