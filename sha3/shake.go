// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sha3

import "fmt"

// A SHAKE is an instance of the SHAKE128 or SHAKE256 extendable-output
// function.
//
// Output can be read incrementally with Read or Output, in which case every
// call continues the same output stream. Once output has been read, no more
// input can be written until Reset.
type SHAKE struct {
	s    sponge
	size int
	name string
}

// NewShake128 returns a new SHAKE128 instance.
func NewShake128() *SHAKE { return newSHAKE(128, "SHAKE128") }

// NewShake256 returns a new SHAKE256 instance.
func NewShake256() *SHAKE { return newSHAKE(256, "SHAKE256") }

// NewSHAKE returns a new SHAKE instance at the given security strength,
// which must be 128 or 256.
func NewSHAKE(bits int) (*SHAKE, error) {
	switch bits {
	case 128:
		return NewShake128(), nil
	case 256:
		return NewShake256(), nil
	}
	return nil, fmt.Errorf("%w: unsupported SHAKE security strength %d", ErrInvalidConfiguration, bits)
}

func newSHAKE(security int, name string) *SHAKE {
	return &SHAKE{
		s:    newSponge(stateSize-2*security/8, maxRounds, suffixSHAKE, suffixSHAKELen),
		size: 2 * security / 8,
		name: name,
	}
}

// Write absorbs more data into the state. It never returns an error.
// It panics if output has already been read.
func (d *SHAKE) Write(p []byte) (int, error) {
	d.s.absorb(p)
	return len(p), nil
}

// Read squeezes len(p) bytes of output. It never returns an error.
func (d *SHAKE) Read(p []byte) (int, error) {
	d.s.squeeze(p)
	return len(p), nil
}

// Output fills out with the next len(out) bytes of output and returns
// len(out). It can be called any number of times without finalizing.
func (d *SHAKE) Output(out []byte) int {
	d.s.squeeze(out)
	return len(out)
}

// OutputBits is like Output, but squeezes bitLen bits into the start of out.
// bitLen must be a multiple of eight no larger than 8*len(out).
func (d *SHAKE) OutputBits(out []byte, bitLen int) (int, error) {
	return d.s.squeezeBits(out, bitLen)
}

// DoFinal implements [Digest], writing Size() bytes.
func (d *SHAKE) DoFinal(out []byte) (int, error) {
	return d.DoFinalBits(out, 0, 0)
}

// DoFinalBits implements [Digest], writing Size() bytes.
func (d *SHAKE) DoFinalBits(out []byte, partialByte byte, partialBits int) (int, error) {
	if err := checkFinal(len(out), d.size, partialBits); err != nil {
		return 0, err
	}
	if partialBits > 0 {
		d.s.absorbBits(partialByte, partialBits)
	}
	d.s.squeeze(out[:d.size])
	d.s.reset()
	return d.size, nil
}

// DoFinalOutput fills all of out with output, of any length, then resets d.
func (d *SHAKE) DoFinalOutput(out []byte) int {
	d.s.squeeze(out)
	d.s.reset()
	return len(out)
}

// DoFinalOutputBits absorbs the low partialBits bits of partialByte, like
// DoFinalBits, then fills all of out with output and resets d.
func (d *SHAKE) DoFinalOutputBits(out []byte, partialByte byte, partialBits int) (int, error) {
	if err := checkFinal(len(out), 0, partialBits); err != nil {
		return 0, err
	}
	if partialBits > 0 {
		d.s.absorbBits(partialByte, partialBits)
	}
	return d.DoFinalOutput(out), nil
}

// Sum appends Size() bytes of output to b, without changing the state.
// If output was already read, Sum continues from the current position.
func (d *SHAKE) Sum(b []byte) []byte {
	dup := d.s
	out := make([]byte, d.size)
	dup.squeeze(out)
	return append(b, out...)
}

// Clone returns a copy of d in its current state.
func (d *SHAKE) Clone() *SHAKE {
	dup := *d
	return &dup
}

// Reset resets d to its initial state.
func (d *SHAKE) Reset() { d.s.reset() }

// Size returns the default output size, twice the security strength.
func (d *SHAKE) Size() int { return d.size }

// BlockSize returns the rate of the sponge, in bytes.
func (d *SHAKE) BlockSize() int { return d.s.rate }

// AlgorithmName implements [Digest].
func (d *SHAKE) AlgorithmName() string { return d.name }

// ShakeSum128 writes an arbitrary-length digest of data into hash.
func ShakeSum128(hash, data []byte) {
	d := NewShake128()
	d.Write(data)
	d.Read(hash)
}

// ShakeSum256 writes an arbitrary-length digest of data into hash.
func ShakeSum256(hash, data []byte) {
	d := NewShake256()
	d.Write(data)
	d.Read(hash)
}
