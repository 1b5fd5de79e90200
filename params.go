// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mlkem

import (
	"fmt"

	"filippo.io/mlkem/internal/ring"
)

const (
	// SharedKeySize is the size of a shared key produced by every parameter
	// set.
	SharedKeySize = 32
	// SeedSize is the size of a decapsulation key seed, in the "d || z" form.
	SeedSize = 64
	// MessageSize is the size of the randomness m passed to Encapsulate.
	MessageSize = 32

	EncapsulationKeySize512 = 384*2 + 32
	DecapsulationKeySize512 = 768*2 + 96
	CiphertextSize512       = 32 * (10*2 + 4)

	EncapsulationKeySize768 = 384*3 + 32
	DecapsulationKeySize768 = 768*3 + 96
	CiphertextSize768       = 32 * (10*3 + 4)

	EncapsulationKeySize1024 = 384*4 + 32
	DecapsulationKeySize1024 = 768*4 + 96
	CiphertextSize1024       = 32 * (11*4 + 5)
)

// A ParameterSet is one of the ML-KEM parameter sets of FIPS 203, Section 8.
type ParameterSet struct {
	name string
	k    int
	eta1 int
	eta2 int
	du   uint8
	dv   uint8
}

var (
	// MLKEM512 is ML-KEM-512, targeting NIST security category 1.
	MLKEM512 = &ParameterSet{name: "ML-KEM-512", k: 2, eta1: 3, eta2: 2, du: 10, dv: 4}
	// MLKEM768 is ML-KEM-768, targeting NIST security category 3. It is the
	// recommended parameter set.
	MLKEM768 = &ParameterSet{name: "ML-KEM-768", k: 3, eta1: 2, eta2: 2, du: 10, dv: 4}
	// MLKEM1024 is ML-KEM-1024, targeting NIST security category 5.
	MLKEM1024 = &ParameterSet{name: "ML-KEM-1024", k: 4, eta1: 2, eta2: 2, du: 11, dv: 5}
)

// ParameterSets lists all supported parameter sets.
var ParameterSets = []*ParameterSet{MLKEM512, MLKEM768, MLKEM1024}

// ParameterSetByName returns the parameter set with the given name, like
// "ML-KEM-768".
func ParameterSetByName(name string) (*ParameterSet, error) {
	for _, p := range ParameterSets {
		if p.name == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: unknown parameter set %q", ErrInvalidConfiguration, name)
}

// Name returns the name of the parameter set, like "ML-KEM-768".
func (p *ParameterSet) Name() string { return p.name }

func (p *ParameterSet) String() string { return p.name }

// K returns the rank of the module, the number of ring elements in a vector.
func (p *ParameterSet) K() int { return p.k }

// EncapsulationKeySize returns the size of an encoded encapsulation key.
func (p *ParameterSet) EncapsulationKeySize() int {
	return p.k*ring.EncodingSize12 + 32
}

// DecapsulationKeySize returns the size of an expanded decapsulation key, as
// returned by DecapsulationKey.Bytes.
func (p *ParameterSet) DecapsulationKeySize() int {
	return p.decryptionKeySize() + p.EncapsulationKeySize() + 32 + 32
}

// CiphertextSize returns the size of a ciphertext.
func (p *ParameterSet) CiphertextSize() int {
	return p.k*ring.CompressedSize(p.du) + ring.CompressedSize(p.dv)
}

func (p *ParameterSet) decryptionKeySize() int {
	return p.k * ring.EncodingSize12
}
