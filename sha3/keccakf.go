// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sha3

import "math/bits"

// rc stores the round constants for use in the ι step.
var rc = [24]uint64{
	0x0000000000000001,
	0x0000000000008082,
	0x800000000000808A,
	0x8000000080008000,
	0x000000000000808B,
	0x0000000080000001,
	0x8000000080008081,
	0x8000000000008009,
	0x000000000000008A,
	0x0000000000000088,
	0x0000000080008009,
	0x000000008000000A,
	0x000000008000808B,
	0x800000000000008B,
	0x8000000000008089,
	0x8000000000008003,
	0x8000000000008002,
	0x8000000000000080,
	0x000000000000800A,
	0x800000008000000A,
	0x8000000080008081,
	0x8000000000008080,
	0x0000000080000001,
	0x8000000080008008,
}

// rotc and piln drive the combined ρ and π steps: walking the lanes along
// the π permutation starting from lane 1, the i-th lane visited is piln[i]
// and it receives the previous lane rotated by rotc[i].
var rotc = [24]int{
	1, 3, 6, 10, 15, 21, 28, 36, 45, 55, 2, 14,
	27, 41, 56, 8, 25, 43, 62, 18, 39, 61, 20, 44,
}

var piln = [24]int{
	10, 7, 11, 17, 18, 3, 5, 16, 8, 21, 24, 4,
	15, 23, 19, 13, 12, 2, 20, 14, 22, 9, 6, 1,
}

// maxRounds is the number of rounds of Keccak-f[1600].
const maxRounds = len(rc)

// keccakF1600 applies the Keccak-f[1600] permutation to a.
func keccakF1600(a *[25]uint64) {
	keccakP1600(a, maxRounds)
}

// keccakP1600 applies Keccak-p[1600, rounds] to a, that is, the last rounds
// rounds of Keccak-f[1600] as defined in FIPS 202, Section 3.3.
//
// Lane (x, y) of the state is a[x+5y], and byte i of the state is byte i%8
// (little-endian) of lane i/8.
func keccakP1600(a *[25]uint64, rounds int) {
	if rounds < 1 || rounds > maxRounds {
		panic("sha3: invalid number of Keccak-p rounds")
	}
	var bc [5]uint64
	for _, c := range rc[maxRounds-rounds:] {
		// θ
		for x := 0; x < 5; x++ {
			bc[x] = a[x] ^ a[x+5] ^ a[x+10] ^ a[x+15] ^ a[x+20]
		}
		for x := 0; x < 5; x++ {
			d := bc[(x+4)%5] ^ bits.RotateLeft64(bc[(x+1)%5], 1)
			for y := 0; y < 25; y += 5 {
				a[y+x] ^= d
			}
		}

		// ρ and π
		t := a[1]
		for i, j := range piln {
			t, a[j] = a[j], bits.RotateLeft64(t, rotc[i])
		}

		// χ
		for y := 0; y < 25; y += 5 {
			copy(bc[:], a[y:y+5])
			for x := 0; x < 5; x++ {
				a[y+x] = bc[x] ^ (^bc[(x+1)%5] & bc[(x+2)%5])
			}
		}

		// ι
		a[0] ^= c
	}
}
