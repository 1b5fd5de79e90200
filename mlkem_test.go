// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mlkem

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"flag"
	"testing"

	"filippo.io/mlkem/internal/kat"
	"filippo.io/mlkem/internal/ring"
	"filippo.io/mlkem/sha3"
)

func randomBytes(t testing.TB, n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		t.Fatal(err)
	}
	return b
}

func generateKey(t testing.TB, p *ParameterSet) *DecapsulationKey {
	dk, err := p.NewDecapsulationKeyFromSeed(randomBytes(t, SeedSize))
	if err != nil {
		t.Fatal(err)
	}
	return dk
}

func TestSizes(t *testing.T) {
	for _, tt := range []struct {
		p          *ParameterSet
		ek, dk, ct int
	}{
		{MLKEM512, EncapsulationKeySize512, DecapsulationKeySize512, CiphertextSize512},
		{MLKEM768, EncapsulationKeySize768, DecapsulationKeySize768, CiphertextSize768},
		{MLKEM1024, EncapsulationKeySize1024, DecapsulationKeySize1024, CiphertextSize1024},
	} {
		t.Run(tt.p.Name(), func(t *testing.T) {
			if got := tt.p.EncapsulationKeySize(); got != tt.ek {
				t.Errorf("EncapsulationKeySize() = %d, expected %d", got, tt.ek)
			}
			if got := tt.p.DecapsulationKeySize(); got != tt.dk {
				t.Errorf("DecapsulationKeySize() = %d, expected %d", got, tt.dk)
			}
			if got := tt.p.CiphertextSize(); got != tt.ct {
				t.Errorf("CiphertextSize() = %d, expected %d", got, tt.ct)
			}

			ek, dk, err := tt.p.GenerateKeyPair(make([]byte, SeedSize))
			if err != nil {
				t.Fatal(err)
			}
			if len(ek) != tt.ek || len(dk) != tt.dk {
				t.Errorf("GenerateKeyPair returned %d and %d bytes", len(ek), len(dk))
			}
			c, K, err := tt.p.Encapsulate(ek, make([]byte, MessageSize))
			if err != nil {
				t.Fatal(err)
			}
			if len(c) != tt.ct || len(K) != SharedKeySize {
				t.Errorf("Encapsulate returned %d and %d bytes", len(c), len(K))
			}
		})
	}

	for _, tt := range []struct{ got, exp int }{
		{EncapsulationKeySize512, 800}, {DecapsulationKeySize512, 1632}, {CiphertextSize512, 768},
		{EncapsulationKeySize768, 1184}, {DecapsulationKeySize768, 2400}, {CiphertextSize768, 1088},
		{EncapsulationKeySize1024, 1568}, {DecapsulationKeySize1024, 3168}, {CiphertextSize1024, 1568},
	} {
		if tt.got != tt.exp {
			t.Errorf("size constant %d, expected %d", tt.got, tt.exp)
		}
	}
}

func TestParameterSetByName(t *testing.T) {
	for _, p := range ParameterSets {
		got, err := ParameterSetByName(p.Name())
		if err != nil {
			t.Fatal(err)
		}
		if got != p {
			t.Errorf("ParameterSetByName(%q) = %v", p.Name(), got)
		}
	}
	if _, err := ParameterSetByName("ML-KEM-2048"); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, p := range ParameterSets {
		t.Run(p.Name(), func(t *testing.T) {
			dk := generateKey(t, p)
			ek := dk.EncapsulationKey()
			c, Ke, err := ek.Encapsulate(randomBytes(t, MessageSize))
			if err != nil {
				t.Fatal(err)
			}
			Kd, err := dk.Decapsulate(c)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(Ke, Kd) {
				t.Fail()
			}

			dk1 := generateKey(t, p)
			if bytes.Equal(ek.Bytes(), dk1.EncapsulationKey().Bytes()) {
				t.Fail()
			}
			if bytes.Equal(dk.Bytes(), dk1.Bytes()) {
				t.Fail()
			}
			b, b1 := dk.Bytes(), dk1.Bytes()
			if bytes.Equal(b[len(b)-32:], b1[len(b1)-32:]) {
				t.Fail()
			}

			c1, Ke1, err := ek.Encapsulate(randomBytes(t, MessageSize))
			if err != nil {
				t.Fatal(err)
			}
			if bytes.Equal(c, c1) {
				t.Fail()
			}
			if bytes.Equal(Ke, Ke1) {
				t.Fail()
			}
		})
	}
}

func TestBytesRoundTrip(t *testing.T) {
	for _, p := range ParameterSets {
		t.Run(p.Name(), func(t *testing.T) {
			seed := randomBytes(t, SeedSize)
			ekb, dkb, err := p.GenerateKeyPair(seed)
			if err != nil {
				t.Fatal(err)
			}

			dk, err := p.NewDecapsulationKey(dkb)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(dk.Bytes(), dkb) {
				t.Error("NewDecapsulationKey(b).Bytes() != b")
			}
			if !bytes.Equal(dk.EncapsulationKey().Bytes(), ekb) {
				t.Error("embedded encapsulation key mismatch")
			}
			if _, ok := dk.Seed(); ok {
				t.Error("parsed key reports a seed")
			}

			dk2, err := p.NewDecapsulationKeyFromSeed(seed)
			if err != nil {
				t.Fatal(err)
			}
			if s, ok := dk2.Seed(); !ok || !bytes.Equal(s, seed) {
				t.Error("Seed() doesn't return the seed")
			}

			ek, err := p.NewEncapsulationKey(ekb)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(ek.Bytes(), ekb) {
				t.Error("NewEncapsulationKey(b).Bytes() != b")
			}
			if ek.ParameterSet() != p {
				t.Error("wrong parameter set")
			}

			m := randomBytes(t, MessageSize)
			c, K, err := ek.Encapsulate(m)
			if err != nil {
				t.Fatal(err)
			}
			c2, K2, err := dk2.EncapsulationKey().Encapsulate(m)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(c, c2) || !bytes.Equal(K, K2) {
				t.Error("Encapsulate is not deterministic")
			}
			Kd, err := p.Decapsulate(dkb, c)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(K, Kd) {
				t.Error("Decapsulate from bytes mismatch")
			}
		})
	}
}

func TestDeterministicKeyGen(t *testing.T) {
	for _, p := range ParameterSets {
		seed := randomBytes(t, SeedSize)
		ek1, dk1, err := p.GenerateKeyPair(seed)
		if err != nil {
			t.Fatal(err)
		}
		ek2, dk2, err := p.GenerateKeyPair(seed)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(ek1, ek2) || !bytes.Equal(dk1, dk2) {
			t.Errorf("%s: GenerateKeyPair is not deterministic", p)
		}

		// The expanded key embeds ek, H(ek), and z.
		ekOff := p.decryptionKeySize()
		if !bytes.Equal(dk1[ekOff:ekOff+len(ek1)], ek1) {
			t.Errorf("%s: dk doesn't embed ek", p)
		}
		h := sha3.Sum256(ek1)
		if !bytes.Equal(dk1[len(dk1)-64:len(dk1)-32], h[:]) {
			t.Errorf("%s: dk doesn't embed H(ek)", p)
		}
		if !bytes.Equal(dk1[len(dk1)-32:], seed[32:]) {
			t.Errorf("%s: dk doesn't embed z", p)
		}
	}
}

func TestBadLengths(t *testing.T) {
	for _, p := range ParameterSets {
		t.Run(p.Name(), func(t *testing.T) {
			ek, dk, err := p.GenerateKeyPair(randomBytes(t, SeedSize))
			if err != nil {
				t.Fatal(err)
			}
			m := randomBytes(t, MessageSize)

			for i := 0; i < len(ek)-1; i++ {
				if _, _, err := p.Encapsulate(ek[:i], m); !errors.Is(err, ErrMalformedInput) {
					t.Errorf("expected error for ek length %d", i)
				}
			}
			ekLong := ek
			for i := 0; i < 100; i++ {
				ekLong = append(ekLong, 0)
				if _, _, err := p.Encapsulate(ekLong, m); !errors.Is(err, ErrMalformedInput) {
					t.Errorf("expected error for ek length %d", len(ekLong))
				}
			}

			for _, n := range []int{0, 31, 33, 64} {
				if _, _, err := p.Encapsulate(ek, make([]byte, n)); !errors.Is(err, ErrMalformedInput) {
					t.Errorf("expected error for m length %d", n)
				}
			}
			for _, n := range []int{0, 32, 63, 65} {
				if _, _, err := p.GenerateKeyPair(make([]byte, n)); !errors.Is(err, ErrMalformedInput) {
					t.Errorf("expected error for seed length %d", n)
				}
			}

			c, _, err := p.Encapsulate(ek, m)
			if err != nil {
				t.Fatal(err)
			}

			for i := 0; i < len(dk)-1; i++ {
				if _, err := p.Decapsulate(dk[:i], c); !errors.Is(err, ErrMalformedInput) {
					t.Errorf("expected error for dk length %d", i)
				}
			}
			dkLong := dk
			for i := 0; i < 100; i++ {
				dkLong = append(dkLong, 0)
				if _, err := p.Decapsulate(dkLong, c); !errors.Is(err, ErrMalformedInput) {
					t.Errorf("expected error for dk length %d", len(dkLong))
				}
			}

			key, err := p.NewDecapsulationKey(dk)
			if err != nil {
				t.Fatal(err)
			}
			for i := 0; i < len(c)-1; i++ {
				if _, err := key.Decapsulate(c[:i]); !errors.Is(err, ErrMalformedInput) {
					t.Errorf("expected error for c length %d", i)
				}
			}
			cLong := c
			for i := 0; i < 100; i++ {
				cLong = append(cLong, 0)
				if _, err := key.Decapsulate(cLong); !errors.Is(err, ErrMalformedInput) {
					t.Errorf("expected error for c length %d", len(cLong))
				}
			}
		})
	}
}

func TestModulusCheck(t *testing.T) {
	for _, p := range ParameterSets {
		t.Run(p.Name(), func(t *testing.T) {
			ek, dk, err := p.GenerateKeyPair(randomBytes(t, SeedSize))
			if err != nil {
				t.Fatal(err)
			}
			for _, i := range []int{0, 1, ring.N - 1, ring.N*p.K() - 1} {
				bad := bytes.Clone(ek)
				// Set coefficient i to q.
				j := i / 2 * 3
				if i%2 == 0 {
					bad[j] = byte(ring.Q & 0xff)
					bad[j+1] = bad[j+1]&0xf0 | byte(ring.Q>>8)
				} else {
					bad[j+1] = bad[j+1]&0x0f | byte(ring.Q&0xf)<<4
					bad[j+2] = byte(ring.Q >> 4)
				}
				if _, err := p.NewEncapsulationKey(bad); !errors.Is(err, ErrMalformedInput) {
					t.Errorf("coefficient %d: expected modulus check failure, got %v", i, err)
				}
				if _, _, err := p.Encapsulate(bad, make([]byte, MessageSize)); !errors.Is(err, ErrMalformedInput) {
					t.Errorf("coefficient %d: Encapsulate accepted an unreduced key", i)
				}

				badDK := bytes.Clone(dk)
				copy(badDK[p.decryptionKeySize():], bad)
				if _, err := p.NewDecapsulationKey(badDK); !errors.Is(err, ErrMalformedInput) {
					t.Errorf("coefficient %d: NewDecapsulationKey accepted an unreduced key", i)
				}
			}
		})
	}
}

func TestHashCheck(t *testing.T) {
	for _, p := range ParameterSets {
		_, dk, err := p.GenerateKeyPair(randomBytes(t, SeedSize))
		if err != nil {
			t.Fatal(err)
		}
		bad := bytes.Clone(dk)
		bad[len(bad)-64] ^= 1
		if _, err := p.NewDecapsulationKey(bad); !errors.Is(err, ErrMalformedInput) {
			t.Errorf("%s: expected hash check failure, got %v", p, err)
		}

		// Changing ρ inside the embedded ek, without updating the hash, also
		// fails the check.
		bad = bytes.Clone(dk)
		bad[p.decryptionKeySize()+p.EncapsulationKeySize()-1] ^= 1
		if _, err := p.NewDecapsulationKey(bad); !errors.Is(err, ErrMalformedInput) {
			t.Errorf("%s: expected hash check failure, got %v", p, err)
		}
	}
}

func TestImplicitRejection(t *testing.T) {
	for _, p := range ParameterSets {
		t.Run(p.Name(), func(t *testing.T) {
			dk := generateKey(t, p)
			c, K, err := dk.EncapsulationKey().Encapsulate(randomBytes(t, MessageSize))
			if err != nil {
				t.Fatal(err)
			}
			b := dk.Bytes()
			z := b[len(b)-32:]

			for _, i := range []int{0, 1, len(c) / 2, len(c) - 1} {
				bad := bytes.Clone(c)
				bad[i] ^= 0x10
				K1, err := dk.Decapsulate(bad)
				if err != nil {
					t.Fatalf("flipped byte %d: unexpected error %v", i, err)
				}
				if bytes.Equal(K1, K) {
					t.Errorf("flipped byte %d: got the real shared key", i)
				}
				K2, err := dk.Decapsulate(bad)
				if err != nil {
					t.Fatal(err)
				}
				if !bytes.Equal(K1, K2) {
					t.Errorf("flipped byte %d: implicit rejection is not deterministic", i)
				}

				// The rejection key is J(z || c).
				exp := make([]byte, SharedKeySize)
				J := sha3.NewShake256()
				J.Write(z)
				J.Write(bad)
				J.Read(exp)
				if !bytes.Equal(K1, exp) {
					t.Errorf("flipped byte %d: got %x, expected J(z || c) = %x", i, K1, exp)
				}
			}
		})
	}
}

func TestPKERoundTrip(t *testing.T) {
	for _, p := range ParameterSets {
		_, ek, dk := p.pkeKeyGen(randomBytes(t, 32))
		for i := 0; i < 10; i++ {
			m := randomBytes(t, MessageSize)
			c := p.pkeEncrypt(ek, m, randomBytes(t, 32))
			if got := p.pkeDecrypt(dk, c); !bytes.Equal(got, m) {
				t.Fatalf("%s: pkeDecrypt(pkeEncrypt(m)) = %x, expected %x", p, got, m)
			}
		}
	}
}

var accumulatedFlag = flag.Int("accumulated", 0, "number of iterations of the accumulated test")

// TestAccumulated runs keygen, encapsulation and decapsulation on a
// deterministic SHAKE128 stream, and checks the hash of all outputs, to avoid
// checking in large test vectors.
func TestAccumulated(t *testing.T) {
	n := 1000
	expected := map[*ParameterSet]string{
		MLKEM512:  "9144b1054d29546b0f7fdd2e48dbb6d68c573dd468845c5e97eb2dba77a8f1e9",
		MLKEM768:  "5706194c22e3e0977b570e636de7364abce0609b341433cc4eb48062080b7c76",
		MLKEM1024: "df23d235ef494a38b2de2deda2704bb1312dd88ef6987ec4fc6f08fe5963ed7f",
	}
	if testing.Short() {
		n = 100
		expected = map[*ParameterSet]string{
			MLKEM512:  "449120c6e320ef3e9fbfa2316e5f2d2e1e6dd37d8ff5d086d5d2db7d42aff0a1",
			MLKEM768:  "8d65b902f28edc683cebee2872962fd165a4d197c9e24ec74caa4470270df0b7",
			MLKEM1024: "c3ffe9ebecfa479c142656cbfbc6417efa05b77e994fe538eef4daed166363df",
		}
	}
	if *accumulatedFlag > 0 {
		// Only self-consistency is checked for other lengths.
		n, expected = *accumulatedFlag, nil
	}

	for _, p := range ParameterSets {
		t.Run(p.Name(), func(t *testing.T) {
			sum, err := kat.Accumulate(p, n)
			if err != nil {
				t.Fatal(err)
			}
			got := hex.EncodeToString(sum)
			if exp, ok := expected[p]; ok && got != exp {
				t.Errorf("got %s, expected %s", got, exp)
			}
		})
	}
}

var sink byte

func BenchmarkKeyGen(b *testing.B) {
	for _, p := range ParameterSets {
		b.Run(p.Name(), func(b *testing.B) {
			seed := randomBytes(b, SeedSize)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				ek, dk, err := p.GenerateKeyPair(seed)
				if err != nil {
					b.Fatal(err)
				}
				sink ^= ek[0] ^ dk[0]
			}
		})
	}
}

func BenchmarkEncaps(b *testing.B) {
	for _, p := range ParameterSets {
		b.Run(p.Name(), func(b *testing.B) {
			ek := generateKey(b, p).EncapsulationKey().Bytes()
			m := randomBytes(b, MessageSize)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				c, K, err := p.Encapsulate(ek, m)
				if err != nil {
					b.Fatal(err)
				}
				sink ^= c[0] ^ K[0]
			}
		})
	}
}

func BenchmarkDecaps(b *testing.B) {
	for _, p := range ParameterSets {
		b.Run(p.Name(), func(b *testing.B) {
			dk := generateKey(b, p)
			c, _, err := dk.EncapsulationKey().Encapsulate(randomBytes(b, MessageSize))
			if err != nil {
				b.Fatal(err)
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				K, err := dk.Decapsulate(c)
				if err != nil {
					b.Fatal(err)
				}
				sink ^= K[0]
			}
		})
	}
}

func BenchmarkRoundTrip(b *testing.B) {
	for i := 0; i < b.N; i++ {
		dk := generateKey(b, MLKEM768)
		c, Ke, err := dk.EncapsulationKey().Encapsulate(randomBytes(b, MessageSize))
		if err != nil {
			b.Fatal(err)
		}
		Kd, err := dk.Decapsulate(c)
		if err != nil {
			b.Fatal(err)
		}
		if !bytes.Equal(Ke, Kd) {
			b.Fail()
		}
	}
}
