// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mlkem

import "errors"

var (
	// ErrMalformedInput is returned, wrapped, for keys, ciphertexts, seeds and
	// messages of the wrong length, and for keys that fail the input checks
	// of FIPS 203, Section 7.
	//
	// Decapsulation never fails on a well-formed ciphertext, even if it was
	// tampered with.
	ErrMalformedInput = errors.New("mlkem: malformed input")

	// ErrInvalidConfiguration is returned, wrapped, for unknown parameter
	// sets.
	ErrInvalidConfiguration = errors.New("mlkem: invalid configuration")
)
