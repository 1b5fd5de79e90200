// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sha3

import "errors"

var (
	// ErrInvalidConfiguration is returned for unsupported parameters, such
	// as a SHA-3 output size other than 224, 256, 384 or 512 bits, or a
	// partial byte with more than seven bits.
	ErrInvalidConfiguration = errors.New("sha3: invalid configuration")

	// ErrInsufficientBuffer is returned when an output buffer is too small
	// for the requested output.
	ErrInsufficientBuffer = errors.New("sha3: output buffer too small")
)
