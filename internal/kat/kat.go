// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package kat parses bit-oriented hash known-answer test files.
//
// A file is a sequence of records separated by blank lines. Lines starting
// with # are comments. Each record has the keys
//
//	Algorithm = SHA3-256
//	Len = 5
//	Msg = 11001
//	MD = 7b0047cf5a456882363cbf0fb05322cf65f4b7059a46365e830132e3b5d957af
//
// where Msg is the message as a literal bit string in absorption order: the
// first character is the least significant bit of the first byte. An empty
// message is written as "Msg =". Algorithm may be omitted after the first
// record, in which case the previous value carries over.
package kat

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// A Vector is a single known-answer test.
type Vector struct {
	Algorithm string
	Bits      string // the message, as '0' and '1' characters
	Digest    []byte
	Line      int // line number of the first key of the record
}

// Len returns the message length in bits.
func (v *Vector) Len() int { return len(v.Bits) }

// Bytes packs the message. full holds the whole bytes, and the remaining
// Len()%8 bits are returned in the low bits of partial.
func (v *Vector) Bytes() (full []byte, partial byte, partialBits int) {
	n := len(v.Bits)
	full = make([]byte, n/8)
	for i := 0; i < n/8*8; i++ {
		if v.Bits[i] == '1' {
			full[i/8] |= 1 << (i % 8)
		}
	}
	partialBits = n % 8
	for i := 0; i < partialBits; i++ {
		if v.Bits[n/8*8+i] == '1' {
			partial |= 1 << i
		}
	}
	return full, partial, partialBits
}

// Parse reads all the vectors from r.
func Parse(r io.Reader) ([]Vector, error) {
	var (
		vectors   []Vector
		cur       Vector
		length    = -1
		hasMsg    bool
		inRecord  bool
		algorithm string
	)
	flush := func() error {
		if !inRecord {
			return nil
		}
		if cur.Algorithm == "" {
			cur.Algorithm = algorithm
		}
		switch {
		case cur.Algorithm == "":
			return fmt.Errorf("kat: line %d: record without Algorithm", cur.Line)
		case !hasMsg:
			return fmt.Errorf("kat: line %d: record without Msg", cur.Line)
		case cur.Digest == nil:
			return fmt.Errorf("kat: line %d: record without MD", cur.Line)
		case length >= 0 && length != len(cur.Bits):
			return fmt.Errorf("kat: line %d: Len = %d but Msg has %d bits", cur.Line, length, len(cur.Bits))
		}
		algorithm = cur.Algorithm
		vectors = append(vectors, cur)
		cur, length, hasMsg, inRecord = Vector{}, -1, false, false
		return nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<24)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "#") {
			continue
		}
		if line == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		if !inRecord {
			inRecord = true
			cur.Line = lineNo
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("kat: line %d: missing '='", lineNo)
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		switch key {
		case "Algorithm":
			cur.Algorithm = value
		case "Len":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("kat: line %d: bad Len %q", lineNo, value)
			}
			length = n
		case "Msg":
			if strings.Trim(value, "01") != "" {
				return nil, fmt.Errorf("kat: line %d: Msg is not a bit string", lineNo)
			}
			cur.Bits = value
			hasMsg = true
		case "MD":
			d, err := hex.DecodeString(value)
			if err != nil {
				return nil, fmt.Errorf("kat: line %d: bad MD: %w", lineNo, err)
			}
			if d == nil {
				d = []byte{}
			}
			cur.Digest = d
		default:
			return nil, fmt.Errorf("kat: line %d: unknown key %q", lineNo, key)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return vectors, nil
}
