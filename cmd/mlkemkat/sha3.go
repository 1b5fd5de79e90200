// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"filippo.io/mlkem/internal/kat"
	"filippo.io/mlkem/sha3"
)

func (a *app) sha3Cmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sha3 FILE...",
		Short: "Verify bit-oriented SHA-3 and SHAKE known-answer files.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var total, failed int
			for _, name := range args {
				n, bad, err := a.verifyFile(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d vectors, %d failed\n", name, n, bad)
				total += n
				failed += bad
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d vectors failed", failed, total)
			}
			return nil
		},
	}
}

func (a *app) verifyFile(name string) (total, failed int, err error) {
	f, err := os.Open(name)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()
	vectors, err := kat.Parse(f)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", name, err)
	}

	log := a.log.With(zap.String("file", name))
	for _, v := range vectors {
		got, err := digestBits(&v)
		if err != nil {
			return 0, 0, fmt.Errorf("%s:%d: %w", name, v.Line, err)
		}
		if !bytes.Equal(got, v.Digest) {
			failed++
			log.Error("digest mismatch",
				zap.Int("line", v.Line),
				zap.String("algorithm", v.Algorithm),
				zap.Int("bits", v.Len()),
				zap.String("got", hex.EncodeToString(got)),
				zap.String("expected", hex.EncodeToString(v.Digest)))
			continue
		}
		log.Debug("ok", zap.Int("line", v.Line), zap.String("algorithm", v.Algorithm))
	}
	log.Info("verified", zap.Int("vectors", len(vectors)), zap.Int("failed", failed))
	return len(vectors), failed, nil
}

// digestBits hashes the message of v with the algorithm of v. SHAKE output is
// as long as the expected digest.
func digestBits(v *kat.Vector) ([]byte, error) {
	d, err := sha3.New(v.Algorithm)
	if err != nil {
		return nil, err
	}
	full, partial, partialBits := v.Bytes()
	d.Write(full)
	if x, ok := d.(*sha3.SHAKE); ok {
		out := make([]byte, len(v.Digest))
		if _, err := x.DoFinalOutputBits(out, partial, partialBits); err != nil {
			return nil, err
		}
		return out, nil
	}
	out := make([]byte, d.Size())
	if _, err := d.DoFinalBits(out, partial, partialBits); err != nil {
		return nil, err
	}
	return out, nil
}
