// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"filippo.io/mlkem"
	"filippo.io/mlkem/internal/kat"
)

func (a *app) accumulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accumulate",
		Short: "Print the accumulated digest of a deterministic ML-KEM test run.",
		Long: `Accumulate runs count iterations of key generation, encapsulation, and
decapsulation of both a valid and a random ciphertext, with inputs drawn from
SHAKE128 of the empty string, and prints the SHAKE128 digest of all outputs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := mlkem.ParameterSetByName(a.v.GetString("params"))
			if err != nil {
				return err
			}
			n := a.v.GetInt("count")
			if n < 0 {
				return fmt.Errorf("negative count %d", n)
			}

			start := time.Now()
			digest, err := kat.Accumulate(p, n)
			if err != nil {
				return fmt.Errorf("%s: %w", p, err)
			}
			a.log.Info("accumulated",
				zap.Stringer("params", p),
				zap.Int("count", n),
				zap.Duration("elapsed", time.Since(start)))

			fmt.Fprintf(cmd.OutOrStdout(), "%x\n", digest)
			return nil
		},
	}
	cmd.Flags().String("params", mlkem.MLKEM768.Name(), "parameter set (ML-KEM-512, ML-KEM-768, ML-KEM-1024)")
	cmd.Flags().Int("count", 100, "number of iterations")
	return cmd
}
