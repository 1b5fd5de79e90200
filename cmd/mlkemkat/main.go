// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command mlkemkat runs known-answer tests against the sha3 and mlkem
// packages.
//
//	mlkemkat sha3 testdata/bits.kat
//	mlkemkat accumulate --params ML-KEM-1024 --count 10000
//
// Every flag can also be set from the environment, with the MLKEMKAT_ prefix
// and dashes replaced by underscores, like MLKEMKAT_LOG_LEVEL=debug.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const cmdRoot = "mlkemkat"

// app is the state shared by all subcommands. It's set up by the root
// command's PersistentPreRunE, once flags are parsed.
type app struct {
	v   *viper.Viper
	log *zap.Logger
}

func newRootCommand(v *viper.Viper) *cobra.Command {
	a := &app{v: v}
	root := &cobra.Command{
		Use:           cmdRoot,
		Short:         "Known-answer tests for SHA-3 and ML-KEM.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(a.v, cmd.Flags()); err != nil {
				return err
			}
			log, err := newLogger(cmd.ErrOrStderr(), a.v.GetString("log-level"))
			if err != nil {
				return err
			}
			a.log = log.Named(cmdRoot).Named(cmd.Name())
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.log.Sync()
		},
	}
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(a.sha3Cmd())
	root.AddCommand(a.accumulateCmd())
	return root
}

func main() {
	root := newRootCommand(viper.New())
	if err := root.Execute(); err != nil {
		root.PrintErrln("Error:", err)
		os.Exit(1)
	}
}
