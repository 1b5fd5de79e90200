// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"filippo.io/mlkem"
	"filippo.io/mlkem/internal/kat"
)

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCommand(viper.New())
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeKAT(t *testing.T, contents string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "test.kat")
	require.NoError(t, os.WriteFile(name, []byte(contents), 0o644))
	return name
}

const goodKAT = `Algorithm = SHA3-256
Len = 0
Msg =
MD = a7ffc6f8bf1ed76651c14756a061d662f580ff4de43b49fa82d80a4b80f8434a

Len = 5
Msg = 11001
MD = 7b0047cf5a456882363cbf0fb05322cf65f4b7059a46365e830132e3b5d957af
`

func TestSHA3(t *testing.T) {
	name := writeKAT(t, goodKAT)
	stdout, stderr, err := run(t, "sha3", name)
	require.NoError(t, err)
	require.Equal(t, name+": 2 vectors, 0 failed\n", stdout)
	require.Contains(t, stderr, `"msg":"verified"`)
	require.Contains(t, stderr, `"logger":"mlkemkat.sha3"`)
}

func TestSHA3Testdata(t *testing.T) {
	stdout, _, err := run(t, "sha3", filepath.Join("..", "..", "sha3", "testdata", "bits.kat"))
	require.NoError(t, err)
	require.Contains(t, stdout, " 0 failed\n")
}

func TestSHA3LongOutput(t *testing.T) {
	name := writeKAT(t, `Algorithm = SHAKE128
Len = 0
Msg =
MD = 7f9c2ba4e88f827d616045507605853ed73b8093f6efbc88eb1a6eacfa66ef263cb1eea988004b93103cfb0aeefd2a686e01fa4a58e8a3639ca8a1e3f9ae57e235b8cc873c23dc62b8d260169afa2f75ab916a58d974918835d25e6a435085b2badfd6df
`)
	stdout, _, err := run(t, "sha3", name)
	require.NoError(t, err)
	require.Equal(t, name+": 1 vectors, 0 failed\n", stdout)
}

func TestSHA3Mismatch(t *testing.T) {
	bad := strings.Replace(goodKAT, "MD = 7b00", "MD = 7b01", 1)
	name := writeKAT(t, bad)
	stdout, stderr, err := run(t, "sha3", name)
	require.EqualError(t, err, "1 of 2 vectors failed")
	require.Equal(t, name+": 2 vectors, 1 failed\n", stdout)
	require.Contains(t, stderr, `"msg":"digest mismatch"`)
	require.Contains(t, stderr, `"line":6`)
	require.Contains(t, stderr, `"got":"7b00`)
}

func TestSHA3Errors(t *testing.T) {
	_, _, err := run(t, "sha3")
	require.Error(t, err)

	_, _, err = run(t, "sha3", filepath.Join(t.TempDir(), "missing.kat"))
	require.ErrorIs(t, err, os.ErrNotExist)

	name := writeKAT(t, "Algorithm = SHA3-999\nLen = 0\nMsg =\nMD = 00\n")
	_, _, err = run(t, "sha3", name)
	require.Error(t, err)
}

func TestAccumulate(t *testing.T) {
	exp, err := kat.Accumulate(mlkem.MLKEM1024, 3)
	require.NoError(t, err)

	stdout, stderr, err := run(t, "accumulate", "--params", "ML-KEM-1024", "--count", "3")
	require.NoError(t, err)
	require.Equal(t, hex.EncodeToString(exp)+"\n", stdout)
	require.Contains(t, stderr, `"params":"ML-KEM-1024"`)
}

func TestAccumulateEnv(t *testing.T) {
	t.Setenv("MLKEMKAT_PARAMS", "ML-KEM-512")
	t.Setenv("MLKEMKAT_COUNT", "2")
	t.Setenv("MLKEMKAT_LOG_LEVEL", "error")

	exp, err := kat.Accumulate(mlkem.MLKEM512, 2)
	require.NoError(t, err)

	stdout, stderr, err := run(t, "accumulate")
	require.NoError(t, err)
	require.Equal(t, hex.EncodeToString(exp)+"\n", stdout)
	require.Empty(t, stderr)

	// Flags set on the command line take precedence.
	exp, err = kat.Accumulate(mlkem.MLKEM512, 1)
	require.NoError(t, err)
	stdout, _, err = run(t, "accumulate", "--count", "1")
	require.NoError(t, err)
	require.Equal(t, hex.EncodeToString(exp)+"\n", stdout)
}

func TestAccumulateErrors(t *testing.T) {
	_, _, err := run(t, "accumulate", "--params", "ML-KEM-2048", "--count", "1")
	require.ErrorIs(t, err, mlkem.ErrInvalidConfiguration)

	_, _, err = run(t, "accumulate", "--count", "-1")
	require.Error(t, err)

	_, _, err = run(t, "accumulate", "extra")
	require.Error(t, err)
}

func TestLogLevel(t *testing.T) {
	name := writeKAT(t, goodKAT)

	_, stderr, err := run(t, "--log-level", "debug", "sha3", name)
	require.NoError(t, err)
	require.Contains(t, stderr, `"level":"debug"`)

	_, stderr, err = run(t, "--log-level", "warn", "sha3", name)
	require.NoError(t, err)
	require.Empty(t, stderr)

	_, _, err = run(t, "--log-level", "loud", "sha3", name)
	require.ErrorContains(t, err, "invalid log level")
}
