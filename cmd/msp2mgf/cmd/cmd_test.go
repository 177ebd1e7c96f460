package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const library = "Name: AAAGDLKAR/2_0\n" +
	"MW: 930.5\n" +
	"Comment: Mods=1(0,A,Acetyl) Parent=466.26\n" +
	"Num peaks: 1\n" +
	"101.07\t100\t\"y1\"\n" +
	"\n" +
	"Name: PEPTIDEKR/3_0\n" +
	"MW: 1102.5\n" +
	"Comment: Mods=0 Parent=368.52\n" +
	"Num peaks: 2\n" +
	"101.0713\t2500\t\"y1/0.00\"\n" +
	"147.1128\t10000\t\"b1/0.00\"\n" +
	"\n"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := Execute(context.Background())
	return out.String(), err
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "library.msp")
	require.NoError(t, os.WriteFile(input, []byte(library), 0o644))

	t.Run("convert", func(t *testing.T) {
		out, err := execute(t, "convert", "--in", input, "--output-dir", dir, "--out", "lib", "--max", "1")
		require.NoError(t, err)
		assert.Contains(t, out, "Conversion complete!")
		assert.Contains(t, out, "Written: 1\n")

		data, err := os.ReadFile(filepath.Join(dir, "lib.mgf"))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "BEGIN IONS\nTITLE=PEPTIDEKR\nRAWSCANS=2\n"))
	})

	t.Run("validate", func(t *testing.T) {
		out, err := execute(t, "validate", input)
		require.NoError(t, err)
		assert.Contains(t, out, "library.msp: OK")
		assert.Contains(t, out, "forbidden-mod: 1")
	})

	t.Run("summarize", func(t *testing.T) {
		out, err := execute(t, "summarize", input)
		require.NoError(t, err)
		assert.Contains(t, out, "Records: 2\n")
		assert.Contains(t, out, "  Acetyl: 1\n")
	})

	t.Run("validate rejects broken input", func(t *testing.T) {
		broken := filepath.Join(dir, "broken.msp")
		require.NoError(t, os.WriteFile(broken, []byte("Name: NOSLASH\n\n"), 0o644))
		_, err := execute(t, "validate", broken)
		require.Error(t, err)
	})
}
