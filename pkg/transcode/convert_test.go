package transcode

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gravitational/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisMcGann/msp2mgf/pkg/filter"
)

func writeLibrary(t *testing.T, dir string, records int) string {
	t.Helper()
	peaks := make([]string, 0, 40)
	for i := 0; i < 40; i++ {
		peaks = append(peaks, fmt.Sprintf("%d.%04d\t%d\t\"y%d/0.00\"", 100+i*17, i*37%10000, 1000+i*13, i+1))
	}

	var sb strings.Builder
	for i := 0; i < records; i++ {
		mods := "0"
		if i%5 == 0 {
			mods = "1(0,A,Acetyl)"
		}
		sb.WriteString(mspRecord(fmt.Sprintf("PEPTIDE%05dKR", i), 2+i%2, mods, fmt.Sprintf("%d.25", 400+i%300), peaks...))
	}

	path := filepath.Join(dir, "library.msp")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o644))
	return path
}

func TestConvertRotatesAtOneMegabyte(t *testing.T) {
	dir := t.TempDir()
	input := writeLibrary(t, dir, 3000)
	out := filepath.Join(dir, "out")

	cfg := &Config{
		Input:     input,
		MaxMB:     1,
		OutputDir: out,
		RotateDir: filepath.Join(out, "mgf"),
		IndexPath: filepath.Join(dir, "scans.db"),
	}
	stats, err := Convert(context.Background(), cfg, nil, nil)
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(stats.Files), 2)
	assert.Equal(t, filepath.Join(out, "library.mgf"), stats.Files[0])
	assert.Equal(t, filepath.Join(out, "mgf", "library_0.mgf"), stats.Files[1])
	assert.Equal(t, 3000, stats.Records)
	assert.Equal(t, 2400, stats.Written)
	assert.Equal(t, 600, stats.Excluded[filter.ForbiddenMod])

	var all []int
	for i, f := range stats.Files {
		data, err := os.ReadFile(f)
		require.NoError(t, err)
		text := string(data)

		if i < len(stats.Files)-1 {
			blocks := strings.SplitAfter(text, "END IONS\n\n")
			last := blocks[len(blocks)-2]
			assert.Greater(t, int64(len(text)), cfg.MaxBytes())
			assert.LessOrEqual(t, int64(len(text)-len(last)), cfg.MaxBytes())
		}
		all = append(all, scans(t, text)...)
	}

	require.Len(t, all, 2400)
	for i := 1; i < len(all); i++ {
		assert.Greater(t, all[i], all[i-1])
	}
}

func TestConvertMS2(t *testing.T) {
	dir := t.TempDir()
	input := writeLibrary(t, dir, 3)

	cfg := &Config{Input: input, MaxMB: 500, Format: "MS2", OutputDir: dir, Base: "lib"}
	stats, err := Convert(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "lib.ms2")}, stats.Files)

	data, err := os.ReadFile(stats.Files[0])
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "\nZ\t"))
	assert.True(t, strings.HasPrefix(string(data), "S\t2\t2\t401.25\n"))
}

func TestValidateWritesNothing(t *testing.T) {
	dir := t.TempDir()
	input := writeLibrary(t, dir, 10)

	cfg := &Config{Input: input, MaxMB: 500, OutputDir: filepath.Join(dir, "never")}
	stats, err := Validate(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, 10, stats.Records)
	assert.Equal(t, 8, stats.Written)
	assert.Equal(t, []string{"library.mgf"}, stats.Files)

	_, err = os.Stat(filepath.Join(dir, "never"))
	assert.True(t, os.IsNotExist(err))
}

func TestConfigCheckAndSetDefaults(t *testing.T) {
	cfg := &Config{Input: "/data/libs/human_hcd.msp.gz", MaxMB: 500}
	require.NoError(t, cfg.CheckAndSetDefaults())
	assert.Equal(t, "human_hcd", cfg.Base)
	assert.Equal(t, FormatMGF, cfg.Format)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.Equal(t, ".", cfg.RotateDir)
	assert.Equal(t, filter.DefaultPolicy(), cfg.Policy)
	assert.EqualValues(t, 500*1024*1024, cfg.MaxBytes())

	tests := []struct {
		name string
		cfg  Config
	}{
		{"no input", Config{MaxMB: 1}},
		{"zero size", Config{Input: "a.msp"}},
		{"negative size", Config{Input: "a.msp", MaxMB: -3}},
		{"bad format", Config{Input: "a.msp", MaxMB: 1, Format: "mzml"}},
		{"no base", Config{Input: ".msp", MaxMB: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.CheckAndSetDefaults()
			require.Error(t, err)
			assert.True(t, trace.IsBadParameter(err))
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.MaxMB)
	assert.Equal(t, FormatMGF, cfg.Format)
	assert.Equal(t, ".", cfg.OutputDir)

	t.Setenv("MSP2MGF_MAX_MB", "20")
	t.Setenv("MSP2MGF_ROTATE_DIR", "/tmp/split")
	t.Setenv("MSP2MGF_SKIP_INVALID", "true")
	cfg, err = ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.MaxMB)
	assert.Equal(t, "/tmp/split", cfg.RotateDir)
	assert.True(t, cfg.SkipInvalid)

	t.Setenv("MSP2MGF_MAX_MB", "lots")
	_, err = ConfigFromEnv()
	require.Error(t, err)
	assert.True(t, trace.IsBadParameter(err))
}

func TestDefaultBase(t *testing.T) {
	assert.Equal(t, "lib", DefaultBase("lib.msp"))
	assert.Equal(t, "lib.v2", DefaultBase("dir/lib.v2.msp"))
	assert.Equal(t, "lib", DefaultBase("lib.msp.zst"))
	assert.Equal(t, "stdin", DefaultBase("-"))
}
