package transcode

import (
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v9"
	"github.com/gravitational/trace"

	"github.com/ChrisMcGann/msp2mgf/pkg/filter"
	"github.com/ChrisMcGann/msp2mgf/pkg/writer/mgf"
	"github.com/ChrisMcGann/msp2mgf/pkg/writer/ms2"
)

// Output formats
const (
	FormatMGF = "mgf"
	FormatMS2 = "ms2"
)

const bytesPerMB = 1024 * 1024

// Config holds everything a conversion run needs. Fields tagged with env
// can be preset from the environment; command-line flags override them.
type Config struct {
	Input       string `env:"MSP2MGF_INPUT"`
	Base        string `env:"MSP2MGF_BASE"`
	MaxMB       int    `env:"MSP2MGF_MAX_MB" envDefault:"500"`
	Format      string `env:"MSP2MGF_FORMAT" envDefault:"mgf"`
	OutputDir   string `env:"MSP2MGF_OUTPUT_DIR" envDefault:"."`
	RotateDir   string `env:"MSP2MGF_ROTATE_DIR"`
	IndexPath   string `env:"MSP2MGF_INDEX"`
	PolicyPath  string `env:"MSP2MGF_POLICY"`
	SkipInvalid bool   `env:"MSP2MGF_SKIP_INVALID"`

	Policy *filter.Policy // loaded from PolicyPath when nil
}

// ConfigFromEnv returns a Config with defaults applied and environment
// overrides parsed.
func ConfigFromEnv() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, trace.BadParameter("invalid environment configuration: %v", err)
	}
	return cfg, nil
}

// CheckAndSetDefaults validates the config, derives the output base name
// from the input path when unset, and loads the filter policy.
func (c *Config) CheckAndSetDefaults() error {
	if c.Input == "" {
		return trace.BadParameter("input file is required")
	}
	if c.MaxMB <= 0 {
		return trace.BadParameter("max size must be a positive number of megabytes, got %d", c.MaxMB)
	}
	c.Format = strings.ToLower(c.Format)
	if c.Format == "" {
		c.Format = FormatMGF
	}
	if _, err := NewEncoder(c.Format); err != nil {
		return trace.Wrap(err)
	}
	if c.Base == "" {
		c.Base = DefaultBase(c.Input)
	}
	if c.Base == "" {
		return trace.BadParameter("cannot derive an output name from %q, please specify --out", c.Input)
	}
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if c.RotateDir == "" {
		c.RotateDir = c.OutputDir
	}
	if c.Policy == nil {
		p, err := filter.LoadPolicyFile(c.PolicyPath)
		if err != nil {
			return trace.Wrap(err)
		}
		c.Policy = p
	}
	return nil
}

// MaxBytes returns the rotation threshold in bytes.
func (c *Config) MaxBytes() int64 {
	return int64(c.MaxMB) * bytesPerMB
}

// DefaultBase returns the input file name without directory, compression
// suffix and extension.
func DefaultBase(input string) string {
	if input == "-" {
		return "stdin"
	}
	name := filepath.Base(input)
	for _, ext := range []string{".gz", ".zst"} {
		name = strings.TrimSuffix(name, ext)
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// NewEncoder returns the encoder for an output format name.
func NewEncoder(format string) (Encoder, error) {
	switch format {
	case FormatMGF:
		return mgf.Encoder{}, nil
	case FormatMS2:
		return ms2.Encoder{}, nil
	default:
		return nil, trace.BadParameter("invalid output format '%s', must be mgf or ms2", format)
	}
}
