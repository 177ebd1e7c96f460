// Package cmd provides CLI command implementations
package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/msp2mgf/pkg/transcode"
)

var (
	// Flags for convert command
	inputFile   string
	outputBase  string
	maxMB       int
	format      string
	outputDir   string
	rotateDir   string
	policyFile  string
	indexFile   string
	skipInvalid bool
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "msp2mgf",
	Short: "msp2mgf - Spectral library MSP to MGF converter",
	Long: `msp2mgf converts NIST/Prosit MSP spectral libraries to MGF peak lists
for database search engines.

Single-pass streaming conversion with support for:
- Record filtering by modification and peptide length
- Size-bounded output files
- MS2 output
- A SQLite index of emitted scans`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command; ctx cancels a conversion in progress.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(summarizeCmd)

	rootCmd.PersistentFlags().StringVar(&policyFile, "policy", "", "YAML filter policy file (default: built-in policy)")
	rootCmd.PersistentFlags().BoolVar(&skipInvalid, "skip-invalid", false, "Skip malformed records instead of aborting")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log rotations and other per-record diagnostics")

	// Convert command flags
	convertCmd.Flags().StringVarP(&inputFile, "in", "i", "", "Input MSP file path, '-' for stdin (required unless MSP2MGF_INPUT is set)")
	convertCmd.Flags().StringVarP(&outputBase, "out", "o", "", "Output base name (default: input file name without extension)")
	convertCmd.Flags().IntVarP(&maxMB, "max", "m", 500, "Max size in MB of an output file before it is split")
	convertCmd.Flags().StringVarP(&format, "format", "f", transcode.FormatMGF, "Output format: mgf or ms2")
	convertCmd.Flags().StringVar(&outputDir, "output-dir", ".", "Directory of the first output file")
	convertCmd.Flags().StringVar(&rotateDir, "rotate-dir", "", "Directory of split output files (default: --output-dir)")
	convertCmd.Flags().StringVar(&indexFile, "index", "", "Write a SQLite index of emitted scans to this path")
}

// newConfig builds the run configuration: environment first, then any flag
// given explicitly on the command line.
func newConfig(cmd *cobra.Command) (*transcode.Config, error) {
	cfg, err := transcode.ConfigFromEnv()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	set := func(name string, apply func()) {
		if flags.Lookup(name) != nil && flags.Changed(name) {
			apply()
		}
	}
	set("in", func() { cfg.Input = inputFile })
	set("out", func() { cfg.Base = outputBase })
	set("max", func() { cfg.MaxMB = maxMB })
	set("format", func() { cfg.Format = format })
	set("output-dir", func() { cfg.OutputDir = outputDir })
	set("rotate-dir", func() { cfg.RotateDir = rotateDir })
	set("index", func() { cfg.IndexPath = indexFile })
	set("policy", func() { cfg.PolicyPath = policyFile })
	set("skip-invalid", func() { cfg.SkipInvalid = skipInvalid })

	return cfg, nil
}

// newLogger returns the diagnostics logger: warnings only, or everything
// from info up with --verbose.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
