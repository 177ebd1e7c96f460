package cmd

import (
	"fmt"

	"github.com/gravitational/trace"
	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/msp2mgf/pkg/transcode"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert an MSP spectral library to MGF",
	Long: `Convert an MSP spectral library to one or more MGF files, skipping
records with forbidden modifications or out-of-range peptide lengths.

Output goes to <output-dir>/<out>.mgf; once a file grows past --max megabytes
the next record starts <rotate-dir>/<out>_0.mgf, then <out>_1.mgf and so on.

Examples:
  # Convert with default settings (library.mgf, 500 MB files)
  msp2mgf convert --in library.msp

  # Split every 100 MB into ./mgf and index the emitted scans
  msp2mgf convert --in library.msp --out human --max 100 --rotate-dir mgf --index human.db

  # Write MS2 instead of MGF, skipping malformed entries
  msp2mgf convert --in library.msp.gz --format ms2 --skip-invalid`,
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := newConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.CheckAndSetDefaults(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Converting %s...\n", cfg.Input)
	fmt.Fprintf(out, "Format: %s\n", cfg.Format)
	fmt.Fprintf(out, "Max file size: %d MB\n", cfg.MaxMB)
	if cfg.IndexPath != "" {
		fmt.Fprintf(out, "Scan index: %s\n", cfg.IndexPath)
	}

	progress := func(n int) {
		if n%10000 == 0 {
			fmt.Fprintf(out, "Processed %d records...\n", n)
		}
	}

	stats, err := transcode.Convert(cmd.Context(), cfg, newLogger(cmd.ErrOrStderr()), progress)
	if err != nil {
		return trace.Wrap(err, "conversion of %s failed", cfg.Input)
	}

	fmt.Fprintf(out, "\nConversion complete!\n")
	stats.Report(out)
	return nil
}
