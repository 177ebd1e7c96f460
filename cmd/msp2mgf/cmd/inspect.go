package cmd

import (
	"fmt"

	"github.com/gravitational/trace"
	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/msp2mgf/pkg/filter"
	"github.com/ChrisMcGann/msp2mgf/pkg/reader/msp"
	"github.com/ChrisMcGann/msp2mgf/pkg/summary"
	"github.com/ChrisMcGann/msp2mgf/pkg/transcode"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate input file format and contents",
	Long: `Parse the whole library and apply the filter policy without writing
output. Reports how many records would be written and the files a conversion
with the current settings would produce.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := newConfig(cmd)
		if err != nil {
			return err
		}
		cfg.Input = args[0]

		stats, err := transcode.Validate(cmd.Context(), cfg, newLogger(cmd.ErrOrStderr()))
		if err != nil {
			return trace.Wrap(err, "%s is not a valid library", args[0])
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: OK\n", args[0])
		stats.Report(cmd.OutOrStdout())
		return nil
	},
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize [file]",
	Short: "Summarize spectral library contents",
	Long:  `Print summary statistics about a spectral library including record count, charge states, peptide lengths, peak counts and modifications.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := newConfig(cmd)
		if err != nil {
			return err
		}
		policy, err := filter.LoadPolicyFile(cfg.PolicyPath)
		if err != nil {
			return err
		}

		in, err := msp.Open(args[0])
		if err != nil {
			return trace.Wrap(err, "failed to open input file")
		}
		defer in.Close()

		s := summary.New(policy)
		r := msp.NewReader(in).SkipInvalid(cfg.SkipInvalid)
		for r.Next() {
			if err := cmd.Context().Err(); err != nil {
				return trace.Wrap(err)
			}
			s.Add(r.Record())
		}
		if err := r.Err(); err != nil {
			return trace.Wrap(err, "error reading input file")
		}

		s.Report(cmd.OutOrStdout())
		if r.Skipped() > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Skipped: %d records (format errors)\n", r.Skipped())
		}
		return nil
	},
}
