// Package summary computes library-level statistics over MSP records.
package summary

import (
	"cmp"
	"fmt"
	"io"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ChrisMcGann/msp2mgf/pkg/core"
	"github.com/ChrisMcGann/msp2mgf/pkg/filter"
)

// Summary accumulates statistics one record at a time.
type Summary struct {
	policy *filter.Policy

	Records       int
	Included      int
	Excluded      map[filter.Reason]int
	Charges       map[int]int
	Modifications map[string]int

	lengths []float64
	peaks   []float64
}

// New creates an empty Summary that classifies records with policy.
func New(policy *filter.Policy) *Summary {
	if policy == nil {
		policy = filter.DefaultPolicy()
	}
	return &Summary{
		policy:        policy,
		Excluded:      make(map[filter.Reason]int),
		Charges:       make(map[int]int),
		Modifications: make(map[string]int),
	}
}

// Add records one library entry.
func (s *Summary) Add(rec *core.Record) {
	s.Records++
	s.Charges[rec.Charge]++
	for _, m := range rec.Modifications {
		s.Modifications[m]++
	}
	s.lengths = append(s.lengths, float64(len(rec.Peptide)))
	s.peaks = append(s.peaks, float64(len(rec.Peaks)))

	ok, reason, err := s.policy.Apply(rec)
	switch {
	case err != nil:
		s.Excluded[filter.Invalid]++
	case ok:
		s.Included++
	default:
		s.Excluded[reason]++
	}
}

// Dist describes one numeric distribution.
type Dist struct {
	Mean, StdDev, Min, Max float64
}

func describe(xs []float64) Dist {
	if len(xs) == 0 {
		return Dist{}
	}
	d := Dist{Min: floats.Min(xs), Max: floats.Max(xs)}
	if len(xs) == 1 {
		d.Mean = xs[0]
		return d
	}
	d.Mean, d.StdDev = stat.MeanStdDev(xs, nil)
	return d
}

// PeptideLength returns the distribution of peptide lengths.
func (s *Summary) PeptideLength() Dist {
	return describe(s.lengths)
}

// PeakCount returns the distribution of peaks per record.
func (s *Summary) PeakCount() Dist {
	return describe(s.peaks)
}

// Report prints the summary as plain text.
func (s *Summary) Report(w io.Writer) {
	fmt.Fprintf(w, "Records: %d\n", s.Records)
	fmt.Fprintf(w, "Included by policy: %d\n", s.Included)
	for _, r := range sortedKeys(s.Excluded) {
		fmt.Fprintf(w, "Excluded (%s): %d\n", r, s.Excluded[r])
	}

	pl, pc := s.PeptideLength(), s.PeakCount()
	fmt.Fprintf(w, "Peptide length: mean %.2f, sd %.2f, range %s-%s\n", pl.Mean, pl.StdDev, formatInt(pl.Min), formatInt(pl.Max))
	fmt.Fprintf(w, "Peaks per record: mean %.2f, sd %.2f, range %s-%s\n", pc.Mean, pc.StdDev, formatInt(pc.Min), formatInt(pc.Max))

	fmt.Fprintln(w, "Charge states:")
	for _, c := range sortedKeys(s.Charges) {
		fmt.Fprintf(w, "  %d+: %d\n", c, s.Charges[c])
	}

	if len(s.Modifications) > 0 {
		fmt.Fprintln(w, "Modifications:")
		for _, m := range sortedKeys(s.Modifications) {
			fmt.Fprintf(w, "  %s: %d\n", m, s.Modifications[m])
		}
	}
}

func formatInt(v float64) string {
	return fmt.Sprintf("%d", int(math.Round(v)))
}

func sortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
