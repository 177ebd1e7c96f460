package transcode

import (
	"fmt"
	"io"
	"sort"

	"github.com/ChrisMcGann/msp2mgf/pkg/filter"
)

// Stats summarises one conversion run.
type Stats struct {
	Records    int                   // source records seen, written or not
	Written    int                   // records written to the output
	Excluded   map[filter.Reason]int // records rejected by the filter policy
	Invalid    int                   // malformed records skipped in skip-invalid mode
	Incomplete int                   // records that ended before a Num peaks line
	Rotations  int
	Files      []string
}

func newStats() Stats {
	return Stats{Excluded: make(map[filter.Reason]int)}
}

// TotalExcluded returns the number of records rejected by the policy.
func (s *Stats) TotalExcluded() int {
	total := 0
	for _, n := range s.Excluded {
		total += n
	}
	return total
}

// Report prints a human-readable summary of the run.
func (s *Stats) Report(w io.Writer) {
	fmt.Fprintf(w, "Records read: %d\n", s.Records)
	fmt.Fprintf(w, "Written: %d\n", s.Written)
	if total := s.TotalExcluded(); total > 0 {
		fmt.Fprintf(w, "Excluded: %d\n", total)
		reasons := make([]string, 0, len(s.Excluded))
		for r := range s.Excluded {
			reasons = append(reasons, string(r))
		}
		sort.Strings(reasons)
		for _, r := range reasons {
			fmt.Fprintf(w, "  %s: %d\n", r, s.Excluded[filter.Reason(r)])
		}
	}
	if s.Invalid > 0 {
		fmt.Fprintf(w, "Skipped: %d records (format errors)\n", s.Invalid)
	}
	if s.Incomplete > 0 {
		fmt.Fprintf(w, "Incomplete: %d records (no peak list)\n", s.Incomplete)
	}
	for _, f := range s.Files {
		fmt.Fprintf(w, "Output: %s\n", f)
	}
}
