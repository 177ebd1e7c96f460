package core

import (
	"sort"
	"strings"
)

// ParseModNames extracts modification names from a Mods comment value.
//
// Two layouts are recognised:
//
//	NIST:   2(0,A,Acetyl)(4,M,Oxidation)
//	Prosit: 1/-1,R,TMT_Pro
//
// A count-only value ("0", "None") yields no names. A value in neither
// layout is returned as a single name so it still shows up in reports.
func ParseModNames(value string) []string {
	value = strings.TrimSpace(strings.Trim(value, `"`))
	if value == "" || value == "None" || isCount(value) {
		return nil
	}

	var segments []string
	if strings.Contains(value, "(") {
		for _, s := range strings.Split(value, "(")[1:] {
			segments = append(segments, strings.TrimSuffix(strings.TrimSpace(s), ")"))
		}
	} else {
		segments = strings.Split(value, "/")[1:]
	}

	seen := make(map[string]struct{})
	for _, seg := range segments {
		parts := strings.Split(seg, ",")
		if len(parts) < 3 {
			continue
		}
		name := strings.TrimSpace(parts[len(parts)-1])
		if name != "" {
			seen[name] = struct{}{}
		}
	}

	if len(seen) == 0 {
		return []string{value}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func isCount(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
