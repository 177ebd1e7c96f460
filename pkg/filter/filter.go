// Package filter provides the record inclusion policy applied before a
// record is written to MGF.
package filter

import (
	"io"
	"os"
	"strings"

	"github.com/gravitational/trace"
	"gopkg.in/yaml.v3"

	"github.com/ChrisMcGann/msp2mgf/pkg/core"
)

// Reason explains why a record was excluded.
type Reason string

const (
	Included     Reason = ""
	ForbiddenMod Reason = "forbidden-mod"
	TooShort     Reason = "too-short"
	TooLong      Reason = "too-long"
	Invalid      Reason = "invalid"
)

// Policy holds filtering configuration
type Policy struct {
	ForbiddenMods []string `yaml:"forbidden_mods"` // Exclude when Mods contains any of these substrings
	MinLength     int      `yaml:"min_length"`     // Inclusive lower bound on peptide length
	MaxLength     int      `yaml:"max_length"`     // Inclusive upper bound on peptide length (0 = no limit)
}

// DefaultPolicy returns the policy used when no policy file is given.
func DefaultPolicy() *Policy {
	return &Policy{
		ForbiddenMods: []string{"Acetyl", "Propionamide", "Carbamyl"},
		MinLength:     8,
		MaxLength:     30,
	}
}

// Decide reports whether a record with the given peptide and raw Mods value
// should be written, and if not, why.
func (p *Policy) Decide(peptide, mods string) (bool, Reason) {
	for _, forbidden := range p.ForbiddenMods {
		if forbidden != "" && strings.Contains(mods, forbidden) {
			return false, ForbiddenMod
		}
	}
	if len(peptide) < p.MinLength {
		return false, TooShort
	}
	if p.MaxLength > 0 && len(peptide) > p.MaxLength {
		return false, TooLong
	}
	return true, Included
}

// Apply decides on a record whose Comment line has been parsed. A record
// without a Mods key cannot be decided and yields a missing-metadata error.
func (p *Policy) Apply(rec *core.Record) (bool, Reason, error) {
	mods, err := rec.Mods()
	if err != nil {
		return false, Invalid, err
	}
	ok, reason := p.Decide(rec.Peptide, mods)
	return ok, reason, nil
}

// Validate checks that the bounds are coherent.
func (p *Policy) Validate() error {
	if p.MinLength < 0 {
		return trace.BadParameter("min_length must not be negative, got %d", p.MinLength)
	}
	if p.MaxLength != 0 && p.MaxLength < p.MinLength {
		return trace.BadParameter("max_length %d is below min_length %d", p.MaxLength, p.MinLength)
	}
	return nil
}

// LoadPolicy reads a YAML policy. Keys absent from the document keep the
// values of DefaultPolicy.
func LoadPolicy(r io.Reader) (*Policy, error) {
	p := DefaultPolicy()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(p); err != nil && err != io.EOF {
		return nil, trace.BadParameter("invalid policy: %v", err)
	}
	if err := p.Validate(); err != nil {
		return nil, trace.Wrap(err)
	}
	return p, nil
}

// LoadPolicyFile reads a YAML policy from path, or returns DefaultPolicy
// when path is empty.
func LoadPolicyFile(path string) (*Policy, error) {
	if path == "" {
		return DefaultPolicy(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, trace.ConvertSystemError(err)
	}
	defer f.Close()

	p, err := LoadPolicy(f)
	if err != nil {
		return nil, trace.Wrap(err, "loading policy %s", path)
	}
	return p, nil
}
