// Package core provides the record model and the header-line parsers shared
// by the MSP readers and the MGF transcoder.
package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Comment keys the transcoder depends on.
const (
	KeyMods   = "Mods"
	KeyParent = "Parent"
)

// Record is one spectral library entry. Header fields accumulate as their
// lines are read; masses and intensities are kept as the source tokens.
type Record struct {
	Peptide         string
	Charge          int
	MolecularWeight float64
	Comment         map[string]string
	Modifications   []string // unique modification names, sorted
	Peaks           []Peak   // only filled by record-level readers

	// Internal tracking
	HasComment bool
	StartLine  int
}

// Peak is an opaque (m/z, intensity) token pair copied verbatim from the source.
type Peak struct {
	MZ        string
	Intensity string
}

// Reset clears the record so it can hold the next entry.
func (r *Record) Reset() {
	*r = Record{}
}

// InProgress reports whether any header line has been seen for this record.
func (r *Record) InProgress() bool {
	return r.StartLine > 0
}

// Mods returns the raw Mods comment value.
func (r *Record) Mods() (string, error) {
	v, ok := r.Comment[KeyMods]
	if !ok {
		return "", MissingError(KeyMods)
	}
	return v, nil
}

// ParentMass returns the precursor mass token from the Parent comment value.
func (r *Record) ParentMass() (string, error) {
	v, ok := r.Comment[KeyParent]
	if !ok {
		return "", MissingError(KeyParent)
	}
	return v, nil
}

// Name returns the spectrum name in format "Peptide/Charge"
func (r *Record) Name() string {
	return fmt.Sprintf("%s/%d", r.Peptide, r.Charge)
}

// ParseName fills Peptide and Charge from a "Name: <peptide>/<charge>[_<suffix>]" line.
func (r *Record) ParseName(line string) error {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return FormatError("name line %q has no value", line)
	}
	raw := fields[1]

	peptide, rest, ok := strings.Cut(raw, "/")
	if !ok {
		return FormatError("invalid name %q, expected 'PEPTIDE/CHARGE'", raw)
	}
	chargeStr, _, _ := strings.Cut(rest, "_")
	charge, err := strconv.Atoi(chargeStr)
	if err != nil || charge <= 0 {
		return FormatError("invalid charge %q in name %q", chargeStr, raw)
	}

	r.Peptide = peptide
	r.Charge = charge
	return nil
}

// ParseMW fills MolecularWeight from a "MW: <float>" line.
func (r *Record) ParseMW(line string) error {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return FormatError("MW line %q has no value", line)
	}
	mw, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return FormatError("invalid molecular weight %q", fields[1])
	}
	r.MolecularWeight = mw
	return nil
}

// ParseComment tokenizes the key=value pairs of a "Comment: ..." line and
// derives the modification set from the Mods value when present.
func (r *Record) ParseComment(line string) {
	_, rest, _ := strings.Cut(line, ":")
	r.Comment = ParseKeyValues(rest)
	r.HasComment = true
	if mods, ok := r.Comment[KeyMods]; ok {
		r.Modifications = ParseModNames(mods)
	}
}
