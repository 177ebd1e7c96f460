// Package mgf encodes records in Mascot Generic Format.
package mgf

import (
	"io"
	"strconv"

	"github.com/ChrisMcGann/msp2mgf/pkg/core"
)

// Ext is the file extension of MGF output.
const Ext = ".mgf"

// Encoder writes BEGIN IONS / END IONS blocks.
type Encoder struct{}

// Ext returns the output file extension
func (Encoder) Ext() string { return Ext }

// Begin writes the block header. RAWSCANS, SCANS and RTINSECONDS all carry
// the scan number.
func (Encoder) Begin(w io.Writer, h core.Header) error {
	scan := strconv.Itoa(h.Scan)
	_, err := io.WriteString(w, "BEGIN IONS\n"+
		"TITLE="+h.Title+"\n"+
		"RAWSCANS="+scan+"\n"+
		"SCANS="+scan+"\n"+
		"RTINSECONDS="+scan+"\n"+
		"PEPMASS="+h.PrecursorMZ+"\n"+
		"CHARGE="+strconv.Itoa(h.Charge)+"+\n")
	return err
}

// Peak writes one "mz intensity" line. An empty intensity writes the m/z alone.
func (Encoder) Peak(w io.Writer, mz, intensity string) error {
	line := mz
	if intensity != "" {
		line += " " + intensity
	}
	_, err := io.WriteString(w, line+"\n")
	return err
}

// End closes the block and writes the separating blank line.
func (Encoder) End(w io.Writer) error {
	_, err := io.WriteString(w, "END IONS\n\n")
	return err
}
