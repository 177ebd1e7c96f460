// Package ms2 encodes records as MS2 scans.
package ms2

import (
	"fmt"
	"io"
	"strconv"

	"github.com/ChrisMcGann/msp2mgf/pkg/core"
)

// Ext is the file extension of MS2 output.
const Ext = ".ms2"

// Encoder writes one S line and one Z line per record, followed by its peaks.
type Encoder struct{}

// Ext returns the output file extension
func (Encoder) Ext() string { return Ext }

// Begin writes the scan and charge lines. The Z line mass is
// MW - charge + 1, matching the library's singly protonated mass.
func (Encoder) Begin(w io.Writer, h core.Header) error {
	mass := h.MolecularWeight - float64(h.Charge) + 1
	_, err := fmt.Fprintf(w, "S\t%d\t%d\t%s\nZ\t%d\t%s\n",
		h.Scan, h.Scan, h.PrecursorMZ,
		h.Charge, strconv.FormatFloat(mass, 'f', -1, 64))
	return err
}

// Peak writes one "mz intensity" line.
func (Encoder) Peak(w io.Writer, mz, intensity string) error {
	line := mz
	if intensity != "" {
		line += " " + intensity
	}
	_, err := io.WriteString(w, line+"\n")
	return err
}

// End is a no-op; MS2 scans are delimited by the next S line.
func (Encoder) End(io.Writer) error {
	return nil
}
