// Package msp provides streaming readers for NIST/Prosit MSP format spectral
// libraries.
package msp

import (
	"io"

	"github.com/ChrisMcGann/msp2mgf/pkg/core"
)

// Reader provides record-level access to MSP files. Unlike the transcoder it
// buffers each record's peaks, so it suits inspection rather than conversion.
type Reader struct {
	scanner     *Scanner
	currentRec  *core.Record
	err         error
	skipInvalid bool
	skipped     int
}

// NewReader creates a new MSP reader
func NewReader(r io.Reader) *Reader {
	return &Reader{scanner: NewScanner(r)}
}

// SkipInvalid makes the reader drop records with format or missing-metadata
// errors instead of stopping.
func (r *Reader) SkipInvalid(skip bool) *Reader {
	r.skipInvalid = skip
	return r
}

// Next advances to the next record. Returns false when no more records or error.
func (r *Reader) Next() bool {
	r.currentRec = nil

	for {
		rec, err := r.readRecord()
		if err == io.EOF {
			return false
		}
		if err != nil {
			if r.skipInvalid && core.IsRecordError(err) {
				r.skipped++
				continue
			}
			r.err = err
			return false
		}
		r.currentRec = rec
		return true
	}
}

// Record returns the current record
func (r *Reader) Record() *core.Record {
	return r.currentRec
}

// Skipped returns the number of records dropped in skip-invalid mode.
func (r *Reader) Skipped() int {
	return r.skipped
}

// Err returns any error encountered during reading
func (r *Reader) Err() error {
	return r.err
}

// readRecord reads lines up to and including the blank line that ends a
// record. After a record error the rest of the record is consumed so the
// next call starts on a record boundary.
func (r *Reader) readRecord() (*core.Record, error) {
	rec := &core.Record{}
	var recErr error

	for r.scanner.Scan() {
		line := r.scanner.Text()
		kind := r.scanner.Kind()

		if kind == Blank {
			if !rec.InProgress() {
				continue
			}
			if recErr != nil {
				return nil, recErr
			}
			return rec, nil
		}

		if !rec.InProgress() {
			rec.StartLine = r.scanner.Line()
		}
		if recErr != nil {
			continue
		}

		switch kind {
		case Name:
			recErr = rec.ParseName(line)
		case MW:
			recErr = rec.ParseMW(line)
		case Comment:
			rec.ParseComment(line)
		case PeakLine:
			tokens := PeakTokens(line)
			peak := core.Peak{MZ: tokens[0]}
			if len(tokens) > 1 {
				peak.Intensity = tokens[1]
			}
			rec.Peaks = append(rec.Peaks, peak)
		}
		recErr = core.AtLine(recErr, r.scanner.Line())
	}

	if err := r.scanner.Err(); err != nil {
		return nil, err
	}

	// A final record without a trailing blank line
	if rec.InProgress() {
		if recErr != nil {
			return nil, recErr
		}
		return rec, nil
	}

	return nil, io.EOF
}
