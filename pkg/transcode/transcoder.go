// Package transcode converts an MSP spectral library stream into MGF (or
// MS2) output in a single pass, filtering records and rotating output files
// by size.
package transcode

import (
	"context"
	"io"
	"log/slog"

	"github.com/gravitational/trace"

	"github.com/ChrisMcGann/msp2mgf/pkg/core"
	"github.com/ChrisMcGann/msp2mgf/pkg/filter"
	"github.com/ChrisMcGann/msp2mgf/pkg/reader/msp"
	"github.com/ChrisMcGann/msp2mgf/pkg/writer/sqlite"
)

// Sink is the active output. Rotate replaces the current file with the next
// one; Files lists every file created so far.
type Sink interface {
	io.Writer
	Size() int64
	Name() string
	Files() []string
	Rotate() error
	Close() error
}

// Encoder renders records in an output format.
type Encoder interface {
	Ext() string
	Begin(w io.Writer, h core.Header) error
	Peak(w io.Writer, mz, intensity string) error
	End(w io.Writer) error
}

// Index receives one entry per record written.
type Index interface {
	WriteEntry(e sqlite.Entry) error
}

// Options tune a Transcoder. Zero values select the defaults.
type Options struct {
	Policy      *filter.Policy // default filter.DefaultPolicy()
	MaxBytes    int64          // rotation threshold; default 500 MB
	SkipInvalid bool           // log and skip malformed records instead of failing
	Index       Index          // optional scan index
	Logger      *slog.Logger   // default discards
	Progress    func(records int)
}

const progressEvery = 1000

// Transcoder is the per-run conversion state: the record being read, its
// filter decision, the scan counter and the active sink.
type Transcoder struct {
	sink        Sink
	enc         Encoder
	policy      *filter.Policy
	maxBytes    int64
	skipInvalid bool
	index       Index
	log         *slog.Logger
	progress    func(int)

	rec        core.Record
	decided    bool
	include    bool
	reason     filter.Reason
	headerOpen bool
	recErr     error
	scan       int

	stats Stats
}

// New creates a Transcoder writing to sink. The Transcoder takes ownership of
// sink and closes it when Run returns.
func New(sink Sink, enc Encoder, opts Options) *Transcoder {
	if opts.Policy == nil {
		opts.Policy = filter.DefaultPolicy()
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = 500 * bytesPerMB
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Transcoder{
		sink:        sink,
		enc:         enc,
		policy:      opts.Policy,
		maxBytes:    opts.MaxBytes,
		skipInvalid: opts.SkipInvalid,
		index:       opts.Index,
		log:         opts.Logger,
		progress:    opts.Progress,
		scan:        1,
		stats:       newStats(),
	}
}

// Run consumes r to the end and returns the run statistics. The sink is
// closed on every return path; on error, everything written before the
// failing line is kept.
func (t *Transcoder) Run(ctx context.Context, r io.Reader) (stats *Stats, err error) {
	defer func() {
		closeErr := t.sink.Close()
		t.stats.Files = t.sink.Files()
		if err == nil && closeErr != nil {
			err = trace.Wrap(closeErr, "closing %s", t.sink.Name())
		}
		stats = &t.stats
	}()

	s := msp.NewScanner(r)
	for s.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, trace.Wrap(err)
		}
		if err := t.handleLine(s.Kind(), s.Text(), s.Line()); err != nil {
			return nil, err
		}
	}
	if err := s.Err(); err != nil {
		return nil, trace.Wrap(err, "reading input")
	}

	// Close out a final record that has no trailing blank line
	if t.rec.InProgress() {
		if err := t.endRecord(); err != nil {
			return nil, err
		}
	}
	return &t.stats, nil
}

// handleLine advances the state machine by one line.
func (t *Transcoder) handleLine(kind msp.Kind, line string, lineNum int) error {
	if kind == msp.Blank {
		if !t.rec.InProgress() {
			return nil
		}
		return t.endRecord()
	}

	if !t.rec.InProgress() {
		t.rec.StartLine = lineNum
	}
	if t.recErr != nil {
		// Record already rejected in skip-invalid mode
		return nil
	}

	err := t.handleField(kind, line)
	if err == nil {
		return nil
	}
	err = core.AtLine(err, lineNum)
	if !t.skipInvalid || !core.IsRecordError(err) {
		return err
	}

	t.log.Warn("skipping invalid record", "line", lineNum, "scan", t.scan, "error", err.Error())
	t.recErr = err
	t.include = false
	return nil
}

func (t *Transcoder) handleField(kind msp.Kind, line string) error {
	switch kind {
	case msp.Name:
		return t.rec.ParseName(line)

	case msp.MW:
		return t.rec.ParseMW(line)

	case msp.Comment:
		t.rec.ParseComment(line)
		include, reason, err := t.policy.Apply(&t.rec)
		if err != nil {
			return err
		}
		t.decided, t.include, t.reason = true, include, reason

	case msp.NumPeaks:
		if !t.decided {
			return core.MissingError(core.KeyMods)
		}
		if !t.include || t.headerOpen {
			return nil
		}
		hdr, err := t.rec.Header(t.scan)
		if err != nil {
			return err
		}
		if err := t.enc.Begin(t.sink, hdr); err != nil {
			return trace.Wrap(err, "writing %s", t.sink.Name())
		}
		t.headerOpen = true

	case msp.PeakLine:
		if !t.include || !t.headerOpen {
			return nil
		}
		tokens := msp.PeakTokens(line)
		mz, intensity := tokens[0], ""
		if len(tokens) > 1 {
			intensity = tokens[1]
		}
		if err := t.enc.Peak(t.sink, mz, intensity); err != nil {
			return trace.Wrap(err, "writing %s", t.sink.Name())
		}
	}
	return nil
}

// endRecord terminates the current record: it closes the output block if
// one was opened, rotates the sink when it has grown past the threshold and
// advances the scan counter whether or not the record was written.
func (t *Transcoder) endRecord() error {
	switch {
	case t.headerOpen:
		if err := t.enc.End(t.sink); err != nil {
			return trace.Wrap(err, "writing %s", t.sink.Name())
		}
		t.stats.Written++
		if t.index != nil {
			mods, _ := t.rec.Mods()
			parent, _ := t.rec.ParentMass()
			err := t.index.WriteEntry(sqlite.Entry{
				Scan:        t.scan,
				Sequence:    t.rec.Peptide,
				Charge:      t.rec.Charge,
				PrecursorMZ: parent,
				Mods:        mods,
				OutputFile:  t.sink.Name(),
			})
			if err != nil {
				return trace.Wrap(err)
			}
		}
	case t.recErr != nil:
		t.stats.Invalid++
	case t.decided && !t.include:
		t.stats.Excluded[t.reason]++
	default:
		t.stats.Incomplete++
	}

	if t.sink.Size() > t.maxBytes {
		prev := t.sink.Name()
		if err := t.sink.Rotate(); err != nil {
			return trace.Wrap(err, "rotating %s", prev)
		}
		t.stats.Rotations++
		t.log.Info("rotated output", "closed", prev, "opened", t.sink.Name(), "scan", t.scan)
	}

	t.stats.Records++
	t.scan++
	if t.progress != nil && t.stats.Records%progressEvery == 0 {
		t.progress(t.stats.Records)
	}

	t.rec.Reset()
	t.decided, t.include, t.reason = false, false, filter.Included
	t.headerOpen = false
	t.recErr = nil
	return nil
}
