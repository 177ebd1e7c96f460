package transcode

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gravitational/trace"

	"github.com/ChrisMcGann/msp2mgf/pkg/reader/msp"
	"github.com/ChrisMcGann/msp2mgf/pkg/writer/rotate"
	"github.com/ChrisMcGann/msp2mgf/pkg/writer/sqlite"
)

// Convert runs a full conversion described by cfg: it opens the input,
// creates the first output file and the optional scan index, and transcodes
// to the end of the input.
func Convert(ctx context.Context, cfg *Config, log *slog.Logger, progress func(int)) (*Stats, error) {
	if err := cfg.CheckAndSetDefaults(); err != nil {
		return nil, trace.Wrap(err)
	}
	enc, err := NewEncoder(cfg.Format)
	if err != nil {
		return nil, trace.Wrap(err)
	}

	in, err := msp.Open(cfg.Input)
	if err != nil {
		return nil, trace.Wrap(err, "failed to open input file")
	}
	defer in.Close()

	sink, err := rotate.Create(rotate.Options{
		Dir:       cfg.OutputDir,
		RotateDir: cfg.RotateDir,
		Base:      cfg.Base,
		Ext:       enc.Ext(),
	})
	if err != nil {
		return nil, trace.Wrap(err, "failed to create output file")
	}

	opts := Options{
		Policy:      cfg.Policy,
		MaxBytes:    cfg.MaxBytes(),
		SkipInvalid: cfg.SkipInvalid,
		Logger:      log,
		Progress:    progress,
	}

	var index *sqlite.Writer
	if cfg.IndexPath != "" {
		index, err = sqlite.NewWriter(cfg.IndexPath, cfg.Input)
		if err != nil {
			sink.Close()
			return nil, trace.Wrap(err, "failed to create scan index")
		}
		opts.Index = index
	}

	stats, err := New(sink, enc, opts).Run(ctx, in)
	if index != nil {
		if ferr := index.Finalize(); ferr != nil && err == nil {
			err = trace.Wrap(ferr, "failed to finalize scan index")
		}
	}
	return stats, trace.Wrap(err)
}

// Validate parses the whole input and applies the filter policy without
// writing any output. Output sizes are still tracked so the report shows
// how many files a conversion would produce.
func Validate(ctx context.Context, cfg *Config, log *slog.Logger) (*Stats, error) {
	if err := cfg.CheckAndSetDefaults(); err != nil {
		return nil, trace.Wrap(err)
	}
	enc, err := NewEncoder(cfg.Format)
	if err != nil {
		return nil, trace.Wrap(err)
	}

	in, err := msp.Open(cfg.Input)
	if err != nil {
		return nil, trace.Wrap(err, "failed to open input file")
	}
	defer in.Close()

	sink := Discard(cfg.Base, enc.Ext())
	stats, err := New(sink, enc, Options{
		Policy:      cfg.Policy,
		MaxBytes:    cfg.MaxBytes(),
		SkipInvalid: cfg.SkipInvalid,
		Logger:      log,
	}).Run(ctx, in)
	return stats, trace.Wrap(err)
}

// discardSink counts bytes and names files the way rotate.File would,
// without touching the filesystem.
type discardSink struct {
	base, ext string
	size      int64
	files     []string
}

// Discard returns a Sink that drops everything written to it.
func Discard(base, ext string) Sink {
	return &discardSink{base: base, ext: ext, files: []string{base + ext}}
}

func (d *discardSink) Write(p []byte) (int, error) {
	d.size += int64(len(p))
	return len(p), nil
}

func (d *discardSink) Size() int64 { return d.size }
func (d *discardSink) Name() string { return d.files[len(d.files)-1] }
func (d *discardSink) Files() []string { return append([]string(nil), d.files...) }
func (d *discardSink) Close() error { return nil }

func (d *discardSink) Rotate() error {
	d.files = append(d.files, fmt.Sprintf("%s_%d%s", d.base, len(d.files)-1, d.ext))
	d.size = 0
	return nil
}
