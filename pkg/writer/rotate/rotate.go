// Package rotate provides a size-bounded output file that rolls over to
// numbered siblings on request.
package rotate

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gravitational/trace"
)

// Options configures where output files are created.
type Options struct {
	Dir       string // directory of the first file (default ".")
	RotateDir string // directory of rotated files (default Dir)
	Base      string // file name without extension
	Ext       string // extension including the dot, e.g. ".mgf"
}

// File is the active output sink. The first file is <Dir>/<Base><Ext>;
// every Rotate closes it and opens <RotateDir>/<Base>_<n><Ext> with n
// counting from 0.
type File struct {
	opts  Options
	f     *os.File
	w     *bufio.Writer
	size  int64
	next  int
	files []string
}

// Create opens the first output file, truncating any existing one.
func Create(opts Options) (*File, error) {
	if opts.Base == "" {
		return nil, trace.BadParameter("output base name is required")
	}
	if opts.Dir == "" {
		opts.Dir = "."
	}
	if opts.RotateDir == "" {
		opts.RotateDir = opts.Dir
	}

	f := &File{opts: opts}
	if err := f.open(filepath.Join(opts.Dir, opts.Base+opts.Ext)); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *File) open(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return trace.ConvertSystemError(err)
	}
	file, err := os.Create(path)
	if err != nil {
		return trace.ConvertSystemError(err)
	}
	f.f = file
	f.w = bufio.NewWriterSize(file, 256*1024)
	f.size = 0
	f.files = append(f.files, path)
	return nil
}

// Write implements io.Writer and counts the bytes written to the current file.
func (f *File) Write(p []byte) (int, error) {
	if f.w == nil {
		return 0, trace.Errorf("write to closed output %s", f.Name())
	}
	n, err := f.w.Write(p)
	f.size += int64(n)
	return n, err
}

// Size returns the number of bytes written to the current file.
func (f *File) Size() int64 {
	return f.size
}

// Name returns the path of the current file.
func (f *File) Name() string {
	return f.files[len(f.files)-1]
}

// Files returns the paths of every file created so far, in order.
func (f *File) Files() []string {
	out := make([]string, len(f.files))
	copy(out, f.files)
	return out
}

// Rotate closes the current file and opens the next numbered one.
func (f *File) Rotate() error {
	if err := f.Close(); err != nil {
		return trace.Wrap(err)
	}
	name := fmt.Sprintf("%s_%d%s", f.opts.Base, f.next, f.opts.Ext)
	f.next++
	return f.open(filepath.Join(f.opts.RotateDir, name))
}

// Close flushes and closes the current file. It is safe to call more than once.
func (f *File) Close() error {
	if f.f == nil {
		return nil
	}
	flushErr := f.w.Flush()
	closeErr := f.f.Close()
	f.f, f.w = nil, nil
	if flushErr != nil {
		return trace.Wrap(flushErr, "flushing %s", f.Name())
	}
	return trace.Wrap(closeErr)
}
