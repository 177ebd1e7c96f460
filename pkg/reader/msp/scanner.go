package msp

import (
	"bufio"
	"io"
	"strings"
)

// Kind classifies one line of an MSP file.
type Kind int

const (
	Other Kind = iota
	Name
	MW
	Comment
	NumPeaks
	PeakLine
	Blank
)

func (k Kind) String() string {
	switch k {
	case Name:
		return "name"
	case MW:
		return "mw"
	case Comment:
		return "comment"
	case NumPeaks:
		return "num-peaks"
	case PeakLine:
		return "peak"
	case Blank:
		return "blank"
	default:
		return "other"
	}
}

// Field markers
const (
	NamePrefix     = "Name:"
	MWPrefix       = "MW:"
	CommentPrefix  = "Comment:"
	NumPeaksPrefix = "Num peaks:"

	// SpectraST (.sptxt) libraries spell the peak-count marker without a space.
	sptxtNumPeaksPrefix = "NumPeaks:"
)

// maxLineSize bounds a single line; comment lines of consensus libraries run
// well past bufio's 64 KiB default.
const maxLineSize = 16 << 20

// Scanner splits an MSP stream into classified lines.
type Scanner struct {
	scanner *bufio.Scanner
	lineNum int
	text    string
	kind    Kind
}

// NewScanner creates a new line scanner over r
func NewScanner(r io.Reader) *Scanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Scanner{scanner: s}
}

// Scan advances to the next line. Returns false at end of input or on error.
func (s *Scanner) Scan() bool {
	if !s.scanner.Scan() {
		return false
	}
	s.lineNum++
	s.text = strings.TrimSuffix(s.scanner.Text(), "\r")
	s.kind = Classify(s.text)
	return true
}

// Text returns the current line without its line terminator
func (s *Scanner) Text() string {
	return s.text
}

// Kind returns the classification of the current line
func (s *Scanner) Kind() Kind {
	return s.kind
}

// Line returns the 1-based number of the current line
func (s *Scanner) Line() int {
	return s.lineNum
}

// Err returns any error encountered during reading
func (s *Scanner) Err() error {
	return s.scanner.Err()
}

// Classify returns the kind of a single line with its terminator removed.
func Classify(line string) Kind {
	switch {
	case line == "":
		return Blank
	case strings.HasPrefix(line, NamePrefix):
		return Name
	case strings.HasPrefix(line, MWPrefix):
		return MW
	case strings.HasPrefix(line, CommentPrefix):
		return Comment
	case strings.HasPrefix(line, NumPeaksPrefix), strings.HasPrefix(line, sptxtNumPeaksPrefix):
		return NumPeaks
	case line[0] >= '0' && line[0] <= '9':
		return PeakLine
	default:
		return Other
	}
}

// PeakTokens returns the first two whitespace-delimited tokens of a peak
// line (m/z and intensity). Shorter lines yield whatever tokens exist.
func PeakTokens(line string) []string {
	fields := strings.Fields(line)
	if len(fields) > 2 {
		fields = fields[:2]
	}
	return fields
}
