package interpreter

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"cmdshell/pkg/shelltypes"
)

// LineSource supplies input lines one at a time. NextLine returns io.EOF when no
// more input is available; any other error ends the loop with that error, except
// a *shelltypes.ParseError, which is reported and skipped.
type LineSource interface {
	NextLine() (string, error)
}

// PromptSetter is implemented by sources that draw their own prompt, such as
// line editors. The interpreter hands them the prompt instead of writing it.
type PromptSetter interface {
	SetPrompt(prompt string)
}

// ReaderSource reads delimiter-framed lines from an io.Reader. It never reads past
// the delimiter of the line it returns, so the host keeps every byte the loop did
// not consume. Readers implementing io.ByteReader are used directly; others are
// read one byte per call, so wrap them in a bufio.Reader when read-ahead is fine.
type ReaderSource struct {
	r         io.ByteReader
	delimiter byte
	maxLength int
	done      bool
}

// SourceOption configures a ReaderSource.
type SourceOption func(*ReaderSource)

// WithDelimiter sets the frame delimiter. Default is '\n'.
func WithDelimiter(delim byte) SourceOption {
	return func(s *ReaderSource) {
		s.delimiter = delim
	}
}

// WithMaxLineLength rejects frames longer than n bytes with a parse error.
// Zero means unlimited.
func WithMaxLineLength(n int) SourceOption {
	return func(s *ReaderSource) {
		if n >= 0 {
			s.maxLength = n
		}
	}
}

// oneByteReader reads a single byte per call from an io.Reader.
type oneByteReader struct {
	r   io.Reader
	buf [1]byte
}

func (o *oneByteReader) ReadByte() (byte, error) {
	for {
		n, err := o.r.Read(o.buf[:])
		if n == 1 {
			return o.buf[0], nil
		}
		if err != nil {
			return 0, err
		}
	}
}

// NewReaderSource creates a source reading from r.
func NewReaderSource(r io.Reader, options ...SourceOption) *ReaderSource {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = &oneByteReader{r: r}
	}
	s := &ReaderSource{
		r:         br,
		delimiter: '\n',
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// NextLine returns the next frame without its delimiter. A final frame without a
// delimiter is returned before io.EOF. With the default delimiter a trailing '\r'
// is removed. A frame longer than the maximum length is discarded up to its
// delimiter without being buffered and reported as a *shelltypes.ParseError.
func (s *ReaderSource) NextLine() (string, error) {
	if s.done {
		return "", io.EOF
	}

	// one extra byte leaves room for the '\r' of a CRLF frame
	limit := s.maxLength + 1
	var line strings.Builder
	overflow := false
	read := 0
	for {
		c, err := s.r.ReadByte()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return "", err
			}
			s.done = true
			if read == 0 {
				return "", io.EOF
			}
			break
		}
		read++
		if c == s.delimiter {
			break
		}
		if overflow {
			continue
		}
		if s.maxLength > 0 && line.Len() >= limit {
			overflow = true
			continue
		}
		line.WriteByte(c)
	}

	text := line.String()
	if s.delimiter == '\n' {
		text = strings.TrimSuffix(text, "\r")
	}
	if overflow || (s.maxLength > 0 && len(text) > s.maxLength) {
		return "", &shelltypes.ParseError{Pos: -1, Msg: fmt.Sprintf("line exceeds %d bytes", s.maxLength)}
	}
	return text, nil
}

// SliceSource serves lines from memory.
type SliceSource struct {
	lines []string
	next  int
}

// NewSliceSource creates a source over lines.
func NewSliceSource(lines ...string) *SliceSource {
	return &SliceSource{lines: append([]string(nil), lines...)}
}

// NextLine returns the next line or io.EOF.
func (s *SliceSource) NextLine() (string, error) {
	if s.next >= len(s.lines) {
		return "", io.EOF
	}
	line := s.lines[s.next]
	s.next++
	return line, nil
}
