package runner

import (
	"bufio"
	"io"

	"github.com/reusee/taibf/bf"
)

// LineSource yields program lines; io.EOF ends the program.
type LineSource interface {
	ReadLine() ([]byte, error)
}

// LineReader reads newline terminated lines shorter than a buffer size.
// Instruction input shares the same reader, so bytes consumed by ',' are not seen as program text.
type LineReader struct {
	r   *bufio.Reader
	max int
}

var _ LineSource = new(LineReader)

func NewLineReader(r *bufio.Reader, maxLineLength int) *LineReader {
	if maxLineLength <= 0 {
		maxLineLength = bf.DefaultMaxLineLength
	}
	return &LineReader{
		r:   r,
		max: maxLineLength,
	}
}

func (l *LineReader) ReadLine() ([]byte, error) {
	var line []byte
	for {
		b, err := l.r.ReadByte()
		if err == io.EOF {
			if len(line) == 0 {
				return nil, io.EOF
			}
			return line, nil
		}
		if err != nil {
			return nil, &bf.Error{
				Kind:   bf.ErrIO,
				Reason: "read line",
				Err:    err,
			}
		}
		// room for the terminator
		if len(line) >= l.max-1 {
			return nil, &bf.Error{
				Kind:   bf.ErrBounds,
				Reason: "line too long",
			}
		}
		line = append(line, b)
		if b == '\n' {
			return line, nil
		}
	}
}
