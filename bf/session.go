package bf

import (
	"io"
)

const (
	DefaultTapeSize      = 0xffff
	DefaultMaxLineLength = 0xff
	DefaultLoopStackSize = 0xff
)

type Options struct {
	TapeSize      int // if zero, DefaultTapeSize
	MaxLineLength int // line buffer size including terminator; if zero, DefaultMaxLineLength
	LoopStackSize int // if zero, DefaultLoopStackSize
	Matching      Matching

	Input  io.ByteReader
	Output io.Writer
}

// Session is the interpreter state shared by every executed line.
type Session struct {
	Tape          []byte
	Cursor        int
	MaxLineLength int
	LoopStackSize int
	Matching      Matching

	Input  io.ByteReader
	Output io.Writer
}

func NewSession(opts Options) *Session {
	tapeSize := opts.TapeSize
	if tapeSize <= 0 {
		tapeSize = DefaultTapeSize
	}
	maxLine := opts.MaxLineLength
	if maxLine <= 0 {
		maxLine = DefaultMaxLineLength
	}
	stackSize := opts.LoopStackSize
	if stackSize <= 0 {
		stackSize = DefaultLoopStackSize
	}
	return &Session{
		Tape:          make([]byte, tapeSize),
		MaxLineLength: maxLine,
		LoopStackSize: stackSize,
		Matching:      opts.Matching,
		Input:         opts.Input,
		Output:        opts.Output,
	}
}

// Cell returns the value under the cursor.
func (s *Session) Cell() byte {
	return s.Tape[s.Cursor]
}

// Window returns the offset of the first returned cell and the cells within radius of the cursor.
func (s *Session) Window(radius int) (int, []byte) {
	start := max(s.Cursor-radius, 0)
	end := min(s.Cursor+radius+1, len(s.Tape))
	if start >= end {
		return start, nil
	}
	cells := make([]byte, end-start)
	copy(cells, s.Tape[start:end])
	return start, cells
}

// Reset zeroes the tape and moves the cursor home.
func (s *Session) Reset() {
	clear(s.Tape)
	s.Cursor = 0
}
