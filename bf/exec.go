package bf

import (
	"errors"
	"io"
)

type flusher interface {
	Flush() error
}

// Execute interprets one line of text against the session, returning the number of characters processed.
// Execution stops at the first failing instruction; the tape and cursor keep whatever effects preceded it.
func Execute(text []byte, session *Session) (int, error) {
	if text == nil {
		return 0, fail(ErrPrecondition, 0, "no program to run")
	}
	if session == nil || len(session.Tape) == 0 {
		return 0, fail(ErrPrecondition, 0, "no memory block to run on")
	}
	if session.Cursor < 0 || session.Cursor >= len(session.Tape) {
		return 0, fail(ErrBounds, 0, "cursor outside of tape")
	}
	if session.MaxLineLength > 0 && len(text) >= session.MaxLineLength {
		return 0, fail(ErrBounds, 0, "line too long")
	}

	tape := session.Tape
	stackSize := session.LoopStackSize
	if stackSize <= 0 {
		stackSize = DefaultLoopStackSize
	}
	stack := newLoopStack(stackSize)

	ip := 0
	for ip < len(text) {
		op := text[ip]
		switch op {

		case '>':
			if session.Cursor+1 >= len(tape) {
				return 0, fail(ErrBounds, op, "out of cells")
			}
			session.Cursor++

		case '<':
			if session.Cursor-1 < 0 {
				return 0, fail(ErrBounds, op, "cursor below first cell")
			}
			session.Cursor--

		case '+':
			tape[session.Cursor]++

		case '-':
			tape[session.Cursor]--

		case '.':
			if session.Output == nil {
				return 0, fail(ErrPrecondition, op, "no output stream")
			}
			if _, err := session.Output.Write(tape[session.Cursor : session.Cursor+1]); err != nil {
				return 0, failWith(ErrIO, op, "write cell", err)
			}

		case ',':
			if session.Input == nil {
				return 0, fail(ErrPrecondition, op, "no input stream")
			}
			if f, ok := session.Output.(flusher); ok {
				if err := f.Flush(); err != nil {
					return 0, failWith(ErrIO, op, "flush output", err)
				}
			}
			b, err := session.Input.ReadByte()
			if err != nil {
				if errors.Is(err, io.EOF) {
					err = io.ErrUnexpectedEOF
				}
				return 0, failWith(ErrIO, op, "read input", err)
			}
			tape[session.Cursor] = b

		case loopOpen:
			if !stack.push(ip) {
				return 0, fail(ErrResource, op, "loop stack overflow")
			}
			if tape[session.Cursor] == 0 {
				end, ok := FindLoopEnd(text, ip, session.Matching)
				if !ok {
					return 0, fail(ErrSyntax, op, "unmatched '['")
				}
				if session.Matching == MatchFirst {
					// step past the terminator, the entry stays for the next one
					ip = end + 1
					continue
				}
				// the terminator sees a zero cell and pops this entry
				ip = end
				continue
			}

		case loopClose:
			if stack.depth() == 0 {
				return 0, fail(ErrSyntax, op, "unmatched ']'")
			}
			if tape[session.Cursor] != 0 {
				start, ok := stack.resume(text, ip)
				if !ok {
					return 0, fail(ErrResource, op, "invalid loop index")
				}
				ip = start + 1
				continue
			}
			stack.pop()

		case ' ', '\t', '\r', '\n':

		default:
			return 0, fail(ErrSyntax, op, "invalid character")
		}
		ip++
	}

	return ip, nil
}
