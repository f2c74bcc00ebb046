package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/reusee/taibf/runner"
)

const (
	linePrompt  = "bf> "
	inputPrompt = ",> "
)

type prompter interface {
	Readline() (string, error)
	SetPrompt(string)
}

// promptLines reads program lines; Ctrl-C and Ctrl-D both end the session.
type promptLines struct {
	p prompter
}

func (l promptLines) ReadLine() ([]byte, error) {
	line, err := l.p.Readline()
	if err != nil {
		return nil, io.EOF
	}
	return []byte(line), nil
}

// promptInput serves ',' from a separate prompt, one line at a time.
type promptInput struct {
	p   prompter
	buf []byte
}

func (i *promptInput) ReadByte() (byte, error) {
	if len(i.buf) == 0 {
		i.p.SetPrompt(inputPrompt)
		line, err := i.p.Readline()
		i.p.SetPrompt(linePrompt)
		if err != nil {
			return 0, err
		}
		i.buf = append([]byte(line), '\n')
	}
	b := i.buf[0]
	i.buf = i.buf[1:]
	return b, nil
}

// lineEnder remembers whether the last byte written ended a line.
type lineEnder struct {
	w       io.Writer
	pending bool
}

func (l *lineEnder) Write(p []byte) (int, error) {
	n, err := l.w.Write(p)
	if n > 0 {
		l.pending = p[n-1] != '\n'
	}
	return n, err
}

func (l *lineEnder) end() {
	if l.pending {
		l.w.Write([]byte{'\n'})
		l.pending = false
	}
}

func runREPL(ctx context.Context, newRunner runner.NewRunner) error {
	var historyFile string
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".taibf_history")
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      linePrompt,
		HistoryFile: historyFile,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	lines := promptLines{p: rl}
	output := &lineEnder{w: rl.Stdout()}
	r := newRunner(lines, &promptInput{p: rl}, output)
	if err := r.Open(); err != nil {
		return err
	}

	for {
		line, err := lines.ReadLine()
		if err != nil {
			break
		}
		if strings.TrimSpace(string(line)) == "" {
			continue
		}
		if err := r.RunLine(ctx, line); err != nil {
			output.end()
			fmt.Fprintf(rl.Stderr(), "error: %v\n", err)
			continue
		}
		output.end()
	}

	return r.Close(true)
}
