package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/reusee/taibf/bf"
	"github.com/reusee/taibf/debugs"
	"github.com/reusee/taibf/logs"
)

const traceRadius = 8

// Runner feeds lines to one session until input ends or a line fails.
type Runner struct {
	Session   *bf.Session
	Lines     LineSource
	StateFile string
	Inspect   string

	Logger  logs.Logger
	NewSpan logs.NewSpan
	Tap     debugs.Tap // optional
	Eval    debugs.Eval

	Diagnostics io.Writer // receives inspect results

	output *bufio.Writer
	unlock func()
	lines  int
}

func (r *Runner) setStreams(opts bf.Options, input io.ByteReader, output io.Writer) {
	r.output = bufio.NewWriter(output)
	opts.Input = input
	opts.Output = r.output
	r.Session = bf.NewSession(opts)
}

// Open restores the persisted session, if configured, and holds its lock until Close.
func (r *Runner) Open() error {
	if r.StateFile == "" {
		return nil
	}
	unlock, err := lockState(r.StateFile)
	if err != nil {
		return err
	}
	if err := loadState(r.StateFile, r.Session); err != nil {
		unlock()
		return err
	}
	r.unlock = unlock
	r.Logger.Debug("state loaded",
		"path", r.StateFile,
		"cursor", r.Session.Cursor,
	)
	return nil
}

// Close flushes output, persists the session when save is true and releases the state lock.
func (r *Runner) Close(save bool) error {
	err := r.output.Flush()
	if err != nil {
		err = &bf.Error{
			Kind:   bf.ErrIO,
			Reason: "flush output",
			Err:    err,
		}
	}
	if r.Inspect != "" {
		r.inspect()
	}
	if r.unlock != nil {
		defer func() {
			r.unlock()
			r.unlock = nil
		}()
		if save && err == nil {
			if err = saveState(r.StateFile, r.Session); err == nil {
				r.Logger.Debug("state saved",
					"path", r.StateFile,
					"cursor", r.Session.Cursor,
				)
			}
		}
	}
	return err
}

func (r *Runner) Run(ctx context.Context) (err error) {
	if err := r.Open(); err != nil {
		return err
	}
	defer func() {
		if e := r.Close(err == nil); err == nil {
			err = e
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.Lines.ReadLine()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			r.fail(ctx, nil, err)
			return err
		}

		if err := r.RunLine(ctx, line); err != nil {
			return err
		}
	}

	r.Logger.Info("execution completed",
		"lines", r.lines,
		"cursor", r.Session.Cursor,
	)
	return nil
}

func (r *Runner) RunLine(ctx context.Context, line []byte) error {
	r.lines++
	ctx, _ = r.NewSpan(ctx, "", "length", len(line))

	n, err := bf.Execute(line, r.Session)
	// output preceding a failure is still written
	if flushErr := r.output.Flush(); flushErr != nil {
		err = errors.Join(err, &bf.Error{
			Kind:   bf.ErrIO,
			Reason: "flush output",
			Err:    flushErr,
		})
	}
	if err != nil {
		r.fail(ctx, line, err)
		return logs.WrapSpan(ctx, err)
	}

	r.Logger.DebugContext(ctx, "line executed",
		"processed", n,
		"cursor", r.Session.Cursor,
		"cell", r.Session.Cell(),
	)
	return nil
}

func (r *Runner) fail(ctx context.Context, line []byte, err error) {
	start, cells := r.Session.Window(traceRadius)
	r.Logger.ErrorContext(ctx, "execution failed",
		"error", err,
		"cursor", r.Session.Cursor,
		"window", start,
		"cells", fmt.Sprintf("% x", cells),
	)
	if r.Tap != nil {
		r.Tap(ctx, "failure", r.globals(line, err))
	}
}

func (r *Runner) globals(line []byte, err error) map[string]any {
	session := r.Session
	return map[string]any{
		"cursor":   session.Cursor,
		"cells":    session.Tape,
		"line":     string(line),
		"error":    err,
		"matching": session.Matching,
		"peek": func(i int) int {
			if i < 0 || i >= len(session.Tape) {
				return -1
			}
			return int(session.Tape[i])
		},
	}
}

func (r *Runner) inspect() {
	result, err := r.Eval(r.Inspect, r.globals(nil, nil))
	if err != nil {
		r.Logger.Error("inspect failed",
			"expr", r.Inspect,
			"error", err,
		)
		return
	}
	fmt.Fprintf(r.Diagnostics, "%s = %s\n", r.Inspect, result)
}
