package runner

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/reusee/dscope"
	"github.com/reusee/taibf/bf"
	"github.com/reusee/taibf/bfconfigs"
	"github.com/reusee/taibf/debugs"
	"github.com/reusee/taibf/logs"
	"github.com/reusee/taibf/modes"
)

func testScope(t *testing.T, defs ...any) dscope.Scope {
	return dscope.New(
		new(Module),
		modes.ForTest(t),
	).Fork(
		func() bfconfigs.ConfigPaths {
			return nil
		},
		func() logs.Writer {
			return new(bytes.Buffer)
		},
	).Fork(defs...)
}

func newStreamRunner(scope dscope.Scope, input string, output *bytes.Buffer) *Runner {
	var r *Runner
	scope.Call(func(
		newRunner NewRunner,
		opts bf.Options,
	) {
		br := bufio.NewReader(strings.NewReader(input))
		r = newRunner(NewLineReader(br, opts.MaxLineLength), br, output)
	})
	return r
}

func TestRun(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	t.Run("state persists across lines", func(t *testing.T) {
		out := new(bytes.Buffer)
		r := newStreamRunner(testScope(t), "+\n.\n", out)
		if err := r.Run(ctx); err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(out.Bytes(), []byte{1}) {
			t.Fatalf("got %v", out.Bytes())
		}
	})

	t.Run("input shares the program stream", func(t *testing.T) {
		out := new(bytes.Buffer)
		r := newStreamRunner(testScope(t), ",.\nA+.\n", out)
		if err := r.Run(ctx); err != nil {
			t.Fatal(err)
		}
		// ',' consumed 'A', so the next line is "+.\n" applied to cell 'A'
		if out.String() != "AB" {
			t.Fatalf("got %q", out.String())
		}
	})

	t.Run("halts on first failure", func(t *testing.T) {
		out := new(bytes.Buffer)
		r := newStreamRunner(testScope(t), "+.\n#\n+.\n", out)
		err := r.Run(ctx)
		if !errors.Is(err, bf.ErrSyntax) {
			t.Fatalf("got %v", err)
		}
		if !bytes.Equal(out.Bytes(), []byte{1}) {
			t.Fatalf("got %v", out.Bytes())
		}
		if !strings.Contains(err.Error(), "span: ") {
			t.Fatalf("got %v", err)
		}
	})

	t.Run("line too long", func(t *testing.T) {
		r := newStreamRunner(testScope(t), strings.Repeat("+", bf.DefaultMaxLineLength)+"\n", new(bytes.Buffer))
		err := r.Run(ctx)
		if !errors.Is(err, bf.ErrBounds) {
			t.Fatalf("got %v", err)
		}
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(ctx)
		cancel()
		r := newStreamRunner(testScope(t), "+\n", new(bytes.Buffer))
		if err := r.Run(ctx); !errors.Is(err, context.Canceled) {
			t.Fatalf("got %v", err)
		}
	})

	t.Run("tap on failure", func(t *testing.T) {
		var tapped map[string]any
		scope := testScope(t, func() debugs.Tap {
			return func(ctx context.Context, what string, globals map[string]any) {
				tapped = globals
			}
		})
		r := newStreamRunner(scope, ">+<<\n", new(bytes.Buffer))
		r.Tap = dscope.Get[debugs.Tap](scope)
		err := r.Run(ctx)
		if !errors.Is(err, bf.ErrBounds) {
			t.Fatalf("got %v", err)
		}
		if tapped == nil {
			t.Fatal("not tapped")
		}
		if tapped["cursor"] != 0 {
			t.Fatalf("got %v", tapped["cursor"])
		}
		peek := tapped["peek"].(func(int) int)
		if peek(1) != 1 || peek(-1) != -1 {
			t.Fatal()
		}
	})

	t.Run("inspect", func(t *testing.T) {
		diagnostics := new(bytes.Buffer)
		r := newStreamRunner(testScope(t), "+++>++\n", new(bytes.Buffer))
		r.Inspect = "cursor * 10"
		r.Diagnostics = diagnostics
		if err := r.Run(ctx); err != nil {
			t.Fatal(err)
		}
		if diagnostics.String() != "cursor * 10 = 10\n" {
			t.Fatalf("got %q", diagnostics.String())
		}
	})

	t.Run("inspect cells", func(t *testing.T) {
		diagnostics := new(bytes.Buffer)
		r := newStreamRunner(testScope(t), "+++>++<\n", new(bytes.Buffer))
		r.Inspect = "cells[cursor] + cells[cursor + 1]"
		r.Diagnostics = diagnostics
		if err := r.Run(ctx); err != nil {
			t.Fatal(err)
		}
		if diagnostics.String() != "cells[cursor] + cells[cursor + 1] = 5\n" {
			t.Fatalf("got %q", diagnostics.String())
		}
	})

	t.Run("tap exposes cells", func(t *testing.T) {
		var tapped map[string]any
		r := newStreamRunner(testScope(t), "++#\n", new(bytes.Buffer))
		r.Tap = func(ctx context.Context, what string, globals map[string]any) {
			tapped = globals
		}
		if err := r.Run(ctx); !errors.Is(err, bf.ErrSyntax) {
			t.Fatalf("got %v", err)
		}
		cells, ok := tapped["cells"].([]byte)
		if !ok {
			t.Fatalf("got %T", tapped["cells"])
		}
		if cells[0] != 2 {
			t.Fatalf("got %d", cells[0])
		}
	})
}

func TestRunLineFlushesOnFailure(t *testing.T) {
	ctx := context.Background()
	out := new(bytes.Buffer)
	r := newStreamRunner(testScope(t), "", out)

	err := r.RunLine(ctx, []byte("+++.#"))
	if !errors.Is(err, bf.ErrSyntax) {
		t.Fatalf("got %v", err)
	}
	if !bytes.Equal(out.Bytes(), []byte{3}) {
		t.Fatalf("got %v", out.Bytes())
	}

	if err := r.RunLine(ctx, []byte("++.")); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out.Bytes(), []byte{3, 5}) {
		t.Fatalf("got %v", out.Bytes())
	}
}

func TestStateFile(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dir := t.TempDir()
	path := filepath.Join(dir, "tape.json")
	scope := testScope(t, func() bfconfigs.StateFile {
		return bfconfigs.StateFile(path)
	})

	r := newStreamRunner(scope, "+++>++\n", new(bytes.Buffer))
	if err := r.Run(ctx); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		t.Fatal(err)
	}
	if state.Cursor != 1 || state.Cells[0] != 3 || state.Cells[1] != 2 {
		t.Fatalf("got %d %v", state.Cursor, state.Cells[:2])
	}
	if _, err := os.Stat(path + ".lock"); !os.IsNotExist(err) {
		t.Fatalf("lock not released: %v", err)
	}

	// second process continues where the first stopped
	out := new(bytes.Buffer)
	r = newStreamRunner(scope, ".<.\n", out)
	if err := r.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out.Bytes(), []byte{2, 3}) {
		t.Fatalf("got %v", out.Bytes())
	}

	// failures do not persist
	r = newStreamRunner(scope, "+++<<\n", new(bytes.Buffer))
	if err := r.Run(ctx); !errors.Is(err, bf.ErrBounds) {
		t.Fatalf("got %v", err)
	}
	data, err = os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(data, &state); err != nil {
		t.Fatal(err)
	}
	if state.Cursor != 0 || state.Cells[0] != 3 {
		t.Fatalf("got %d %v", state.Cursor, state.Cells[:2])
	}

	t.Run("locked", func(t *testing.T) {
		if err := os.WriteFile(path+".lock", nil, 0600); err != nil {
			t.Fatal(err)
		}
		defer os.Remove(path + ".lock")
		r := newStreamRunner(scope, "+\n", new(bytes.Buffer))
		if err := r.Run(ctx); !errors.Is(err, ErrStateLocked) {
			t.Fatalf("got %v", err)
		}
	})

	t.Run("bad state", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		if err := os.WriteFile(bad, []byte(`{"cursor": -1}`), 0644); err != nil {
			t.Fatal(err)
		}
		r := newStreamRunner(scope, "+\n", new(bytes.Buffer))
		r.StateFile = bad
		if err := r.Run(ctx); err == nil {
			t.Fatal("should error")
		}
		if _, err := os.Stat(bad + ".lock"); !os.IsNotExist(err) {
			t.Fatalf("lock not released: %v", err)
		}
	})
}
