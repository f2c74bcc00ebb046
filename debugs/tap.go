package debugs

import (
	"context"
	"maps"
	"slices"

	"github.com/reusee/taibf/logs"
	"go.starlark.net/repl"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

var fileOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
}

// Tap opens an interactive starlark prompt over globals.
type Tap func(ctx context.Context, what string, globals map[string]any)

func (Module) Tap(
	logger logs.Logger,
) Tap {
	return func(ctx context.Context, what string, globals map[string]any) {
		keys := slices.Sorted(maps.Keys(globals))
		logger.InfoContext(ctx, "tap: "+what,
			"globals", keys,
		)
		defer func() {
			logger.InfoContext(ctx, "tap end: "+what)
		}()

		thread := &starlark.Thread{
			Name: "tap",
		}
		repl.REPLOptions(fileOptions, thread, toStringDict(globals))
	}
}

// Eval evaluates one starlark expression over globals.
type Eval func(expr string, globals map[string]any) (string, error)

func (Module) Eval() Eval {
	return func(expr string, globals map[string]any) (string, error) {
		thread := &starlark.Thread{
			Name: "eval",
		}
		value, err := starlark.EvalOptions(fileOptions, thread, "<inspect>", expr, toStringDict(globals))
		if err != nil {
			return "", err
		}
		if str, ok := value.(starlark.String); ok {
			return string(str), nil
		}
		return value.String(), nil
	}
}
