package runner

import (
	"io"

	"github.com/reusee/dscope"
	"github.com/reusee/taibf/bf"
	"github.com/reusee/taibf/bfconfigs"
	"github.com/reusee/taibf/cmds"
	"github.com/reusee/taibf/debugs"
	"github.com/reusee/taibf/logs"
)

type Module struct {
	dscope.Module
	Configs bfconfigs.Module
	Logs    logs.Module
	Debugs  debugs.Module
}

var (
	tapFlag     = cmds.Switch("-tap", "open a starlark prompt over the tape after a failure")
	inspectFlag = cmds.Var[string]("-inspect", "evaluate a starlark expression over the tape when execution ends")
)

type NewRunner func(lines LineSource, input io.ByteReader, output io.Writer) *Runner

func (Module) NewRunner(
	opts bf.Options,
	stateFile bfconfigs.StateFile,
	logger logs.Logger,
	newSpan logs.NewSpan,
	tap debugs.Tap,
	eval debugs.Eval,
	writer logs.Writer,
) NewRunner {
	return func(lines LineSource, input io.ByteReader, output io.Writer) *Runner {
		r := &Runner{
			Lines:     lines,
			StateFile: string(stateFile),
			Inspect:   *inspectFlag,
			Logger:    logger,
			NewSpan:   newSpan,
			Eval:      eval,

			Diagnostics: writer,
		}
		if *tapFlag {
			r.Tap = tap
		}
		r.setStreams(opts, input, output)
		return r
	}
}
