package bfconfigs

import (
	"fmt"

	"github.com/reusee/taibf/bf"
	"github.com/reusee/taibf/cmds"
	"github.com/reusee/taibf/configs"
	"github.com/reusee/taibf/vars"
)

var (
	tapeSizeFlag      int
	maxLineLengthFlag int
	loopStackSizeFlag int
	loopMatchingFlag  string
	stateFileFlag     = cmds.Var[string]("-state", "load and save tape and cursor in this file")
)

func positive(name string, target *int) *cmds.Command {
	return cmds.Func(func(n int) error {
		if n <= 0 {
			return fmt.Errorf("%s must be positive, got %d", name, n)
		}
		*target = n
		return nil
	})
}

func init() {
	cmds.Define("-tape-size", positive("tape size", &tapeSizeFlag).
		Desc("number of cells on the tape"))
	cmds.Define("-max-line-length", positive("max line length", &maxLineLengthFlag).
		Desc("line buffer size, including the terminator"))
	cmds.Define("-loop-stack-size", positive("loop stack size", &loopStackSizeFlag).
		Desc("maximum loop nesting within one line"))
	cmds.Define("-loop-matching", cmds.Func(func(str string) error {
		if _, err := bf.ParseMatching(str); err != nil {
			return err
		}
		loopMatchingFlag = str
		return nil
	}).Desc("balanced or first"))
}

type TapeSize int

func (Module) TapeSize(
	loader configs.Loader,
) TapeSize {
	return TapeSize(vars.FirstNonZero(
		tapeSizeFlag,
		configs.First[int](loader, "tape_size"),
		bf.DefaultTapeSize,
	))
}

type MaxLineLength int

func (Module) MaxLineLength(
	loader configs.Loader,
) MaxLineLength {
	return MaxLineLength(vars.FirstNonZero(
		maxLineLengthFlag,
		configs.First[int](loader, "max_line_length"),
		bf.DefaultMaxLineLength,
	))
}

type LoopStackSize int

func (Module) LoopStackSize(
	loader configs.Loader,
) LoopStackSize {
	return LoopStackSize(vars.FirstNonZero(
		loopStackSizeFlag,
		configs.First[int](loader, "loop_stack_size"),
		bf.DefaultLoopStackSize,
	))
}

type LoopMatching bf.Matching

func (Module) LoopMatching(
	loader configs.Loader,
) LoopMatching {
	matching, err := bf.ParseMatching(vars.FirstNonZero(
		loopMatchingFlag,
		configs.First[string](loader, "loop_matching"),
	))
	if err != nil {
		// rejected by the flag and the schema already
		panic(err)
	}
	return LoopMatching(matching)
}

type StateFile string

func (Module) StateFile(
	loader configs.Loader,
) StateFile {
	return StateFile(vars.FirstNonZero(
		*stateFileFlag,
		configs.First[string](loader, "state_file"),
	))
}

// SessionOptions collects the configured session limits.
func (Module) SessionOptions(
	tapeSize TapeSize,
	maxLineLength MaxLineLength,
	loopStackSize LoopStackSize,
	matching LoopMatching,
) bf.Options {
	return bf.Options{
		TapeSize:      int(tapeSize),
		MaxLineLength: int(maxLineLength),
		LoopStackSize: int(loopStackSize),
		Matching:      bf.Matching(matching),
	}
}
