package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/reusee/dscope"
	"github.com/reusee/taibf/bf"
	"github.com/reusee/taibf/cmds"
	"github.com/reusee/taibf/configs"
	"github.com/reusee/taibf/modes"
	"github.com/reusee/taibf/runner"
	"golang.org/x/term"
)

var replFlag = cmds.Switch("-repl", "read program lines from an interactive prompt")

func main() {
	cmds.Execute(os.Args[1:])

	scope := dscope.New(
		new(runner.Module),
		modes.ForProduction(),
	)

	// config values panic on invalid files, check before resolving them
	scope.Call(func(
		loader configs.Loader,
	) {
		if err := loader.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid config: %v\n", err)
			os.Exit(1)
		}
	})

	scope.Call(func(
		opts bf.Options,
		newRunner runner.NewRunner,
	) {
		ctx := context.Background()

		if *replFlag || term.IsTerminal(int(os.Stdin.Fd())) {
			if err := runREPL(ctx, newRunner); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		}

		input := bufio.NewReader(os.Stdin)
		r := newRunner(
			runner.NewLineReader(input, opts.MaxLineLength),
			input,
			os.Stdout,
		)
		if err := r.Run(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Execution halted: %v\n", err)
			os.Exit(1)
		}
	})
}
