package cmds

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

func (p *Executor) PrintUsage() {
	w := p.Output
	if w == nil {
		w = os.Stderr
	}
	names := slices.Clone(p.names)
	slices.Sort(names)
	for _, name := range names {
		printCommand(w, 0, name, p.commands[name])
	}
}

func printCommand(w io.Writer, depth int, name string, command *Command) {
	if command == nil {
		return
	}
	indent := strings.Repeat("  ", depth)
	label := name
	if len(command.Aliases) > 0 {
		label += ", " + strings.Join(command.Aliases, ", ")
	}
	if command.Func.IsValid() {
		for i, max := 0, command.Func.Type().NumIn(); i < max; i++ {
			label += " <" + command.Func.Type().In(i).String() + ">"
		}
	}
	if command.Description != "" {
		fmt.Fprintf(w, "%s%-32s %s\n", indent, label, command.Description)
	} else {
		fmt.Fprintf(w, "%s%s\n", indent, label)
	}
	subNames := make([]string, 0, len(command.Subs))
	for subName := range command.Subs {
		subNames = append(subNames, subName)
	}
	slices.Sort(subNames)
	for _, subName := range subNames {
		printCommand(w, depth+1, subName, command.Subs[subName])
	}
}
