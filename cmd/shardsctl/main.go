// Command shardsctl loads wire definitions and runs them on the host.
//
// Usage:
//
//	shardsctl run [-config host.toml] [-ticks n] [-headless] wire.yaml
//	shardsctl check [-config host.toml] wire.yaml
//	shardsctl list [pattern]
//	shardsctl describe [-schema] Shard.Name
package main

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

type app struct {
	stdout io.Writer
	stderr io.Writer
	isTTY  func() bool
}

func main() {
	a := &app{
		stdout: os.Stdout,
		stderr: os.Stderr,
		isTTY:  func() bool { return term.IsTerminal(int(os.Stdout.Fd())) },
	}
	os.Exit(a.run(os.Args[1:]))
}

func (a *app) run(args []string) int {
	if len(args) == 0 {
		a.usage()
		return 2
	}

	switch args[0] {
	case "run":
		return a.runCommand(args[1:])
	case "check":
		return a.checkCommand(args[1:])
	case "list":
		return a.listCommand(args[1:])
	case "describe":
		return a.describeCommand(args[1:])
	case "help", "-h", "--help":
		a.usage()
		return 0
	}
	fmt.Fprintf(a.stderr, "unknown command %q\n", args[0])
	a.usage()
	return 2
}

func (a *app) usage() {
	fmt.Fprint(a.stderr, `usage: shardsctl <command> [flags]

commands:
  run       run a wire definition
  check     compose a wire definition without running it
  list      list registered shards
  describe  show the parameters of a shard
`)
}

func (a *app) fail(err error) int {
	fmt.Fprintf(a.stderr, "error: %v\n", err)
	return 1
}
