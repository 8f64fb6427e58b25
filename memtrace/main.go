// Command memtrace converts Lackey memory logs into BYU address traces and
// replays the traces through a small cache hierarchy.
package main

import "github.com/sarchlab/memtrace/memtrace/cmd"

func main() {
	cmd.Execute()
}
