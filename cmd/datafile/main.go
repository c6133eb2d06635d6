// Command datafile loads, merges, finds, resolves and validates data files.
package main

import (
	"os"

	"github.com/erraggy/datafile/cmd/datafile/commands"
)

func main() {
	os.Exit(commands.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
