// Package main is the entry point for the minekb-chat CLI, a thin
// terminal front end over the MineKB client core.
package main

import (
	"fmt"
	"os"

	"github.com/minekb/minekb-core/cmd/minekb-chat/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
