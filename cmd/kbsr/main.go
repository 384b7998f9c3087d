// Command kbsr is an interactive keybind trainer with spaced repetition.
package main

import (
	"fmt"
	"os"

	"github.com/dbalmain/kbsr/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
