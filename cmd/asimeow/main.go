package main

import (
	"fmt"
	"os"

	"github.com/mdnmdn/asimeow/cmd/asimeow/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
