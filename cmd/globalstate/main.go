package main

import (
	"os"

	"github.com/jask/globalstate/cmd/globalstate/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
