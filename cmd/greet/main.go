package main

import (
	"os"

	"github.com/janisto/greet-playground/cmd/greet/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
