package main

import (
	"os"

	"github.com/msto63/lexzig/cmd/lexzig/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
